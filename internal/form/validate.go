package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/GTDGit/offline_console/internal/models"
)

// Messages surfaced to the user when a draft fails validation. Only one
// message is shown per attempt.
const (
	MsgRequired      = "All fields marked with * are required."
	MsgUnitsPositive = "Units must be greater than zero."
)

// ErrValidation matches every *ValidationError through errors.Is.
var ErrValidation = errors.New("validation failed")

// FieldError describes one failed rule.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

// ValidationError is returned before any request is sent when a draft is
// incomplete. Message is the single combined text shown to the user.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

var validate = validator.New()

func init() {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("product_category", func(fl validator.FieldLevel) bool {
		if c, ok := fl.Field().Interface().(models.ProductCategory); ok {
			return c.Valid()
		}
		return false
	})
}

// Validate checks the presence rules declared on v's struct tags. Missing
// required fields take precedence over quantity errors.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := &ValidationError{}
	var required, units bool
	var other string
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: fe.Namespace(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
		switch {
		case fe.Tag() == "required" || fe.Tag() == "min":
			required = true
		case fe.Tag() == "gt" && fe.Field() == "units":
			units = true
		case other == "":
			other = fe.Namespace()
		}
	}
	switch {
	case required:
		out.Message = MsgRequired
	case units:
		out.Message = MsgUnitsPositive
	default:
		out.Message = fmt.Sprintf("Invalid value for %s.", other)
	}
	return out
}
