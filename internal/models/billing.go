package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// BillingStatus is the payment state of an invoice.
type BillingStatus string

const (
	BillingPending BillingStatus = "PENDING"
	BillingPartial BillingStatus = "PARTIAL"
	BillingPaid    BillingStatus = "PAID"
)

var (
	ErrStatusTerminal      = errors.New("billing is already PAID")
	ErrInvalidTransition   = errors.New("invalid billing status transition")
	ErrUnknownBillingState = errors.New("unknown billing status")
)

// Valid reports whether s is a known status.
func (s BillingStatus) Valid() bool {
	switch s {
	case BillingPending, BillingPartial, BillingPaid:
		return true
	}
	return false
}

// Next returns the status one step forward, or false when s is terminal.
func (s BillingStatus) Next() (BillingStatus, bool) {
	switch s {
	case BillingPending:
		return BillingPartial, true
	case BillingPartial:
		return BillingPaid, true
	}
	return "", false
}

// CanTransition validates moving from s to next. Status only ever moves one
// step forward: PENDING -> PARTIAL -> PAID.
func (s BillingStatus) CanTransition(next BillingStatus) error {
	if !next.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownBillingState, next)
	}
	if s == BillingPaid {
		return ErrStatusTerminal
	}
	want, ok := s.Next()
	if !ok || next != want {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return nil
}

// BillAddress is the postal address printed on an invoice.
type BillAddress struct {
	DoorNumber string `json:"doorNumber"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2"`
	City       string `json:"city"`
	State      string `json:"state"`
	Zipcode    string `json:"zipcode"`
}

func (a BillAddress) String() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.DoorNumber, a.Address1, a.Address2, a.City, a.State, a.Zipcode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Particular is one invoice line.
type Particular struct {
	ProductID   string `json:"productId" validate:"required"`
	ProductName string `json:"productName,omitempty"`
	Rate        Amount `json:"rate"`
	Units       Count  `json:"units" validate:"gt=0"`
	Amount      Amount `json:"amount,omitempty"`
}

// LineTotal is rate * units.
func (p Particular) LineTotal() Amount {
	return p.Rate * Amount(p.Units)
}

// Billing is an invoice.
type Billing struct {
	BillingID    string        `json:"billingId"`
	BillName     string        `json:"billName"`
	ContactNo    string        `json:"contactNo"`
	EmailAddress string        `json:"emailAddress,omitempty"`
	BillAddress  BillAddress   `json:"billAddress"`
	Particulars  []Particular  `json:"particulars"`
	Total        Amount        `json:"total"`
	Status       BillingStatus `json:"status"`
	GeneratedAt  Timestamp     `json:"generatedAt"`
	UpdatedAt    Timestamp     `json:"updatedAt"`
	DocPath      string        `json:"docPath,omitempty"`
}

// RowID returns the billing identifier.
func (b Billing) RowID() string { return b.BillingID }

// MarshalJSON adds the IST renderings of the timestamps.
func (b Billing) MarshalJSON() ([]byte, error) {
	type plain Billing
	return json.Marshal(struct {
		plain
		GeneratedAtDisplay string `json:"generatedAtDisplay"`
		UpdatedAtDisplay   string `json:"updatedAtDisplay"`
	}{plain(b), b.GeneratedAt.Display(), b.UpdatedAt.Display()})
}

// Fields returns the billing record's searchable and sortable column values.
func (b Billing) Fields() map[string]any {
	f := map[string]any{
		"billingId":   b.BillingID,
		"billName":    b.BillName,
		"contactNo":   b.ContactNo,
		"billAddress": b.BillAddress.String(),
		"total":       float64(b.Total),
		"status":      string(b.Status),
		"generatedAt": b.GeneratedAt.value(),
		"updatedAt":   b.UpdatedAt.value(),
	}
	// Optional fields stay absent rather than empty so they never match a search.
	if b.EmailAddress != "" {
		f["emailAddress"] = b.EmailAddress
	}
	if b.DocPath != "" {
		f["docPath"] = b.DocPath
	}
	return f
}

// BillingDraft is the editable form state for a new invoice.
type BillingDraft struct {
	BillName     string        `json:"billName" validate:"required"`
	ContactNo    string        `json:"contactNo" validate:"required"`
	EmailEnabled bool          `json:"emailEnabled"`
	EmailAddress string        `json:"emailAddress"`
	BillAddress  BillAddress   `json:"billAddress"`
	Particulars  []Particular  `json:"particulars" validate:"required,min=1,dive"`
	Total        Amount        `json:"total"`
	Status       BillingStatus `json:"status" validate:"required,oneof=PENDING PARTIAL"`
}

// NewBillingDraft returns an empty draft in PENDING state.
func NewBillingDraft() BillingDraft {
	return BillingDraft{Status: BillingPending, Particulars: []Particular{}}
}

// Recompute derives Total from the current particulars.
func (d *BillingDraft) Recompute() {
	var total Amount
	for _, p := range d.Particulars {
		total += p.LineTotal()
	}
	d.Total = total
}

// BillingPayload is the body the create endpoint expects. The billing id and
// timestamps are assigned by the server.
type BillingPayload struct {
	BillName     string        `json:"billName"`
	ContactNo    string        `json:"contactNo"`
	EmailAddress string        `json:"emailAddress,omitempty"`
	BillAddress  BillAddress   `json:"billAddress"`
	Particulars  []Particular  `json:"particulars"`
	Total        Amount        `json:"total"`
	Status       BillingStatus `json:"status"`
}

// Payload returns the create request body for d. The email address is only
// included when the email toggle is on.
func (d BillingDraft) Payload() BillingPayload {
	b := BillingPayload{
		BillName:    d.BillName,
		ContactNo:   d.ContactNo,
		BillAddress: d.BillAddress,
		Particulars: d.Particulars,
		Total:       d.Total,
		Status:      d.Status,
	}
	if d.EmailEnabled {
		b.EmailAddress = d.EmailAddress
	}
	return b
}

// BillingPatch carries header edits for a billing draft.
type BillingPatch struct {
	BillName     *string        `json:"billName"`
	ContactNo    *string        `json:"contactNo"`
	EmailEnabled *bool          `json:"emailEnabled"`
	EmailAddress *string        `json:"emailAddress"`
	DoorNumber   *string        `json:"doorNumber"`
	Address1     *string        `json:"address1"`
	Address2     *string        `json:"address2"`
	City         *string        `json:"city"`
	State        *string        `json:"state"`
	Zipcode      *string        `json:"zipcode"`
	Status       *BillingStatus `json:"status"`
}

// Apply copies the non-nil fields of p onto d.
func (p BillingPatch) Apply(d *BillingDraft) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&d.BillName, p.BillName)
	set(&d.ContactNo, p.ContactNo)
	set(&d.EmailAddress, p.EmailAddress)
	set(&d.BillAddress.DoorNumber, p.DoorNumber)
	set(&d.BillAddress.Address1, p.Address1)
	set(&d.BillAddress.Address2, p.Address2)
	set(&d.BillAddress.City, p.City)
	set(&d.BillAddress.State, p.State)
	set(&d.BillAddress.Zipcode, p.Zipcode)
	if p.EmailEnabled != nil {
		d.EmailEnabled = *p.EmailEnabled
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
}

// ParticularPatch carries edits for one draft particular.
type ParticularPatch struct {
	ProductID *string `json:"productId"`
	Rate      *Amount `json:"rate"`
	Units     *Count  `json:"units"`
}

// Apply copies the non-nil fields of p onto line.
func (p ParticularPatch) Apply(line *Particular) {
	if p.ProductID != nil {
		line.ProductID = *p.ProductID
	}
	if p.Rate != nil {
		line.Rate = *p.Rate
	}
	if p.Units != nil {
		line.Units = *p.Units
	}
}
