package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ProductCategory enumerates the supported product categories.
type ProductCategory string

const (
	CategoryDirectPrint    ProductCategory = "Direct Print"
	CategoryDesignAndPrint ProductCategory = "Design and Print"
	CategoryOther          ProductCategory = "Other"
)

// Valid reports whether c is one of the known categories.
func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryDirectPrint, CategoryDesignAndPrint, CategoryOther:
		return true
	}
	return false
}

// SKURef is one SKU line of a product: the referenced model and how many units
// of it the product consumes.
type SKURef struct {
	ModelID string `json:"modelId" validate:"required"`
	Units   Count  `json:"units" validate:"gt=0"`
}

// UnmarshalJSON accepts both {"modelId":"AB12","units":3} and the "AB12:3"
// shorthand the product detail endpoint returns.
func (r *SKURef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		id, units, _ := strings.Cut(s, ":")
		r.ModelID = strings.TrimSpace(id)
		r.Units = 0
		if units = strings.TrimSpace(units); units != "" {
			n, err := strconv.Atoi(units)
			if err != nil {
				return fmt.Errorf("invalid sku units in %q: %w", s, err)
			}
			r.Units = Count(n)
		}
		return nil
	}
	type plain SKURef
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = SKURef(p)
	return nil
}

// Product is a sellable item assembled from one or more SKUs.
type Product struct {
	ProductID          string          `json:"productId"`
	ProductName        string          `json:"productName"`
	ProductDescription string          `json:"productDescription"`
	Category           ProductCategory `json:"category"`
	Type               string          `json:"type"`
	PrintRequired      bool            `json:"printRequired"`
	PrintDetails       string          `json:"printDetails"`
	SKU                []SKURef        `json:"SKU"`
	CreatedAt          Timestamp       `json:"createdAt"`
	UpdatedAt          Timestamp       `json:"updatedAt"`
}

// RowID returns the product identifier.
func (p Product) RowID() string { return p.ProductID }

// MarshalJSON adds the IST renderings of the timestamps.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		CreatedAtDisplay string `json:"createdAtDisplay"`
		UpdatedAtDisplay string `json:"updatedAtDisplay"`
	}{plain(p), p.CreatedAt.Display(), p.UpdatedAt.Display()})
}

// Fields returns the product's searchable and sortable column values.
func (p Product) Fields() map[string]any {
	refs := make([]string, 0, len(p.SKU))
	for _, r := range p.SKU {
		refs = append(refs, r.ModelID)
	}
	return map[string]any{
		"productId":          p.ProductID,
		"productName":        p.ProductName,
		"productDescription": p.ProductDescription,
		"category":           string(p.Category),
		"type":               p.Type,
		"printRequired":      p.PrintRequired,
		"printDetails":       p.PrintDetails,
		"SKU":                strings.Join(refs, ","),
		"createdAt":          p.CreatedAt.value(),
		"updatedAt":          p.UpdatedAt.value(),
	}
}

// HasSKU reports whether the product references modelID.
func (p Product) HasSKU(modelID string) bool {
	for _, r := range p.SKU {
		if r.ModelID == modelID {
			return true
		}
	}
	return false
}

// ProductDraft is the editable form state for a new product.
type ProductDraft struct {
	ProductName        string          `json:"productName" validate:"required"`
	ProductDescription string          `json:"productDescription"`
	Category           ProductCategory `json:"category" validate:"required,product_category"`
	Type               string          `json:"type" validate:"required"`
	PrintRequired      bool            `json:"printRequired"`
	PrintDetails       string          `json:"printDetails"`
	SKU                []SKURef        `json:"SKU" validate:"dive"`
}

// ProductPayload is the body the create endpoint expects. The upstream API
// spells the print flag in lower case.
type ProductPayload struct {
	ProductName        string          `json:"productName"`
	ProductDescription string          `json:"productDescription"`
	Category           ProductCategory `json:"category"`
	Type               string          `json:"type"`
	PrintRequired      bool            `json:"printrequired"`
	PrintDetails       string          `json:"printDetails"`
	SKU                []SKURef        `json:"SKU"`
}

// Payload returns the create request body for d.
func (d ProductDraft) Payload() ProductPayload {
	refs := d.SKU
	if refs == nil {
		refs = []SKURef{}
	}
	return ProductPayload{
		ProductName:        d.ProductName,
		ProductDescription: d.ProductDescription,
		Category:           d.Category,
		Type:               d.Type,
		PrintRequired:      d.PrintRequired,
		PrintDetails:       d.PrintDetails,
		SKU:                refs,
	}
}

// ProductPatch carries field edits for a product draft.
type ProductPatch struct {
	ProductName        *string          `json:"productName"`
	ProductDescription *string          `json:"productDescription"`
	Category           *ProductCategory `json:"category"`
	Type               *string          `json:"type"`
	PrintRequired      *bool            `json:"printRequired"`
	PrintDetails       *string          `json:"printDetails"`
	SKU                []SKURef         `json:"SKU"`
}

// Apply copies the non-nil fields of p onto d. A non-nil SKU list replaces the
// draft's list.
func (p ProductPatch) Apply(d *ProductDraft) {
	if p.ProductName != nil {
		d.ProductName = *p.ProductName
	}
	if p.ProductDescription != nil {
		d.ProductDescription = *p.ProductDescription
	}
	if p.Category != nil {
		d.Category = *p.Category
	}
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.PrintRequired != nil {
		d.PrintRequired = *p.PrintRequired
	}
	if p.PrintDetails != nil {
		d.PrintDetails = *p.PrintDetails
	}
	if p.SKU != nil {
		d.SKU = p.SKU
	}
}
