package models

import "encoding/json"

// SKU is a stock-keeping unit: one physical variant with on-hand quantity and rate.
type SKU struct {
	ModelID     string    `json:"modelId"`
	Color       string    `json:"color"`
	Material    string    `json:"material"`
	Weight      string    `json:"weight"`
	Dimensions  string    `json:"dimensions"`
	InStock     bool      `json:"inStock"`
	RatePerUnit Amount    `json:"ratePerUnit"`
	Units       Count     `json:"units"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

// RowID returns the model identifier.
func (s SKU) RowID() string { return s.ModelID }

// MarshalJSON adds the IST rendering of the update time.
func (s SKU) MarshalJSON() ([]byte, error) {
	type plain SKU
	return json.Marshal(struct {
		plain
		UpdatedAtDisplay string `json:"updatedAtDisplay"`
	}{plain(s), s.UpdatedAt.Display()})
}

// Fields returns the SKU's searchable and sortable column values.
func (s SKU) Fields() map[string]any {
	return map[string]any{
		"modelId":     s.ModelID,
		"color":       s.Color,
		"material":    s.Material,
		"weight":      s.Weight,
		"dimensions":  s.Dimensions,
		"inStock":     s.InStock,
		"ratePerUnit": float64(s.RatePerUnit),
		"units":       int(s.Units),
		"updatedAt":   s.UpdatedAt.value(),
	}
}

// SKUDraft is the editable form state for creating or editing a SKU.
// ModelID is assigned by the console on creation and ignored on update.
type SKUDraft struct {
	ModelID     string `json:"modelId,omitempty"`
	Color       string `json:"color" validate:"required"`
	Material    string `json:"material" validate:"required"`
	Weight      string `json:"weight"`
	Dimensions  string `json:"dimensions" validate:"required"`
	InStock     bool   `json:"inStock"`
	RatePerUnit Amount `json:"ratePerUnit" validate:"required"`
	Units       Count  `json:"units" validate:"required"`
}

// DraftFromSKU seeds an edit draft from a fetched SKU.
func DraftFromSKU(s SKU) SKUDraft {
	return SKUDraft{
		ModelID:     s.ModelID,
		Color:       s.Color,
		Material:    s.Material,
		Weight:      s.Weight,
		Dimensions:  s.Dimensions,
		InStock:     s.InStock,
		RatePerUnit: s.RatePerUnit,
		Units:       s.Units,
	}
}

// SKUPatch carries field edits for an SKU draft. Nil fields are left unchanged.
type SKUPatch struct {
	Color       *string `json:"color"`
	Material    *string `json:"material"`
	Weight      *string `json:"weight"`
	Dimensions  *string `json:"dimensions"`
	InStock     *bool   `json:"inStock"`
	RatePerUnit *Amount `json:"ratePerUnit"`
	Units       *Count  `json:"units"`
}

// Apply copies the non-nil fields of p onto d.
func (p SKUPatch) Apply(d *SKUDraft) {
	if p.Color != nil {
		d.Color = *p.Color
	}
	if p.Material != nil {
		d.Material = *p.Material
	}
	if p.Weight != nil {
		d.Weight = *p.Weight
	}
	if p.Dimensions != nil {
		d.Dimensions = *p.Dimensions
	}
	if p.InStock != nil {
		d.InStock = *p.InStock
	}
	if p.RatePerUnit != nil {
		d.RatePerUnit = *p.RatePerUnit
	}
	if p.Units != nil {
		d.Units = *p.Units
	}
}
