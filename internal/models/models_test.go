package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSKURefDecodesShorthandAndObject(t *testing.T) {
	var p Product
	body := `{"productId":"P1","SKU":["AB12:3",{"modelId":"CD34","units":"2"}, "EF56"]}`
	require.NoError(t, json.Unmarshal([]byte(body), &p))

	require.Len(t, p.SKU, 3)
	assert.Equal(t, SKURef{ModelID: "AB12", Units: 3}, p.SKU[0])
	assert.Equal(t, SKURef{ModelID: "CD34", Units: 2}, p.SKU[1])
	assert.Equal(t, SKURef{ModelID: "EF56", Units: 0}, p.SKU[2])
	assert.True(t, p.HasSKU("CD34"))
	assert.False(t, p.HasSKU("ZZ"))
}

func TestSKUDecodesQuotedNumbersAndEmptyTimestamps(t *testing.T) {
	var s SKU
	body := `{"modelId":"X1","ratePerUnit":"12.50","units":"4","inStock":true,"updatedAt":""}`
	require.NoError(t, json.Unmarshal([]byte(body), &s))

	assert.Equal(t, Amount(12.5), s.RatePerUnit)
	assert.Equal(t, Count(4), s.Units)
	assert.True(t, s.UpdatedAt.IsZero())
	assert.Nil(t, s.Fields()["updatedAt"])
	assert.Equal(t, 12.5, s.Fields()["ratePerUnit"])
}

func TestAmountRejectsGarbage(t *testing.T) {
	var a Amount
	assert.Error(t, json.Unmarshal([]byte(`"twelve"`), &a))
}

func TestCountRejectsFractions(t *testing.T) {
	var c Count
	require.NoError(t, json.Unmarshal([]byte(`"3.0"`), &c))
	assert.Equal(t, Count(3), c)

	for _, raw := range []string{`2.5`, `"2.5"`, `"1e400"`} {
		assert.Error(t, json.Unmarshal([]byte(raw), &c), raw)
	}
	assert.Equal(t, Count(3), c)
}

func TestTimestampDisplayUsesIST(t *testing.T) {
	ts := Timestamp{Time: time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)}
	assert.Equal(t, "10 Mar 2024, 12:00:00 am", ts.Display())
	assert.Equal(t, "", Timestamp{}.Display())
}

func TestRecordsCarryDisplayTimes(t *testing.T) {
	b := Billing{
		BillingID:   "B1",
		GeneratedAt: Timestamp{Time: time.Date(2024, 1, 2, 20, 0, 0, 0, time.UTC)},
	}
	out, err := json.Marshal(b)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "2024-01-02T20:00:00Z", got["generatedAt"])
	assert.Equal(t, "3 Jan 2024, 1:30:00 am", got["generatedAtDisplay"])
	assert.Equal(t, "", got["updatedAtDisplay"])
	assert.Equal(t, "B1", got["billingId"])

	var back Billing
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, back.GeneratedAt.Equal(b.GeneratedAt.Time))

	out, err = json.Marshal(SKU{ModelID: "AB12", UpdatedAt: Timestamp{Time: time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)}})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"updatedAtDisplay":"10 Mar 2024, 12:00:00 am"`)
}

func TestBillingStatusIsMonotonic(t *testing.T) {
	assert.NoError(t, BillingPending.CanTransition(BillingPartial))
	assert.NoError(t, BillingPartial.CanTransition(BillingPaid))

	assert.ErrorIs(t, BillingPending.CanTransition(BillingPaid), ErrInvalidTransition)
	assert.ErrorIs(t, BillingPartial.CanTransition(BillingPending), ErrInvalidTransition)
	assert.ErrorIs(t, BillingPaid.CanTransition(BillingPending), ErrStatusTerminal)
	assert.ErrorIs(t, BillingPaid.CanTransition(BillingPartial), ErrStatusTerminal)
	assert.ErrorIs(t, BillingPending.CanTransition("VOID"), ErrUnknownBillingState)

	_, ok := BillingPaid.Next()
	assert.False(t, ok)
}

func TestBillingDraftRecompute(t *testing.T) {
	d := NewBillingDraft()
	d.Particulars = []Particular{
		{ProductID: "P1", Rate: 10, Units: 3},
		{ProductID: "P2", Rate: 2.5, Units: 4},
	}
	d.Recompute()
	assert.Equal(t, Amount(40), d.Total)

	d.Particulars[1].Units = 0
	d.Recompute()
	assert.Equal(t, Amount(30), d.Total)
}

func TestBillingDraftPayloadDropsEmailWhenDisabled(t *testing.T) {
	d := NewBillingDraft()
	d.EmailAddress = "a@b.c"
	assert.Empty(t, d.Payload().EmailAddress)

	d.EmailEnabled = true
	assert.Equal(t, "a@b.c", d.Payload().EmailAddress)
}

func TestBillingFieldsOmitEmptyOptionalColumns(t *testing.T) {
	f := Billing{BillingID: "B1"}.Fields()
	_, hasEmail := f["emailAddress"]
	assert.False(t, hasEmail)
}
