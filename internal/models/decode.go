package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Amount is a monetary or rate value. The upstream API is inconsistent about
// quoting numbers, so it decodes from either a JSON number or a numeric string.
type Amount float64

// UnmarshalJSON accepts 12.5, "12.5", "" and null.
func (a *Amount) UnmarshalJSON(b []byte) error {
	raw, err := numericText(b)
	if err != nil {
		return err
	}
	if raw == "" {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	*a = Amount(f)
	return nil
}

// Count is a whole quantity decoded from either a JSON number or a numeric string.
type Count int

// UnmarshalJSON accepts 3, "3", 3.0, "" and null. Fractional values such as
// 2.5 are rejected.
func (c *Count) UnmarshalJSON(b []byte) error {
	raw, err := numericText(b)
	if err != nil {
		return err
	}
	if raw == "" {
		*c = 0
		return nil
	}
	if i, err := strconv.Atoi(raw); err == nil {
		*c = Count(i)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid count %q: %w", raw, err)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid count %q: not a whole number", raw)
	}
	*c = Count(int(f))
	return nil
}

func numericText(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	return string(b), nil
}

// Timestamp is a server timestamp that tolerates empty strings and null.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON parses RFC3339 (with or without fractional seconds).
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// MarshalJSON writes RFC3339 or null for the zero value.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// value returns the time for column comparisons, or nil when unset so that
// absent timestamps sort before present ones.
func (t Timestamp) value() any {
	if t.IsZero() {
		return nil
	}
	return t.Time
}

// displayZone is the single fixed timezone used for rendering timestamps.
var displayZone = time.FixedZone("IST", 5*3600+30*60)

// Display renders the timestamp in IST, medium date + medium time.
// Unset timestamps render as an empty string.
func (t Timestamp) Display() string {
	if t.IsZero() {
		return ""
	}
	return t.In(displayZone).Format("2 Jan 2006, 3:04:05 pm")
}
