package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
)

// Field is a JSON member whose presence is tracked separately from its value.
//
// An absent member leaves Present false. A member that is null or that does not
// decode into T is Present but not Valid, so callers can tell "not sent" apart
// from "sent as zero" and from "sent with the wrong type".
type Field[T any] struct {
	Value   T
	Present bool
	Valid   bool
}

// Set builds a present, valid field.
func Set[T any](v T) Field[T] {
	return Field[T]{Value: v, Present: true, Valid: true}
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Present = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	f.Value = v
	f.Valid = true
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present || !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// CampaignDraft is the body of a create request.
type CampaignDraft struct {
	Name        Field[string] `json:"name"`
	Type        Field[string] `json:"type"`
	Description Field[string] `json:"description"`
}

// CampaignUpdate is the body of a full-replace update.
type CampaignUpdate struct {
	Name        Field[string] `json:"name"`
	Type        Field[string] `json:"type"`
	Description Field[string] `json:"description"`
	Status      Field[string] `json:"status"`
}

// CampaignPatch is the body of a partial counter/status patch.
type CampaignPatch struct {
	Status  Field[string] `json:"status"`
	Sent    Field[Count]  `json:"sent"`
	Replies Field[Count]  `json:"replies"`
}

var errNotCount = errors.New("not an integral JSON number")

// Count is a counter read from any integral JSON number, so 5, 5.0 and 5e0 are
// all 5. Strings, fractions and values outside int64 are rejected.
type Count int64

func (c *Count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || (b[0] != '-' && (b[0] < '0' || b[0] > '9')) {
		return errNotCount
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*c = Count(i)
		return nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return errNotCount
	}
	*c = Count(f)
	return nil
}
