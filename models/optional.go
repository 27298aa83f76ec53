package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

var jsonNull = []byte("null")

// Optional is an update field that is either unset or set to a value.
// A JSON null decodes as unset.
type Optional[T any] struct {
	Set   bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Set = true
	o.Value = v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return jsonNull, nil
	}
	return json.Marshal(o.Value)
}

// Nullable is an update field that is unset, explicitly null, or set to a value.
type Nullable[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Value[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: v}
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true, Null: true}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*n = Null[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Value(v)
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Set || n.Null {
		return jsonNull, nil
	}
	return json.Marshal(n.Value)
}

// Timestamp accepts either RFC 3339 or a bare calendar date ("2006-01-02"),
// which is what date inputs submit.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

// Ptr returns nil for the zero timestamp.
func (t Timestamp) Ptr() *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}
