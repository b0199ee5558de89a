package model

import (
	"bytes"
	"encoding/json"
)

// Optional records whether a JSON field was present in a request body, so
// patch requests can tell an omitted field from one explicitly set.
//
// An omitted field leaves Present false. A field sent as null sets Present
// and Null, leaving Value at its zero value.
type Optional[T any] struct {
	Value   T
	Present bool
	Null    bool
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Present: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Get returns the value and whether it should be applied.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Present && !o.Null
}

// IsNull reports whether the field was sent as an explicit null.
func (o Optional[T]) IsNull() bool {
	return o.Present && o.Null
}
