package domain

import "encoding/json"

// Optional distinguishes "not supplied" from a supplied zero value.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a supplied value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Get returns the value and whether it was supplied.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// UnmarshalJSON marks the value as supplied whenever its key is present.
// A JSON null leaves Value at its zero value but still counts as supplied,
// so callers that reject null must do so before decoding.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}
