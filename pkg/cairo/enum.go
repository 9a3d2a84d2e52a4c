package cairo

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// Enum is a Cairo enum value: the active variant and its payload.
// A nil Value encodes the unit payload ().
type Enum struct {
	Variant string
	Value   any
}

// NewEnum builds an enum value.
func NewEnum(variant string, value any) Enum {
	return Enum{Variant: variant, Value: value}
}

// Unit builds a payload-less enum value.
func Unit(variant string) Enum {
	return Enum{Variant: variant}
}

// MarshalJSON renders {"Variant": value}, or "Variant" for unit variants.
func (e Enum) MarshalJSON() ([]byte, error) {
	if e.Value == nil {
		return json.Marshal(e.Variant)
	}
	return json.Marshal(map[string]any{e.Variant: e.Value})
}

// SomeValue returns the payload of an Option that holds Some.
func (e Enum) SomeValue() (any, bool) {
	if e.Variant != "Some" {
		return nil, false
	}
	return e.Value, true
}

// AsEnum interprets a loosely typed value as an enum: an Enum, a string
// naming a unit variant, or a single-key object {variant: payload}.
func AsEnum(v any) (Enum, error) {
	switch x := v.(type) {
	case Enum:
		return x, nil
	case *Enum:
		return *x, nil
	case string:
		return Unit(x), nil
	case map[string]any:
		if len(x) != 1 {
			keys := make([]string, 0, len(x))
			for k := range x {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			return Enum{}, fmt.Errorf("enum object must have exactly one key, got %v", keys)
		}
		for k, payload := range x {
			if isEmptyPayload(payload) {
				return Unit(k), nil
			}
			return NewEnum(k, payload), nil
		}
	}
	return Enum{}, fmt.Errorf("cannot interpret %T as an enum", v)
}

func isEmptyPayload(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice:
		return rv.Len() == 0
	}
	return false
}
