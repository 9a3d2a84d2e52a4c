package calldata

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

var titler = cases.Title(language.Und, cases.NoLower)

// Pascal converts snake, kebab or spaced names to PascalCase. Names that are
// already PascalCase pass through; all-caps words are title-cased.
func Pascal(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
	var b strings.Builder
	for _, w := range words {
		if w == strings.ToUpper(w) {
			w = strings.ToLower(w)
		}
		b.WriteString(titler.String(w))
	}
	return b.String()
}

// EnumObject splits a loosely written enum: a bare string is a variant
// without payload, a single-key object is {variant: payload}.
func EnumObject(v any) (string, any, error) {
	switch x := v.(type) {
	case string:
		return x, nil, nil
	case map[string]any:
		if len(x) != 1 {
			return "", nil, fmt.Errorf("expected a single-key object, got keys %v", sortedKeys(x))
		}
		for k, payload := range x {
			return k, payload, nil
		}
	case cairo.Enum:
		return x.Variant, x.Value, nil
	}
	return "", nil, fmt.Errorf("cannot read %T as an enum", v)
}

// MakeEnum builds an enum from its loose form; nil reads as def when def is
// not empty.
func MakeEnum(v any, def string) (cairo.Enum, error) {
	if v == nil && def != "" {
		return cairo.Unit(def), nil
	}
	variant, payload, err := EnumObject(v)
	if err != nil {
		return cairo.Enum{}, err
	}
	if m, ok := payload.(map[string]any); ok && len(m) == 0 {
		payload = nil
	}
	return cairo.NewEnum(variant, payload), nil
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

// indexedKeys orders keys numerically when they all parse as integers and
// lexically otherwise.
func indexedKeys(m map[string]any) []string {
	keys := sortedKeys(m)
	nums := make(map[string]int64, len(keys))
	for _, k := range keys {
		n, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return keys
		}
		nums[k] = n
	}
	slices.SortFunc(keys, func(a, b string) int {
		switch {
		case nums[a] < nums[b]:
			return -1
		case nums[a] > nums[b]:
			return 1
		}
		return 0
	})
	return keys
}

func asMap(v any, what string) (map[string]any, error) {
	switch x := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return x, nil
	}
	return nil, fmt.Errorf("%s: expected an object, got %T", what, v)
}

func asList(v any, what string) ([]any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return x, nil
	}
	return nil, fmt.Errorf("%s: expected a list, got %T", what, v)
}
