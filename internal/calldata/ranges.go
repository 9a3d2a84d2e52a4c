// Package calldata turns human-authored game configuration into the argument
// trees contract entrypoints expect. Everything here is pure: no I/O, no chain
// access.
package calldata

import (
	"fmt"
	"math/big"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

// Range bounds an integer configuration value.
type Range struct {
	Min, Max int64
	NonZero  bool
}

var (
	U8               = Range{Min: 0, Max: 255}
	I8               = Range{Min: -128, Max: 127}
	U16              = Range{Min: 0, Max: 65535}
	I16              = Range{Min: -32768, Max: 32767}
	I16NonZero       = Range{Min: -32768, Max: 32767, NonZero: true}
	Percent          = Range{Min: 0, Max: 100}
	Positive100      = Range{Min: 1, Max: 100}
	Signed100        = Range{Min: -100, Max: 100}
	Signed100NonZero = Range{Min: -100, Max: 100, NonZero: true}
)

// Parse reads v as an integer within r. Absent values (nil, "", false) read
// as zero. Errors are *domain.RangeError naming the value.
func (r Range) Parse(v any, name string) (*big.Int, error) {
	n, err := integer(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	rangeErr := &domain.RangeError{Name: name, Value: n, Min: big.NewInt(r.Min), Max: big.NewInt(r.Max), NonZero: r.NonZero}
	if r.NonZero && n.Sign() == 0 {
		return nil, rangeErr
	}
	if n.Cmp(rangeErr.Min) < 0 || n.Cmp(rangeErr.Max) > 0 {
		return nil, rangeErr
	}
	return n, nil
}

func integer(v any) (*big.Int, error) {
	switch x := v.(type) {
	case nil:
		return new(big.Int), nil
	case string:
		if x == "" {
			return new(big.Int), nil
		}
	case bool:
		if !x {
			return new(big.Int), nil
		}
	}
	return cairo.BigInt(v)
}
