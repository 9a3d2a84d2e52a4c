package cairo

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

// ErrFeltOverflow is returned for literals at or above the field prime.
var ErrFeltOverflow = errors.New("value does not fit in a felt")

// FieldPrime is the Starknet field modulus, 2^251 + 17*2^192 + 1.
var FieldPrime = fp.Modulus()

// FeltFromBig reduces b into the field. Negative values wrap to P - |b|.
func FeltFromBig(b *big.Int) *felt.Felt {
	v := new(big.Int).Mod(b, FieldPrime)
	return new(felt.Felt).SetBytes(v.Bytes())
}

// ToBig returns the canonical integer value of f.
func ToBig(f *felt.Felt) *big.Int {
	b := f.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// Hex formats f as a 0x-prefixed lowercase hex string.
func Hex(f *felt.Felt) string {
	return "0x" + ToBig(f).Text(16)
}

// HexAll formats every felt with Hex.
func HexAll(fs []*felt.Felt) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = Hex(f)
	}
	return out
}

// MustFelt parses a numeric literal and panics on failure. Meant for constants.
func MustFelt(s string) *felt.Felt {
	f, err := ParseFelt(s)
	if err != nil {
		panic(err)
	}
	return f
}

// ParseFelt parses a hex (0x) or decimal literal into a field element.
// Negative literals wrap around P; literals at or above P are rejected.
func ParseFelt(s string) (*felt.Felt, error) {
	b, ok := parseNumeric(s)
	if !ok {
		return nil, fmt.Errorf("invalid numeric literal %q", s)
	}
	if b.Cmp(FieldPrime) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrFeltOverflow, s)
	}
	return FeltFromBig(b), nil
}

// IsNumeric reports whether s is a hex or decimal integer literal.
func IsNumeric(s string) bool {
	_, ok := parseNumeric(s)
	return ok
}

func parseNumeric(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var (
		b  *big.Int
		ok bool
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if len(s) == 2 {
			return nil, false
		}
		b, ok = new(big.Int).SetString(s[2:], 16)
	} else {
		b, ok = new(big.Int).SetString(s, 10)
	}
	if !ok {
		return nil, false
	}
	if neg {
		b.Neg(b)
	}
	return b, true
}

// BigInt converts a Go value holding an integer into a big.Int.
// Strings must be numeric literals; nil is zero.
func BigInt(v any) (*big.Int, error) {
	switch x := v.(type) {
	case nil:
		return new(big.Int), nil
	case *big.Int:
		return new(big.Int).Set(x), nil
	case big.Int:
		return new(big.Int).Set(&x), nil
	case *felt.Felt:
		return ToBig(x), nil
	case felt.Felt:
		return ToBig(&x), nil
	case int:
		return big.NewInt(int64(x)), nil
	case int8:
		return big.NewInt(int64(x)), nil
	case int16:
		return big.NewInt(int64(x)), nil
	case int32:
		return big.NewInt(int64(x)), nil
	case int64:
		return big.NewInt(x), nil
	case uint:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	case bool:
		if x {
			return big.NewInt(1), nil
		}
		return new(big.Int), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%v is not an integer", x)
		}
		b, _ := new(big.Float).SetFloat64(x).Int(nil)
		return b, nil
	case json.Number:
		b, ok := parseNumeric(x.String())
		if !ok {
			return nil, fmt.Errorf("%q is not an integer", x.String())
		}
		return b, nil
	case string:
		b, ok := parseNumeric(x)
		if !ok {
			return nil, fmt.Errorf("%q is not an integer", x)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to an integer", v)
	}
}

// Felt converts a Go value into a field element. Non-numeric strings are
// encoded as short strings.
func Felt(v any) (*felt.Felt, error) {
	if s, ok := v.(string); ok && !IsNumeric(s) {
		return ShortString(s)
	}
	b, err := BigInt(v)
	if err != nil {
		return nil, err
	}
	return FeltFromBig(b), nil
}

// Felts converts each value with Felt.
func Felts(values ...any) ([]*felt.Felt, error) {
	out := make([]*felt.Felt, len(values))
	for i, v := range values {
		f, err := Felt(v)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

// ParseFelts parses hex or decimal literals.
func ParseFelts(values []string) ([]*felt.Felt, error) {
	out := make([]*felt.Felt, len(values))
	for i, s := range values {
		f, err := ParseFelt(s)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
