package cairo

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
)

// EncodeInputs serializes args for the named entrypoint. args is either a
// map keyed by input name, a positional slice, or nil for no inputs.
func (a *ABI) EncodeInputs(entrypoint string, args any) ([]*felt.Felt, error) {
	fn, err := a.Function(entrypoint)
	if err != nil {
		return nil, err
	}
	values, err := orderArgs(fn, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", entrypoint, err)
	}
	var out []*felt.Felt
	for i, in := range fn.Inputs {
		out, err = a.appendValue(out, in.Type, values[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", entrypoint, in.Name, err)
		}
	}
	return out, nil
}

func orderArgs(fn *Function, args any) ([]any, error) {
	switch x := args.(type) {
	case nil:
		if len(fn.Inputs) > 0 {
			return nil, fmt.Errorf("expected %d arguments, got none", len(fn.Inputs))
		}
		return nil, nil
	case map[string]any:
		values := make([]any, len(fn.Inputs))
		for i, in := range fn.Inputs {
			v, ok := x[in.Name]
			if !ok {
				return nil, fmt.Errorf("missing argument %q", in.Name)
			}
			values[i] = v
		}
		if len(x) > len(fn.Inputs) {
			for k := range x {
				if !hasInput(fn, k) {
					return nil, fmt.Errorf("unknown argument %q", k)
				}
			}
		}
		return values, nil
	}
	rv := reflect.ValueOf(args)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("arguments must be an object or an array, got %T", args)
	}
	if rv.Len() != len(fn.Inputs) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(fn.Inputs), rv.Len())
	}
	values := make([]any, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return values, nil
}

func hasInput(fn *Function, name string) bool {
	for _, in := range fn.Inputs {
		if in.Name == name {
			return true
		}
	}
	return false
}

// EncodeValue serializes a single value of the given ABI type.
func (a *ABI) EncodeValue(typ string, v any) ([]*felt.Felt, error) {
	return a.appendValue(nil, typ, v)
}

func (a *ABI) appendValue(out []*felt.Felt, typ string, v any) ([]*felt.Felt, error) {
	t, err := ParseType(typ)
	if err != nil {
		return nil, err
	}
	return a.appendExpr(out, t, v)
}

func (a *ABI) appendExpr(out []*felt.Felt, t *TypeExpr, v any) ([]*felt.Felt, error) {
	switch t.Kind() {
	case KindFelt:
		f, err := Felt(v)
		if err != nil {
			return nil, err
		}
		return append(out, f), nil

	case KindBool:
		b, err := toBool(v)
		if err != nil {
			return nil, err
		}
		if b {
			return append(out, new(felt.Felt).SetUint64(1)), nil
		}
		return append(out, new(felt.Felt)), nil

	case KindUnsigned, KindSigned:
		n, err := BigInt(v)
		if err != nil {
			return nil, err
		}
		if err := checkIntRange(t, n); err != nil {
			return nil, err
		}
		return append(out, FeltFromBig(n)), nil

	case KindU256:
		if m, ok := v.(map[string]any); ok {
			low, err := BigInt(m["low"])
			if err != nil {
				return nil, err
			}
			high, err := BigInt(m["high"])
			if err != nil {
				return nil, err
			}
			return append(out, FeltFromBig(low), FeltFromBig(high)), nil
		}
		n, err := BigInt(v)
		if err != nil {
			return nil, err
		}
		if n.Sign() < 0 || n.BitLen() > 256 {
			return nil, fmt.Errorf("value %s out of range for u256", n)
		}
		low, high := U256(n)
		return append(out, low, high), nil

	case KindU512:
		n, err := BigInt(v)
		if err != nil {
			return nil, err
		}
		if n.Sign() < 0 || n.BitLen() > 512 {
			return nil, fmt.Errorf("value %s out of range for u512", n)
		}
		mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
		for i := 0; i < 4; i++ {
			limb := new(big.Int).Rsh(n, uint(128*i))
			out = append(out, FeltFromBig(limb.And(limb, mask)))
		}
		return out, nil

	case KindBytes31:
		f, err := Felt(v)
		if err != nil {
			return nil, err
		}
		if ToBig(f).BitLen() > 248 {
			return nil, fmt.Errorf("value does not fit in bytes31")
		}
		return append(out, f), nil

	case KindByteArray:
		switch x := v.(type) {
		case string:
			return append(out, CompileString(x)...), nil
		case ByteArray:
			return append(out, x.Felts()...), nil
		case nil:
			return append(out, CompileString("")...), nil
		}
		return nil, fmt.Errorf("cannot encode %T as ByteArray", v)

	case KindArray:
		items, err := sliceOf(v)
		if err != nil {
			return nil, err
		}
		out = append(out, new(felt.Felt).SetUint64(uint64(len(items))))
		for i, item := range items {
			if out, err = a.appendExpr(out, t.Args[0], item); err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return out, nil

	case KindFixedArray:
		items, err := sliceOf(v)
		if err != nil {
			return nil, err
		}
		if len(items) != t.FixedLen {
			return nil, fmt.Errorf("fixed array wants %d items, got %d", t.FixedLen, len(items))
		}
		for i, item := range items {
			if out, err = a.appendExpr(out, t.Args[0], item); err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return out, nil

	case KindTuple:
		items, err := sliceOf(v)
		if err != nil {
			return nil, err
		}
		if len(items) != len(t.Args) {
			return nil, fmt.Errorf("tuple wants %d items, got %d", len(t.Args), len(items))
		}
		for i, item := range items {
			if out, err = a.appendExpr(out, t.Args[i], item); err != nil {
				return nil, fmt.Errorf("(%d): %w", i, err)
			}
		}
		return out, nil

	case KindUnit:
		return out, nil

	case KindNonZero:
		n := len(out)
		out, err := a.appendExpr(out, t.Args[0], v)
		if err != nil {
			return nil, err
		}
		zero := true
		for _, f := range out[n:] {
			if !f.IsZero() {
				zero = false
			}
		}
		if zero {
			return nil, fmt.Errorf("NonZero value is zero")
		}
		return out, nil

	case KindOption:
		e, ok := optionOf(v)
		if !ok {
			e = NewEnum("Some", v)
		}
		switch e.Variant {
		case "Some":
			out = append(out, new(felt.Felt))
			return a.appendExpr(out, t.Args[0], e.Value)
		case "None":
			return append(out, new(felt.Felt).SetUint64(1)), nil
		}
		return nil, fmt.Errorf("unknown Option variant %q", e.Variant)

	case KindResult:
		e, err := AsEnum(v)
		if err != nil {
			return nil, err
		}
		switch e.Variant {
		case "Ok":
			out = append(out, new(felt.Felt))
			return a.appendExpr(out, t.Args[0], e.Value)
		case "Err":
			out = append(out, new(felt.Felt).SetUint64(1))
			return a.appendExpr(out, t.Args[1], e.Value)
		}
		return nil, fmt.Errorf("unknown Result variant %q", e.Variant)

	case KindUserType:
		if st, ok := a.lookupStruct(t); ok {
			return a.appendStruct(out, st, v)
		}
		if en, ok := a.lookupEnum(t); ok {
			return a.appendEnum(out, en, v)
		}
		return nil, fmt.Errorf("unknown type %s", t)
	}
	return nil, fmt.Errorf("unsupported type %s", t)
}

func (a *ABI) appendStruct(out []*felt.Felt, st *StructDef, v any) ([]*felt.Felt, error) {
	var err error
	switch x := v.(type) {
	case map[string]any:
		for _, m := range st.Members {
			mv, ok := x[m.Name]
			if !ok {
				return nil, fmt.Errorf("%s: missing member %q", st.Name, m.Name)
			}
			if out, err = a.appendValue(out, m.Type, mv); err != nil {
				return nil, fmt.Errorf("%s.%s: %w", shortName(st.Name), m.Name, err)
			}
		}
		return out, nil
	}
	items, err := sliceOf(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", st.Name, err)
	}
	if len(items) != len(st.Members) {
		return nil, fmt.Errorf("%s wants %d members, got %d", st.Name, len(st.Members), len(items))
	}
	for i, m := range st.Members {
		if out, err = a.appendValue(out, m.Type, items[i]); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", shortName(st.Name), m.Name, err)
		}
	}
	return out, nil
}

func (a *ABI) appendEnum(out []*felt.Felt, en *EnumDef, v any) ([]*felt.Felt, error) {
	e, err := AsEnum(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", en.Name, err)
	}
	idx, ok := en.VariantIndex(e.Variant)
	if !ok {
		return nil, fmt.Errorf("%s has no variant %q", shortName(en.Name), e.Variant)
	}
	out = append(out, new(felt.Felt).SetUint64(uint64(idx)))
	if out, err = a.appendValue(out, en.Variants[idx].Type, e.Value); err != nil {
		return nil, fmt.Errorf("%s::%s: %w", shortName(en.Name), e.Variant, err)
	}
	return out, nil
}

func checkIntRange(t *TypeExpr, n *big.Int) error {
	bits := t.Bits()
	var lo, hi *big.Int
	if t.Kind() == KindSigned {
		hi = new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
		lo = new(big.Int).Neg(hi)
	} else {
		lo = new(big.Int)
		hi = new(big.Int).Lsh(big.NewInt(1), uint(bits))
	}
	if n.Cmp(lo) < 0 || n.Cmp(hi) >= 0 {
		return fmt.Errorf("value %s out of range for %s", n, t.Name())
	}
	return nil
}

func optionOf(v any) (Enum, bool) {
	switch x := v.(type) {
	case nil:
		return Unit("None"), true
	case Enum:
		if x.Variant == "Some" || x.Variant == "None" {
			return x, true
		}
	case map[string]any:
		if e, err := AsEnum(x); err == nil && (e.Variant == "Some" || e.Variant == "None") {
			return e, true
		}
	}
	return Enum{}, false
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		switch strings.ToLower(x) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	n, err := BigInt(v)
	if err != nil {
		return false, fmt.Errorf("cannot encode %v as bool", v)
	}
	if n.Sign() != 0 && n.Cmp(big.NewInt(1)) != 0 {
		return false, fmt.Errorf("cannot encode %s as bool", n)
	}
	return n.Sign() == 1, nil
}

func sliceOf(v any) ([]any, error) {
	if v == nil {
		return nil, nil
	}
	if items, ok := v.([]any); ok {
		return items, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, nil
}

func shortName(path string) string {
	if i := strings.LastIndex(path, "::"); i >= 0 {
		return path[i+2:]
	}
	return path
}
