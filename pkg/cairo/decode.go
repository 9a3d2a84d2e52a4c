package cairo

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
)

var errShortData = errors.New("not enough data")

// DecodeOutputs decodes the return data of an entrypoint. A single output
// is returned unwrapped; several outputs come back as a slice.
func (a *ABI) DecodeOutputs(entrypoint string, data []*felt.Felt) (any, error) {
	fn, err := a.Function(entrypoint)
	if err != nil {
		return nil, err
	}
	values := make([]any, 0, len(fn.Outputs))
	pos := 0
	for _, o := range fn.Outputs {
		v, n, err := a.DecodeValue(o.Type, data[pos:])
		if err != nil {
			return nil, fmt.Errorf("%s: output %s: %w", entrypoint, o.Type, err)
		}
		values = append(values, v)
		pos += n
	}
	switch len(values) {
	case 0:
		return nil, nil
	case 1:
		return values[0], nil
	}
	return values, nil
}

// DecodeValue decodes one value of typ from the head of data and reports
// how many felts it consumed.
func (a *ABI) DecodeValue(typ string, data []*felt.Felt) (any, int, error) {
	t, err := ParseType(typ)
	if err != nil {
		return nil, 0, err
	}
	return a.decodeExpr(t, data)
}

func (a *ABI) decodeExpr(t *TypeExpr, data []*felt.Felt) (any, int, error) {
	need := func(n int) error {
		if len(data) < n {
			return fmt.Errorf("%s: %w", t, errShortData)
		}
		return nil
	}
	switch t.Kind() {
	case KindFelt:
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return Hex(data[0]), 1, nil

	case KindBool:
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return !data[0].IsZero(), 1, nil

	case KindUnsigned:
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return ToBig(data[0]), 1, nil

	case KindSigned:
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return SignedFromFelt(data[0]), 1, nil

	case KindU256:
		if err := need(2); err != nil {
			return nil, 0, err
		}
		return JoinU256(data[0], data[1]), 2, nil

	case KindU512:
		if err := need(4); err != nil {
			return nil, 0, err
		}
		v := new(big.Int)
		for i := 3; i >= 0; i-- {
			v.Lsh(v, 128)
			v.Or(v, ToBig(data[i]))
		}
		return v, 4, nil

	case KindBytes31:
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return DecodeShortString(data[0]), 1, nil

	case KindByteArray:
		ba, n, err := ReadByteArray(data)
		if err != nil {
			return nil, 0, err
		}
		return ba.String(), n, nil

	case KindArray:
		if err := need(1); err != nil {
			return nil, 0, err
		}
		count := ToBig(data[0])
		if !count.IsInt64() || count.Int64() > int64(len(data)) {
			return nil, 0, fmt.Errorf("%s: invalid length %s", t, count)
		}
		items, n, err := a.decodeSeq(repeat(t.Args[0], int(count.Int64())), data[1:])
		return items, n + 1, err

	case KindFixedArray:
		return a.decodeSeq(repeat(t.Args[0], t.FixedLen), data)

	case KindTuple:
		return a.decodeSeq(t.Args, data)

	case KindUnit:
		return nil, 0, nil

	case KindNonZero:
		return a.decodeExpr(t.Args[0], data)

	case KindOption:
		return a.decodeVariants(t, []*TypeExpr{t.Args[0], {Tuple: true}}, []string{"Some", "None"}, data)

	case KindResult:
		return a.decodeVariants(t, t.Args, []string{"Ok", "Err"}, data)

	case KindUserType:
		if st, ok := a.lookupStruct(t); ok {
			return a.DecodeStruct(st, data)
		}
		if en, ok := a.lookupEnum(t); ok {
			types := make([]*TypeExpr, len(en.Variants))
			names := make([]string, len(en.Variants))
			for i, v := range en.Variants {
				vt, err := ParseType(v.Type)
				if err != nil {
					return nil, 0, err
				}
				types[i] = vt
				names[i] = v.Name
			}
			return a.decodeVariants(t, types, names, data)
		}
		return nil, 0, fmt.Errorf("unknown type %s", t)
	}
	return nil, 0, fmt.Errorf("unsupported type %s", t)
}

// DecodeStruct decodes the members of st in declaration order.
func (a *ABI) DecodeStruct(st *StructDef, data []*felt.Felt) (map[string]any, int, error) {
	out := make(map[string]any, len(st.Members))
	pos := 0
	for _, m := range st.Members {
		v, n, err := a.DecodeValue(m.Type, data[pos:])
		if err != nil {
			return nil, 0, fmt.Errorf("%s.%s: %w", shortName(st.Name), m.Name, err)
		}
		out[m.Name] = v
		pos += n
	}
	return out, pos, nil
}

func (a *ABI) decodeVariants(t *TypeExpr, types []*TypeExpr, names []string, data []*felt.Felt) (any, int, error) {
	if len(data) < 1 {
		return nil, 0, fmt.Errorf("%s: %w", t, errShortData)
	}
	idx := ToBig(data[0])
	if !idx.IsInt64() || idx.Int64() >= int64(len(names)) {
		return nil, 0, fmt.Errorf("%s: variant index %s out of range", t, idx)
	}
	i := int(idx.Int64())
	v, n, err := a.decodeExpr(types[i], data[1:])
	if err != nil {
		return nil, 0, fmt.Errorf("%s::%s: %w", shortName(t.Path), names[i], err)
	}
	return NewEnum(names[i], v), n + 1, nil
}

func (a *ABI) decodeSeq(types []*TypeExpr, data []*felt.Felt) ([]any, int, error) {
	items := make([]any, 0, len(types))
	pos := 0
	for i, t := range types {
		v, n, err := a.decodeExpr(t, data[pos:])
		if err != nil {
			return nil, 0, fmt.Errorf("[%d]: %w", i, err)
		}
		items = append(items, v)
		pos += n
	}
	return items, pos, nil
}

func repeat(t *TypeExpr, n int) []*TypeExpr {
	out := make([]*TypeExpr, n)
	for i := range out {
		out[i] = t
	}
	return out
}

// SignedFromFelt maps the upper half of the field back to negative numbers.
func SignedFromFelt(f *felt.Felt) *big.Int {
	v := ToBig(f)
	half := new(big.Int).Rsh(FieldPrime, 1)
	if v.Cmp(half) > 0 {
		v.Sub(v, FieldPrime)
	}
	return v
}
