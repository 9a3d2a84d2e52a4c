package cairo

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeExpr is a parsed Cairo type expression such as
// core::array::Array::<(core::felt252, core::bool)>.
type TypeExpr struct {
	// Path is the full path without generic arguments. Empty for tuples and
	// fixed arrays.
	Path string
	// Args holds generic arguments, tuple members or the fixed array element.
	Args []*TypeExpr
	// Tuple is set for (..) types, including the unit type ().
	Tuple bool
	// FixedLen is the length of a [T; N] fixed array, zero otherwise.
	FixedLen int
	// Fixed is set for [T; N] types.
	Fixed bool
}

// Name is the last path segment, e.g. Array for core::array::Array.
func (t *TypeExpr) Name() string {
	if i := strings.LastIndex(t.Path, "::"); i >= 0 {
		return t.Path[i+2:]
	}
	return t.Path
}

// String renders the expression back in ABI form.
func (t *TypeExpr) String() string {
	switch {
	case t.Fixed:
		return fmt.Sprintf("[%s; %d]", t.Args[0], t.FixedLen)
	case t.Tuple:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case len(t.Args) > 0:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		return t.Path + "::<" + strings.Join(parts, ", ") + ">"
	default:
		return t.Path
	}
}

// ParseType parses an ABI type string.
func ParseType(s string) (*TypeExpr, error) {
	p := &typeParser{src: s}
	t, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("parse type %q: %w", s, err)
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("parse type %q: unexpected %q at %d", s, p.src[p.pos:], p.pos)
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *typeParser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		return fmt.Errorf("expected %q at %d", c, p.pos)
	}
	p.pos++
	return nil
}

func (p *typeParser) parse() (*TypeExpr, error) {
	p.skipSpace()
	// snapshots (@T) encode like T
	for p.peek() == '@' {
		p.pos++
	}
	switch p.peek() {
	case '(':
		p.pos++
		args, err := p.list(')')
		if err != nil {
			return nil, err
		}
		return &TypeExpr{Tuple: true, Args: args}, nil
	case '[':
		p.pos++
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		if err := p.expect(';'); err != nil {
			return nil, err
		}
		p.skipSpace()
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		n, err := strconv.Atoi(p.src[start:p.pos])
		if err != nil {
			return nil, fmt.Errorf("fixed array length at %d", start)
		}
		if err := p.expect(']'); err != nil {
			return nil, err
		}
		return &TypeExpr{Fixed: true, FixedLen: n, Args: []*TypeExpr{elem}}, nil
	}

	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '<' || c == '>' || c == ',' || c == ')' || c == ']' || c == ';' || c == ' ' {
			break
		}
		p.pos++
	}
	path := p.src[start:p.pos]
	if path == "" {
		return nil, fmt.Errorf("empty type at %d", start)
	}
	t := &TypeExpr{}
	if p.peek() == '<' {
		// generic arguments follow "::<"
		path = strings.TrimSuffix(path, "::")
		p.pos++
		args, err := p.list('>')
		if err != nil {
			return nil, err
		}
		t.Args = args
	}
	t.Path = path
	return t, nil
}

func (p *typeParser) list(end byte) ([]*TypeExpr, error) {
	var out []*TypeExpr
	p.skipSpace()
	if p.peek() == end {
		p.pos++
		return out, nil
	}
	for {
		t, err := p.parse()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case end:
			p.pos++
			return out, nil
		default:
			return nil, fmt.Errorf("expected ',' or %q at %d", end, p.pos)
		}
	}
}

// Kind classifies a type expression by how it is serialized.
type Kind int

const (
	KindUnknown Kind = iota
	KindFelt
	KindBool
	KindUnsigned
	KindSigned
	KindU256
	KindU512
	KindBytes31
	KindByteArray
	KindArray
	KindFixedArray
	KindOption
	KindResult
	KindNonZero
	KindTuple
	KindUnit
	KindUserType
)

var feltPaths = map[string]bool{
	"core::felt252": true,
	"felt252":       true,
	"core::starknet::contract_address::ContractAddress": true,
	"core::starknet::class_hash::ClassHash":             true,
	"core::starknet::eth_address::EthAddress":           true,
	"core::starknet::storage_access::StorageAddress":    true,
	"core::starknet::storage_access::StorageBaseAddress": true,
	"ContractAddress": true,
	"ClassHash":       true,
	"EthAddress":      true,
}

// intBits maps integer type names to their bit width.
var intBits = map[string]int{
	"u8": 8, "u16": 16, "u32": 32, "u64": 64, "u128": 128, "usize": 32,
	"i8": 8, "i16": 16, "i32": 32, "i64": 64, "i128": 128,
}

// Kind returns the serialization kind of t.
func (t *TypeExpr) Kind() Kind {
	switch {
	case t.Fixed:
		return KindFixedArray
	case t.Tuple && len(t.Args) == 0:
		return KindUnit
	case t.Tuple:
		return KindTuple
	}
	if feltPaths[t.Path] {
		return KindFelt
	}
	name := t.Name()
	if bits, ok := intBits[name]; ok && bits > 0 && (strings.HasPrefix(t.Path, "core::integer::") || t.Path == name) {
		if name[0] == 'i' {
			return KindSigned
		}
		return KindUnsigned
	}
	switch t.Path {
	case "core::bool", "bool":
		return KindBool
	case "core::integer::u256", "u256":
		return KindU256
	case "core::integer::u512":
		return KindU512
	case "core::bytes_31::bytes31", "bytes31":
		return KindBytes31
	case "core::byte_array::ByteArray", "ByteArray":
		return KindByteArray
	case "core::array::Array", "core::array::Span", "Array", "Span":
		return KindArray
	case "core::option::Option", "Option":
		return KindOption
	case "core::result::Result", "Result":
		return KindResult
	case "core::zeroable::NonZero", "NonZero":
		return KindNonZero
	}
	return KindUserType
}

// Bits returns the width of integer types, zero otherwise.
func (t *TypeExpr) Bits() int {
	return intBits[t.Name()]
}
