package starknet

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/NethermindEth/juno/core/crypto"
	"github.com/NethermindEth/juno/core/felt"

	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

var (
	sierraClassVersion   = cairo.MustShortString("CONTRACT_CLASS_V0.1.0")
	compiledClassVersion = cairo.MustShortString("COMPILED_CLASS_V1")
)

// SierraEntryPoint is an entry of a Sierra class' entry_points_by_type.
type SierraEntryPoint struct {
	Selector    *felt.Felt `json:"selector"`
	FunctionIdx uint64     `json:"function_idx"`
}

// SierraEntryPoints groups entry points by type.
type SierraEntryPoints struct {
	External    []SierraEntryPoint `json:"EXTERNAL"`
	L1Handler   []SierraEntryPoint `json:"L1_HANDLER"`
	Constructor []SierraEntryPoint `json:"CONSTRUCTOR"`
}

// SierraClass is a compiled contract class (scarb's .contract_class.json).
type SierraClass struct {
	SierraProgram        []*felt.Felt      `json:"sierra_program"`
	ContractClassVersion string            `json:"contract_class_version"`
	EntryPointsByType    SierraEntryPoints `json:"entry_points_by_type"`
	// ABI keeps the raw JSON so its hash is taken over the original layout.
	ABI json.RawMessage `json:"abi"`
}

// ABIString returns the ABI in the canonical string form: compact JSON with
// a space after every ':' and ',' outside string literals.
func (c *SierraClass) ABIString() (string, error) {
	raw := bytes.TrimSpace(c.ABI)
	if len(raw) == 0 {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return "", fmt.Errorf("compact abi: %w", err)
	}
	return formatSpaces(compact.String()), nil
}

// ABIArray returns an ABI as a compact JSON array, unquoting the string
// form that RPC nodes return for Sierra classes.
func ABIArray(raw json.RawMessage) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		raw = []byte(s)
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return nil, fmt.Errorf("compact abi: %w", err)
	}
	return compact.Bytes(), nil
}

func formatSpaces(s string) string {
	var b bytes.Buffer
	b.Grow(len(s) + len(s)/4)
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		b.WriteByte(c)
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && (c == ':' || c == ','):
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// ClassHash computes the Sierra class hash.
func (c *SierraClass) ClassHash() (*felt.Felt, error) {
	abi, err := c.ABIString()
	if err != nil {
		return nil, err
	}
	return crypto.PoseidonArray(
		sierraClassVersion,
		hashSierraEntryPoints(c.EntryPointsByType.External),
		hashSierraEntryPoints(c.EntryPointsByType.L1Handler),
		hashSierraEntryPoints(c.EntryPointsByType.Constructor),
		Keccak([]byte(abi)),
		crypto.PoseidonArray(c.SierraProgram...),
	), nil
}

func hashSierraEntryPoints(eps []SierraEntryPoint) *felt.Felt {
	elems := make([]*felt.Felt, 0, 2*len(eps))
	for _, ep := range eps {
		elems = append(elems, ep.Selector, new(felt.Felt).SetUint64(ep.FunctionIdx))
	}
	return crypto.PoseidonArray(elems...)
}

// CasmEntryPoint is an entry of a CASM class.
type CasmEntryPoint struct {
	Selector *felt.Felt `json:"selector"`
	Offset   uint64     `json:"offset"`
	Builtins []string   `json:"builtins"`
}

// CasmEntryPoints groups CASM entry points by type.
type CasmEntryPoints struct {
	External    []CasmEntryPoint `json:"EXTERNAL"`
	L1Handler   []CasmEntryPoint `json:"L1_HANDLER"`
	Constructor []CasmEntryPoint `json:"CONSTRUCTOR"`
}

// CasmClass is scarb's .compiled_contract_class.json.
type CasmClass struct {
	Prime                  string          `json:"prime"`
	CompilerVersion        string          `json:"compiler_version"`
	Bytecode               []*felt.Felt    `json:"bytecode"`
	BytecodeSegmentLengths json.RawMessage `json:"bytecode_segment_lengths,omitempty"`
	EntryPointsByType      CasmEntryPoints `json:"entry_points_by_type"`
}

// CompiledClassHash computes the Poseidon compiled class hash.
func (c *CasmClass) CompiledClassHash() (*felt.Felt, error) {
	bytecodeHash, err := c.bytecodeHash()
	if err != nil {
		return nil, err
	}
	ext, err := hashCasmEntryPoints(c.EntryPointsByType.External)
	if err != nil {
		return nil, err
	}
	l1, err := hashCasmEntryPoints(c.EntryPointsByType.L1Handler)
	if err != nil {
		return nil, err
	}
	ctor, err := hashCasmEntryPoints(c.EntryPointsByType.Constructor)
	if err != nil {
		return nil, err
	}
	return crypto.PoseidonArray(compiledClassVersion, ext, l1, ctor, bytecodeHash), nil
}

func hashCasmEntryPoints(eps []CasmEntryPoint) (*felt.Felt, error) {
	elems := make([]*felt.Felt, 0, 3*len(eps))
	for _, ep := range eps {
		builtins := make([]*felt.Felt, len(ep.Builtins))
		for i, b := range ep.Builtins {
			f, err := cairo.ShortString(b)
			if err != nil {
				return nil, err
			}
			builtins[i] = f
		}
		elems = append(elems, ep.Selector, new(felt.Felt).SetUint64(ep.Offset), crypto.PoseidonArray(builtins...))
	}
	return crypto.PoseidonArray(elems...), nil
}

// segmentNode is a bytecode segment length tree: either a leaf length or a
// list of child segments.
type segmentNode struct {
	length   uint64
	children []segmentNode
	leaf     bool
}

func parseSegments(raw json.RawMessage) (segmentNode, error) {
	var n uint64
	if err := json.Unmarshal(raw, &n); err == nil {
		return segmentNode{length: n, leaf: true}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return segmentNode{}, fmt.Errorf("bytecode_segment_lengths: %w", err)
	}
	node := segmentNode{}
	for _, item := range items {
		child, err := parseSegments(item)
		if err != nil {
			return segmentNode{}, err
		}
		node.children = append(node.children, child)
	}
	return node, nil
}

func (c *CasmClass) bytecodeHash() (*felt.Felt, error) {
	raw := bytes.TrimSpace(c.BytecodeSegmentLengths)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return crypto.PoseidonArray(c.Bytecode...), nil
	}
	root, err := parseSegments(raw)
	if err != nil {
		return nil, err
	}
	h, used, err := hashSegment(c.Bytecode, root)
	if err != nil {
		return nil, err
	}
	if used != len(c.Bytecode) {
		return nil, fmt.Errorf("bytecode segments cover %d of %d felts", used, len(c.Bytecode))
	}
	return h, nil
}

// hashSegment returns the hash of a segment and the number of bytecode
// felts it covers. Inner nodes hash to 1 + poseidon(len_0, h_0, ...).
func hashSegment(bytecode []*felt.Felt, node segmentNode) (*felt.Felt, int, error) {
	if node.leaf {
		if node.length > uint64(len(bytecode)) {
			return nil, 0, fmt.Errorf("bytecode segment of %d exceeds remaining %d felts", node.length, len(bytecode))
		}
		return crypto.PoseidonArray(bytecode[:node.length]...), int(node.length), nil
	}
	elems := make([]*felt.Felt, 0, 2*len(node.children))
	pos := 0
	for _, child := range node.children {
		h, n, err := hashSegment(bytecode[pos:], child)
		if err != nil {
			return nil, 0, err
		}
		elems = append(elems, new(felt.Felt).SetUint64(uint64(n)), h)
		pos += n
	}
	one := new(felt.Felt).SetUint64(1)
	return new(felt.Felt).Add(one, crypto.PoseidonArray(elems...)), pos, nil
}
