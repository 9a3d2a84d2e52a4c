// Package dojo unwraps the world contract's generic EventEmitted and
// StoreSetRecord events back into typed model records.
package dojo

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/NethermindEth/juno/core/crypto"
	"github.com/NethermindEth/juno/core/felt"

	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

var (
	// EventEmittedSelector keys world events carrying a dojo event.
	EventEmittedSelector = starknet.Selector("EventEmitted")
	// StoreSetRecordSelector keys world events carrying a model write.
	StoreSetRecordSelector = starknet.Selector("StoreSetRecord")

	ErrNotDojoEvent = errors.New("not a dojo event")
)

// Kind tells events and model writes apart.
type Kind string

const (
	KindEvent Kind = "event"
	KindModel Kind = "model"
)

// Record is an unwrapped world event.
type Record struct {
	Kind     Kind
	Selector *felt.Felt
	// Source is the emitting system for events and the entity id for models.
	Source *felt.Felt
	Keys   []*felt.Felt
	Values []*felt.Felt

	BlockNumber     uint64
	TransactionHash *felt.Felt
}

// SplitTag splits "namespace-Name" on its first dash.
func SplitTag(tag string) (namespace, name string, err error) {
	namespace, name, ok := strings.Cut(tag, "-")
	if !ok || namespace == "" || name == "" {
		return "", "", fmt.Errorf("invalid dojo tag %q: expected <namespace>-<name>", tag)
	}
	return namespace, name, nil
}

// TagSelector is poseidon(hash(namespace), hash(name)) where each part is
// hashed as a serialized byte array.
func TagSelector(tag string) (*felt.Felt, error) {
	ns, name, err := SplitTag(tag)
	if err != nil {
		return nil, err
	}
	return crypto.PoseidonArray(starknet.PoseidonString(ns), starknet.PoseidonString(name)), nil
}

// Unwrap converts a raw world event. The layout is
// keys = [kind selector, model selector, source] and
// data = [key_len, keys..., value_len, values...].
func Unwrap(ev starknet.Event) (*Record, error) {
	if len(ev.Keys) < 3 {
		return nil, ErrNotDojoEvent
	}
	var kind Kind
	switch {
	case ev.Keys[0].Equal(EventEmittedSelector):
		kind = KindEvent
	case ev.Keys[0].Equal(StoreSetRecordSelector):
		kind = KindModel
	default:
		return nil, ErrNotDojoEvent
	}

	keys, rest, err := lengthPrefixed(ev.Data)
	if err != nil {
		return nil, fmt.Errorf("%s keys: %w", kind, err)
	}
	values, _, err := lengthPrefixed(rest)
	if err != nil {
		return nil, fmt.Errorf("%s values: %w", kind, err)
	}
	return &Record{
		Kind:            kind,
		Selector:        ev.Keys[1],
		Source:          ev.Keys[2],
		Keys:            keys,
		Values:          values,
		BlockNumber:     ev.BlockNumber,
		TransactionHash: ev.TransactionHash,
	}, nil
}

func lengthPrefixed(data []*felt.Felt) (items, rest []*felt.Felt, err error) {
	if len(data) == 0 {
		return nil, nil, errors.New("missing length")
	}
	n := cairo.ToBig(data[0])
	if !n.IsInt64() || n.Int64() > int64(len(data)-1) {
		return nil, nil, fmt.Errorf("length %s exceeds %d remaining felts", n, len(data)-1)
	}
	end := 1 + int(n.Int64())
	return data[1:end], data[end:], nil
}

// Decoded is a record whose members were decoded against a model ABI.
type Decoded struct {
	Tag    string
	Kind   Kind
	Fields map[string]any
	Record *Record
}

// Parser maps selectors back to tags and decodes records with their ABI.
type Parser struct {
	tags    map[string]string
	structs map[string]*decoder
}

type decoder struct {
	abi *cairo.ABI
	st  *cairo.StructDef
}

// NewParser registers the tags to decode. abis maps each tag to the ABI that
// declares its struct; a tag with no ABI is still recognised but left raw.
func NewParser(tags []string, abis map[string]*cairo.ABI) (*Parser, error) {
	p := &Parser{tags: map[string]string{}, structs: map[string]*decoder{}}
	for _, tag := range tags {
		sel, err := TagSelector(tag)
		if err != nil {
			return nil, err
		}
		p.tags[cairo.Hex(sel)] = tag
		_, name, _ := SplitTag(tag)
		if abi, ok := abis[tag]; ok && abi != nil {
			if st := findStruct(abi, name); st != nil {
				p.structs[tag] = &decoder{abi: abi, st: st}
			}
		}
	}
	return p, nil
}

// findStruct picks the struct whose last path segment is name. Event
// definitions are accepted as structs since their members share the layout.
func findStruct(abi *cairo.ABI, name string) *cairo.StructDef {
	match := func(path string) bool {
		i := strings.LastIndex(path, "::")
		return path[i+2:] == name
	}
	paths := make([]string, 0, len(abi.Structs))
	for path := range abi.Structs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		if match(path) {
			return abi.Structs[path]
		}
	}
	for path, ev := range abi.Events {
		if ev.Kind == "struct" && match(path) {
			st := &cairo.StructDef{Name: path}
			for _, m := range ev.Members {
				st.Members = append(st.Members, cairo.Param{Name: m.Name, Type: m.Type})
			}
			return st
		}
	}
	return nil
}

// Tag returns the registered tag of a selector.
func (p *Parser) Tag(selector *felt.Felt) (string, bool) {
	tag, ok := p.tags[cairo.Hex(selector)]
	return tag, ok
}

// Parse unwraps and decodes the events of registered tags, skipping
// everything else.
func (p *Parser) Parse(events []starknet.Event) ([]Decoded, error) {
	var out []Decoded
	for _, ev := range events {
		rec, err := Unwrap(ev)
		if errors.Is(err, ErrNotDojoEvent) {
			continue
		}
		if err != nil {
			return nil, err
		}
		tag, ok := p.Tag(rec.Selector)
		if !ok {
			continue
		}
		d := Decoded{Tag: tag, Kind: rec.Kind, Record: rec}
		if dec, ok := p.structs[tag]; ok {
			fields, _, err := dec.abi.DecodeStruct(dec.st, append(append([]*felt.Felt{}, rec.Keys...), rec.Values...))
			if err != nil {
				return nil, fmt.Errorf("decode %s: %w", tag, err)
			}
			d.Fields = fields
		}
		out = append(out, d)
	}
	return out, nil
}
