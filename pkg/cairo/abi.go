package cairo

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ABI entry types as they appear in Sierra contract classes.
const (
	EntryFunction    = "function"
	EntryConstructor = "constructor"
	EntryL1Handler   = "l1_handler"
	EntryInterface   = "interface"
	EntryImpl        = "impl"
	EntryStruct      = "struct"
	EntryEnum        = "enum"
	EntryEvent       = "event"
)

// Param is a named, typed ABI variable.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Function is a callable entrypoint.
type Function struct {
	Name            string  `json:"name"`
	Inputs          []Param `json:"inputs"`
	Outputs         []Param `json:"outputs"`
	StateMutability string  `json:"state_mutability,omitempty"`
	// Interface is the interface that declared the function, if any.
	Interface string `json:"-"`
}

// IsView reports whether the function is declared read-only.
func (f *Function) IsView() bool {
	return f.StateMutability == "view"
}

// StructDef is a user defined struct.
type StructDef struct {
	Name    string  `json:"name"`
	Members []Param `json:"members"`
}

// EnumDef is a user defined enum.
type EnumDef struct {
	Name     string  `json:"name"`
	Variants []Param `json:"variants"`
}

// VariantIndex returns the position of the named variant.
func (e *EnumDef) VariantIndex(name string) (int, bool) {
	for i, v := range e.Variants {
		if v.Name == name {
			return i, true
		}
	}
	return 0, false
}

// EventMember is a struct member or enum variant of an event.
type EventMember struct {
	Name string `json:"name"`
	Type string `json:"type"`
	// Kind is key, data, nested or flat.
	Kind string `json:"kind"`
}

// EventDef describes an event; Kind is "struct" or "enum".
type EventDef struct {
	Name     string        `json:"name"`
	Kind     string        `json:"kind"`
	Members  []EventMember `json:"members,omitempty"`
	Variants []EventMember `json:"variants,omitempty"`
}

// Interface groups functions exposed by an impl.
type Interface struct {
	Name  string     `json:"name"`
	Items []Function `json:"items"`
}

// ABI is a parsed Sierra contract ABI.
type ABI struct {
	Functions   map[string]*Function
	Constructor *Function
	L1Handlers  map[string]*Function
	Structs     map[string]*StructDef
	Enums       map[string]*EnumDef
	Events      map[string]*EventDef
	Interfaces  []*Interface
}

type entryCommon struct {
	Type string `json:"type"`
}

// ParseABI parses an ABI given either as a JSON array or as a JSON string
// holding the array, which is how RPC nodes return it.
func ParseABI(data []byte) (*ABI, error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		data = []byte(s)
	}
	abi := &ABI{}
	if err := json.Unmarshal(data, abi); err != nil {
		return nil, err
	}
	return abi, nil
}

func (a *ABI) UnmarshalJSON(data []byte) error {
	common := []entryCommon{}
	if err := json.Unmarshal(data, &common); err != nil {
		return err
	}
	items := make([]json.RawMessage, len(common))
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	parsed := ABI{
		Functions:  map[string]*Function{},
		L1Handlers: map[string]*Function{},
		Structs:    map[string]*StructDef{},
		Enums:      map[string]*EnumDef{},
		Events:     map[string]*EventDef{},
	}
	for i, item := range items {
		switch common[i].Type {
		case EntryFunction:
			fn := &Function{}
			if err := json.Unmarshal(item, fn); err != nil {
				return err
			}
			parsed.Functions[fn.Name] = fn
		case EntryConstructor:
			fn := &Function{}
			if err := json.Unmarshal(item, fn); err != nil {
				return err
			}
			parsed.Constructor = fn
		case EntryL1Handler:
			fn := &Function{}
			if err := json.Unmarshal(item, fn); err != nil {
				return err
			}
			parsed.L1Handlers[fn.Name] = fn
		case EntryInterface:
			iface := &Interface{}
			if err := json.Unmarshal(item, iface); err != nil {
				return err
			}
			parsed.Interfaces = append(parsed.Interfaces, iface)
			for j := range iface.Items {
				fn := iface.Items[j]
				fn.Interface = iface.Name
				parsed.Functions[fn.Name] = &fn
			}
		case EntryStruct:
			st := &StructDef{}
			if err := json.Unmarshal(item, st); err != nil {
				return err
			}
			parsed.Structs[st.Name] = st
		case EntryEnum:
			en := &EnumDef{}
			if err := json.Unmarshal(item, en); err != nil {
				return err
			}
			parsed.Enums[en.Name] = en
		case EntryEvent:
			ev := &EventDef{}
			if err := json.Unmarshal(item, ev); err != nil {
				return err
			}
			parsed.Events[ev.Name] = ev
		case EntryImpl:
			// impls only point at interfaces
		default:
			return fmt.Errorf("unexpected abi entry type %q", common[i].Type)
		}
	}
	*a = parsed
	return nil
}

// Function looks up an entrypoint by name. "constructor" resolves to the
// constructor entry.
func (a *ABI) Function(name string) (*Function, error) {
	if name == "constructor" {
		if a.Constructor == nil {
			return &Function{Name: "constructor"}, nil
		}
		return a.Constructor, nil
	}
	if fn, ok := a.Functions[name]; ok {
		return fn, nil
	}
	if fn, ok := a.L1Handlers[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("entrypoint %q not found in abi", name)
}

// FunctionNames returns the sorted external and view function names.
func (a *ABI) FunctionNames() []string {
	names := make([]string, 0, len(a.Functions))
	for n := range a.Functions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (a *ABI) lookupStruct(t *TypeExpr) (*StructDef, bool) {
	if st, ok := a.Structs[t.String()]; ok {
		return st, true
	}
	st, ok := a.Structs[t.Path]
	return st, ok
}

func (a *ABI) lookupEnum(t *TypeExpr) (*EnumDef, bool) {
	if en, ok := a.Enums[t.String()]; ok {
		return en, true
	}
	en, ok := a.Enums[t.Path]
	return en, ok
}
