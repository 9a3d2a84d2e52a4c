package domain

import "fmt"

// Call is an entrypoint invocation on a manifest contract, before its
// arguments are encoded against the contract ABI.
type Call struct {
	Tag         string
	Entrypoint  string
	Args        any // map by input name, positional slice, or nil
	Description string
}

func (c Call) String() string {
	if c.Description != "" {
		return c.Description
	}
	return fmt.Sprintf("%s.%s", c.Tag, c.Entrypoint)
}

// EncodedCall is a call resolved to an address with felt calldata.
type EncodedCall struct {
	Call
	ContractAddress string
	Selector        string
	Calldata        []string
}

// ReturnEventKey is the first key of the event game contracts emit to hand
// values back to the caller of an external entrypoint.
const ReturnEventKey = "0x17c9a55536e844e86b35cd70d23a4e304a30e5e08de591b6788319186160f50"
