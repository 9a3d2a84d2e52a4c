package domain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidConfig is returned when a profile or configuration document is malformed
	ErrInvalidConfig = errors.New("invalid config")

	// ErrClassNotDeclared is returned when a deployment references an unknown class
	ErrClassNotDeclared = errors.New("class not declared")

	// ErrTransactionReverted is returned when a submitted transaction reverted or was rejected
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrOutOfRange is returned when a configuration value is outside its allowed range
	ErrOutOfRange = errors.New("value out of range")

	// ErrNoAccount is returned when a command needs to sign but no account is configured
	ErrNoAccount = errors.New("no account configured")
)

// TagNotFoundError reports an unknown manifest tag, with close matches.
type TagNotFoundError struct {
	Kind        string
	Tag         string
	Suggestions []string
}

func (e *TagNotFoundError) Error() string {
	msg := fmt.Sprintf("%s with tag %s not found", e.Kind, e.Tag)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *TagNotFoundError) Unwrap() error {
	return ErrNotFound
}

// RangeError reports a named value outside [Min, Max], or a zero where zero
// is forbidden.
type RangeError struct {
	Name     string
	Value    *big.Int
	Min, Max *big.Int
	NonZero  bool
}

func (e *RangeError) Error() string {
	if e.NonZero && e.Value.Sign() == 0 {
		return fmt.Sprintf("%s: value %s cannot be zero", e.Name, e.Value)
	}
	return fmt.Sprintf("%s: value %s out of range (%s-%s)", e.Name, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}
