// Package invoice extracts billing metadata from document filenames.
// Two parsing strategies exist in the field and are materially different
// heuristics, so both ship behind one interface and deployments pick one.
package invoice

import (
	"errors"
	"fmt"
)

// Meta holds the identifiers carried by an invoice filename.
// Fields are empty when the corresponding token could not be derived;
// an empty Meta never blocks processing of the file itself.
type Meta struct {
	Bill    string
	Client  string
	Project string
}

// IsZero reports whether no field was extracted.
func (m Meta) IsZero() bool {
	return m.Bill == "" && m.Client == "" && m.Project == ""
}

// ErrUnparsable reports a filename that does not match the strategy's shape.
var ErrUnparsable = errors.New("filename does not match expected shape")

// Parser derives Meta from a bare filename (no directory components).
type Parser interface {
	Parse(filename string) (Meta, error)
}

// Strategy names accepted by ForStrategy.
const (
	StrategyPositional = "positional"
	StrategyPattern    = "pattern"
)

// ForStrategy returns the parser registered under name.
func ForStrategy(name string) (Parser, error) {
	switch name {
	case StrategyPositional:
		return PositionalParser{}, nil
	case StrategyPattern:
		return PatternParser{}, nil
	default:
		return nil, fmt.Errorf("unknown filename strategy %q (expected %s|%s)", name, StrategyPositional, StrategyPattern)
	}
}
