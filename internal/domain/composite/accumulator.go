// Package composite assembles composite attributes from positional fragments
// scattered across a document.
package composite

import (
	"fmt"

	"github.com/kailas-cloud/abmeta/internal/domain"
)

const (
	// DefaultFragment backfills positions that were never written.
	DefaultFragment = ""
	// Separator joins fragments of one composite attribute.
	Separator = " "
)

// Policy decides how a write lands in the fragment sequence.
type Policy int

const (
	// PolicyAppend backfills up to the position, then appends the value as
	// the new last element. A write to an already filled position does not
	// overwrite it: it lands after the current tail.
	PolicyAppend Policy = iota
	// PolicyOverwrite assigns the value at the position in place.
	PolicyOverwrite
)

func (p Policy) String() string {
	switch p {
	case PolicyAppend:
		return "append"
	case PolicyOverwrite:
		return "overwrite"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy maps a configuration value to a Policy. Empty means PolicyAppend.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "append":
		return PolicyAppend, nil
	case "overwrite":
		return PolicyOverwrite, nil
	default:
		return 0, fmt.Errorf("unknown composite policy %q", s)
	}
}

// Accumulator holds in-progress composite attributes for one document
// traversal. It is not safe for concurrent use and must not be reused
// across documents.
type Accumulator struct {
	policy  Policy
	entries map[string]*Fragments
	order   []string
}

// New creates an empty accumulator.
func New(policy Policy) *Accumulator {
	return &Accumulator{
		policy:  policy,
		entries: make(map[string]*Fragments),
	}
}

// Set writes value at position of the composite attribute name.
// Negative positions are rejected at scheme validation and ignored here.
func (a *Accumulator) Set(name string, position int, value string) {
	if position < 0 {
		return
	}
	f := a.getOrCreate(name)
	switch a.policy {
	case PolicyOverwrite:
		f.Put(position, value)
	default:
		f.EnsureLength(position)
		f.Append(value)
	}
}

func (a *Accumulator) getOrCreate(name string) *Fragments {
	if f, ok := a.entries[name]; ok {
		return f
	}
	f := NewFragments(DefaultFragment)
	a.entries[name] = f
	a.order = append(a.order, name)
	return f
}

// Fragments returns the sequence accumulated for name.
func (a *Accumulator) Fragments(name string) (*Fragments, bool) {
	f, ok := a.entries[name]
	return f, ok
}

// Len returns the number of composite attributes accumulated.
func (a *Accumulator) Len() int { return len(a.order) }

// Finalize joins every accumulated composite in the order names were first
// written.
func (a *Accumulator) Finalize() []domain.Attribute {
	out := make([]domain.Attribute, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, domain.Attribute{Name: name, Value: a.entries[name].Join(Separator)})
	}
	return out
}
