package mapping

import (
	"iter"

	"github.com/kailas-cloud/abmeta/internal/domain"
	"github.com/kailas-cloud/abmeta/internal/domain/composite"
	"github.com/kailas-cloud/abmeta/internal/domain/scheme"
)

// Mapper applies one validated scheme to documents.
// It holds no per-document state and is safe for concurrent use.
type Mapper struct {
	scheme *scheme.Node
	policy composite.Policy
}

// NewMapper creates a mapper for s, which must already be validated.
func NewMapper(s *scheme.Node, policy composite.Policy) *Mapper {
	return &Mapper{scheme: s, policy: policy}
}

// Scheme returns the scheme in use.
func (m *Mapper) Scheme() *scheme.Node { return m.scheme }

// Policy returns the composite write policy in use.
func (m *Mapper) Policy() composite.Policy { return m.policy }

// MapSeq yields direct attributes in walk order, then the composite
// attributes once the walk has completed. Each call uses a fresh accumulator.
func (m *Mapper) MapSeq(doc domain.Document, sink Sink) iter.Seq[domain.Attribute] {
	return func(yield func(domain.Attribute) bool) {
		acc := composite.New(m.policy)
		for a := range Walk(doc, m.scheme, acc, sink) {
			if !yield(a) {
				return
			}
		}
		for _, a := range acc.Finalize() {
			if !yield(a) {
				return
			}
		}
	}
}

// Map collects MapSeq into a slice.
func (m *Mapper) Map(doc domain.Document, sink Sink) []domain.Attribute {
	var out []domain.Attribute
	for a := range m.MapSeq(doc, sink) {
		out = append(out, a)
	}
	return out
}
