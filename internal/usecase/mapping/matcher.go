// Package mapping extracts flat attributes from a metadata document by
// walking a mapping scheme.
package mapping

import (
	"iter"

	"github.com/kailas-cloud/abmeta/internal/domain"
	"github.com/kailas-cloud/abmeta/internal/domain/composite"
	"github.com/kailas-cloud/abmeta/internal/domain/scheme"
)

// Shape names reported in ShapeMismatch diagnostics.
const (
	wantDocument = "document"
	wantScalar   = "scalar"
)

// Walk matches root against doc depth-first in scheme declaration order.
// Direct matches are yielded as they are found; composite fragments are
// written into acc and yield nothing. Absent keys and values of the wrong
// shape are reported to sink and skipped.
//
// root must be a Nested node; entries with a nil node are skipped. Run
// Validate on untrusted schemes first. A nil sink discards diagnostics.
func Walk(doc domain.Document, root *scheme.Node, acc *composite.Accumulator, sink Sink) iter.Seq[domain.Attribute] {
	if sink == nil {
		sink = NopSink{}
	}
	return func(yield func(domain.Attribute) bool) {
		if root == nil || root.Kind() != scheme.KindNested {
			return
		}
		w := walker{acc: acc, sink: sink, yield: yield}
		w.nested(nil, doc, root)
	}
}

type walker struct {
	acc   *composite.Accumulator
	sink  Sink
	yield func(domain.Attribute) bool
}

// nested returns false once the consumer has stopped iterating.
func (w *walker) nested(path []string, doc domain.Document, n *scheme.Node) bool {
	for _, e := range n.Entries() {
		if e.Node == nil {
			continue
		}
		value, ok := doc[e.Key]
		if !ok {
			w.sink.MissingKey(path, e.Key)
			continue
		}

		switch e.Node.Kind() {
		case scheme.KindNested:
			sub, ok := domain.AsDocument(value)
			if !ok {
				w.sink.ShapeMismatch(path, e.Key, wantDocument)
				continue
			}
			if !w.nested(append(path[:len(path):len(path)], e.Key), sub, e.Node) {
				return false
			}
		case scheme.KindComposite:
			if !domain.IsScalar(value) {
				w.sink.ShapeMismatch(path, e.Key, wantScalar)
				continue
			}
			if w.acc != nil {
				w.acc.Set(e.Node.Target(), e.Node.Position(), domain.FormatValue(value))
			}
		case scheme.KindDirect:
			if !domain.IsScalar(value) {
				w.sink.ShapeMismatch(path, e.Key, wantScalar)
				continue
			}
			if !w.yield(domain.Attribute{Name: e.Node.Target(), Value: value}) {
				return false
			}
		}
	}
	return true
}
