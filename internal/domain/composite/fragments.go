package composite

import "strings"

// Fragments is an ordered, index-addressed sequence of composite fragments.
// Positions that were never written hold the default value.
type Fragments struct {
	def    string
	values []string
}

// NewFragments creates an empty sequence backfilled with def.
func NewFragments(def string) *Fragments {
	return &Fragments{def: def}
}

// EnsureLength extends the sequence with the default until it has at least n elements.
func (f *Fragments) EnsureLength(n int) {
	for len(f.values) < n {
		f.values = append(f.values, f.def)
	}
}

// Append adds v as the new last element.
func (f *Fragments) Append(v string) {
	f.values = append(f.values, v)
}

// Put assigns v at position i, extending the sequence as needed.
func (f *Fragments) Put(i int, v string) {
	f.EnsureLength(i + 1)
	f.values[i] = v
}

// Len returns the number of elements.
func (f *Fragments) Len() int { return len(f.values) }

// At returns the element at i, or the default when i is out of range.
func (f *Fragments) At(i int) string {
	if i < 0 || i >= len(f.values) {
		return f.def
	}
	return f.values[i]
}

// Values returns a copy of the elements in index order.
func (f *Fragments) Values() []string {
	out := make([]string, len(f.values))
	copy(out, f.values)
	return out
}

// Join concatenates the elements in index order. An empty sequence joins
// to the default value.
func (f *Fragments) Join(sep string) string {
	if len(f.values) == 0 {
		return f.def
	}
	return strings.Join(f.values, sep)
}
