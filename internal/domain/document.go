package domain

// KeyPrefix is the storage namespace for every key written by abmeta.
const KeyPrefix = "abmeta:"

// Document is a parsed metadata response: string keys mapped to scalars or nested documents.
// Documents are read-only inputs to the mapping core.
type Document map[string]any

// AsDocument reports whether v is a nested document and returns it.
// Both Document and plain map[string]any (as produced by JSON decoders) are accepted.
func AsDocument(v any) (Document, bool) {
	switch d := v.(type) {
	case Document:
		return d, true
	case map[string]any:
		return Document(d), true
	default:
		return nil, false
	}
}

// IsScalar reports whether v is a leaf value (string, number, boolean or null).
func IsScalar(v any) bool {
	switch v.(type) {
	case Document, map[string]any, []any:
		return false
	default:
		return true
	}
}

// Merge copies the top-level keys of src into d, overwriting existing keys.
func (d Document) Merge(src Document) {
	for k, v := range src {
		d[k] = v
	}
}
