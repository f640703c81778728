package domain

import (
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// DecodeDocument parses exactly one JSON object. Numbers are kept as json.Number so
// their text passes through unchanged.
func DecodeDocument(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode document: %w: %w", ErrInvalidDocument, err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after document: %w", ErrInvalidDocument)
	}

	doc, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document must be a JSON object, got %T: %w", v, ErrInvalidDocument)
	}
	return Document(doc), nil
}
