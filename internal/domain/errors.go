package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrItemNotFound signals a missing library item.
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidItem signals an item that fails validation.
	ErrInvalidItem = errors.New("invalid item")
	// ErrInvalidScheme signals a malformed mapping scheme (startup configuration error).
	ErrInvalidScheme = errors.New("invalid mapping scheme")
	// ErrInvalidDocument signals a source document that is not a JSON object.
	ErrInvalidDocument = errors.New("invalid document")
)
