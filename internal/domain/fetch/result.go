package fetch

// ItemStatus is the outcome of fetching attributes for one item.
type ItemStatus string

// Item status values.
const (
	StatusOK       ItemStatus = "ok"
	StatusSkipped  ItemStatus = "skipped"   // no MusicBrainz recording ID
	StatusNotFound ItemStatus = "not_found" // upstream returned no data
	StatusError    ItemStatus = "error"
)

// Result is the outcome of fetching one item.
type Result struct {
	id         string
	status     ItemStatus
	attributes int
	written    bool
	err        error
}

// NewOK creates a successful result with the number of attributes set.
func NewOK(id string, attributes int, written bool) Result {
	return Result{id: id, status: StatusOK, attributes: attributes, written: written}
}

// NewSkipped creates a result for an item without a recording ID.
func NewSkipped(id string) Result { return Result{id: id, status: StatusSkipped} }

// NewNotFound creates a result for an item with no upstream data.
func NewNotFound(id string) Result { return Result{id: id, status: StatusNotFound} }

// NewError creates a failed result.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// WithWriteError records a sidecar write failure on an otherwise stored item.
func (r Result) WithWriteError(err error) Result {
	r.written = false
	r.err = err
	return r
}

// ID returns the item identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Attributes returns the number of attributes set.
func (r Result) Attributes() int { return r.attributes }

// Written reports whether the attributes were written to the sidecar file.
func (r Result) Written() bool { return r.written }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }
