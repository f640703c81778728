package item

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/abmeta/internal/domain"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxIDLength is the maximum item identifier length.
const MaxIDLength = 256

// Item is a library track whose acoustic attributes are fetched by MusicBrainz recording ID.
type Item struct {
	id         string
	mbTrackID  string
	path       string
	attributes map[string]string
	updatedAt  time.Time
}

// New validates and creates an Item.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. mbTrackID may be empty; otherwise it
// must be a UUID and is stored in canonical lowercase form.
func New(id, mbTrackID, path string) (Item, error) {
	if id == "" {
		return Item{}, fmt.Errorf("item ID is required: %w", domain.ErrInvalidItem)
	}
	if len(id) > MaxIDLength {
		return Item{}, fmt.Errorf("item ID too long (max %d): %w", MaxIDLength, domain.ErrInvalidItem)
	}
	if !idRegex.MatchString(id) {
		return Item{}, fmt.Errorf("item ID must be alphanumeric with underscores and hyphens: %w", domain.ErrInvalidItem)
	}

	mbid, err := NormalizeMBID(mbTrackID)
	if err != nil {
		return Item{}, err
	}

	return Item{
		id:         id,
		mbTrackID:  mbid,
		path:       path,
		attributes: make(map[string]string),
	}, nil
}

// NormalizeMBID validates a MusicBrainz recording ID. Empty input is allowed.
func NormalizeMBID(mbid string) (string, error) {
	if mbid == "" {
		return "", nil
	}
	u, err := uuid.Parse(mbid)
	if err != nil {
		return "", fmt.Errorf("invalid MusicBrainz recording ID %q: %w", mbid, domain.ErrInvalidItem)
	}
	return u.String(), nil
}

// Reconstruct creates an Item without validation (storage hydration).
func Reconstruct(id, mbTrackID, path string, attributes map[string]string, updatedAt time.Time) Item {
	if attributes == nil {
		attributes = make(map[string]string)
	}
	return Item{id: id, mbTrackID: mbTrackID, path: path, attributes: attributes, updatedAt: updatedAt}
}

// ID returns the item identifier.
func (i *Item) ID() string { return i.id }

// MBTrackID returns the MusicBrainz recording ID, or "" if unknown.
func (i *Item) MBTrackID() string { return i.mbTrackID }

// HasMBTrackID reports whether attributes can be fetched for the item.
func (i *Item) HasMBTrackID() bool { return i.mbTrackID != "" }

// Path returns the media file path, if any.
func (i *Item) Path() string { return i.path }

// Attributes returns a copy of the acoustic attributes.
func (i *Item) Attributes() map[string]string {
	c := make(map[string]string, len(i.attributes))
	for k, v := range i.attributes {
		c[k] = v
	}
	return c
}

// Attribute returns a single attribute value.
func (i *Item) Attribute(name string) (string, bool) {
	v, ok := i.attributes[name]
	return v, ok
}

// UpdatedAt returns the time attributes were last stored.
func (i *Item) UpdatedAt() time.Time { return i.updatedAt }

// SetAttribute sets an attribute in place (mutation).
func (i *Item) SetAttribute(name, value string) {
	if i.attributes == nil {
		i.attributes = make(map[string]string)
	}
	i.attributes[name] = value
}

// Touch records the store time.
func (i *Item) Touch(t time.Time) { i.updatedAt = t }

func (i Item) String() string {
	if i.mbTrackID == "" {
		return i.id
	}
	return i.id + " (" + i.mbTrackID + ")"
}
