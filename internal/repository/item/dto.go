package item

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	domitem "github.com/kailas-cloud/abmeta/internal/domain/item"
)

// Reserved hash fields. Attribute fields carry attrPrefix so they never
// collide with them.
const (
	fieldID        = "_id"
	fieldMBTrackID = "_mb_trackid"
	fieldPath      = "_path"
	fieldUpdatedAt = "_updated_at"
	attrPrefix     = "attr:"
)

// metaToHash converts the registration fields of an item for HSET.
func metaToHash(it *domitem.Item) map[string]string {
	return map[string]string{
		fieldID:        it.ID(),
		fieldMBTrackID: it.MBTrackID(),
		fieldPath:      it.Path(),
	}
}

// attributesToHash converts the attributes and store time of an item for HSET.
func attributesToHash(it *domitem.Item) map[string]string {
	attrs := it.Attributes()
	m := make(map[string]string, len(attrs)+1)
	for k, v := range attrs {
		m[attrPrefix+k] = v
	}
	m[fieldUpdatedAt] = strconv.FormatInt(it.UpdatedAt().UnixMilli(), 10)
	return m
}

// itemFromHash hydrates an item from an HGETALL result map.
func itemFromHash(m map[string]string) (domitem.Item, error) {
	id := m[fieldID]
	if id == "" {
		return domitem.Item{}, fmt.Errorf("missing %s field", fieldID)
	}

	var updatedAt time.Time
	if raw := m[fieldUpdatedAt]; raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return domitem.Item{}, fmt.Errorf("invalid %s: %w", fieldUpdatedAt, err)
		}
		updatedAt = time.UnixMilli(ms).UTC()
	}

	attrs := make(map[string]string)
	for k, v := range m {
		if name, ok := strings.CutPrefix(k, attrPrefix); ok {
			attrs[name] = v
		}
	}

	return domitem.Reconstruct(id, m[fieldMBTrackID], m[fieldPath], attrs, updatedAt), nil
}
