package sidecar

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	domitem "github.com/kailas-cloud/abmeta/internal/domain/item"
)

// Suffix replaces the media file extension in sidecars placed next to media.
const Suffix = ".abmeta.yaml"

// ErrNoTarget means an item has no media path and no fallback directory is configured.
var ErrNoTarget = errors.New("sidecar: no target path")

// Writer stores item attributes as YAML files.
type Writer struct {
	dir         string
	nextToMedia bool
}

// New creates a sidecar writer. With nextToMedia set, items with a media path
// get a sidecar beside the media file; other items go to dir.
func New(dir string, nextToMedia bool) *Writer {
	return &Writer{dir: dir, nextToMedia: nextToMedia}
}

// Enabled reports whether any target is configured.
func (w *Writer) Enabled() bool { return w.nextToMedia || w.dir != "" }

// Path returns the sidecar file of an item, or "" when it has none.
func (w *Writer) Path(it *domitem.Item) string {
	if media := it.Path(); w.nextToMedia && media != "" {
		return strings.TrimSuffix(media, filepath.Ext(media)) + Suffix
	}
	if w.dir != "" {
		return filepath.Join(w.dir, it.ID()+".yaml")
	}
	return ""
}

// Write replaces the sidecar file of an item with its current attributes.
// Keys are sorted. The file is written to a temp name and renamed.
func (w *Writer) Write(it *domitem.Item) error {
	if !w.Enabled() {
		return nil
	}
	target := w.Path(it)
	if target == "" {
		return fmt.Errorf("item %s: %w", it.ID(), ErrNoTarget)
	}

	data, err := yaml.Marshal(it.Attributes())
	if err != nil {
		return fmt.Errorf("marshal attributes of %s: %w", it.ID(), err)
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create sidecar dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write sidecar %s: %w", it.ID(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close sidecar %s: %w", it.ID(), err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("rename sidecar %s: %w", it.ID(), err)
	}
	return nil
}
