package scheme

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/abmeta/internal/domain"
)

//go:embed acousticbrainz.yaml
var defaultSchemeYAML []byte

// Default returns the AcousticBrainz mapping scheme.
func Default() *Node {
	n, err := Parse(defaultSchemeYAML)
	if err != nil {
		panic("scheme: embedded default scheme is invalid: " + err.Error())
	}
	return n
}

// Load reads and validates a YAML scheme file.
func Load(path string) (*Node, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read scheme %s: %w", path, err)
	}
	n, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scheme %s: %w", path, err)
	}
	return n, nil
}

// Parse decodes and validates a YAML scheme.
// A mapping is a Nested node, a string is a Direct target and a
// two-element sequence [name, position] is a Composite fragment.
func Parse(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w: %w", domain.ErrInvalidScheme, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty scheme: %w", domain.ErrInvalidScheme)
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: root must be a mapping: %w", root.Line, domain.ErrInvalidScheme)
	}

	n, err := fromYAML(root)
	if err != nil {
		return nil, err
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

func fromYAML(y *yaml.Node) (*Node, error) {
	switch y.Kind {
	case yaml.MappingNode:
		entries := make([]Entry, 0, len(y.Content)/2)
		for i := 0; i+1 < len(y.Content); i += 2 {
			k, v := y.Content[i], y.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: key must be a scalar: %w", k.Line, domain.ErrInvalidScheme)
			}
			child, err := fromYAML(v)
			if err != nil {
				return nil, err
			}
			entries = append(entries, Key(k.Value, child))
		}
		return Nested(entries...), nil

	case yaml.ScalarNode:
		if y.Tag != "!!str" {
			return nil, fmt.Errorf("line %d: direct target must be a string, got %s: %w",
				y.Line, y.Tag, domain.ErrInvalidScheme)
		}
		return Direct(y.Value), nil

	case yaml.SequenceNode:
		if len(y.Content) != 2 {
			return nil, fmt.Errorf("line %d: composite must be [name, position], got %d items: %w",
				y.Line, len(y.Content), domain.ErrInvalidScheme)
		}
		name, pos := y.Content[0], y.Content[1]
		if name.Kind != yaml.ScalarNode || name.Tag != "!!str" {
			return nil, fmt.Errorf("line %d: composite name must be a string: %w", name.Line, domain.ErrInvalidScheme)
		}
		if pos.Kind != yaml.ScalarNode || pos.Tag != "!!int" {
			return nil, fmt.Errorf("line %d: composite position must be an integer: %w", pos.Line, domain.ErrInvalidScheme)
		}
		p, err := strconv.Atoi(pos.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: composite position %q: %w: %w",
				pos.Line, pos.Value, domain.ErrInvalidScheme, err)
		}
		return Composite(name.Value, p), nil

	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node: %w", y.Line, domain.ErrInvalidScheme)
	}
}
