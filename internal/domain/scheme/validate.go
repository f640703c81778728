package scheme

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/abmeta/internal/domain"
)

// Validate checks the scheme for configuration errors. It is meant to run
// once at startup; every error wraps domain.ErrInvalidScheme.
func (n *Node) Validate() error {
	if n == nil {
		return fmt.Errorf("scheme is nil: %w", domain.ErrInvalidScheme)
	}
	if n.kind != KindNested {
		return fmt.Errorf("root must be a nested node, got %s: %w", n.kind, domain.ErrInvalidScheme)
	}

	v := validator{
		directs:    make(map[string]string),
		composites: make(map[string]struct{}),
	}
	if err := v.node(nil, n); err != nil {
		return err
	}

	for name, where := range v.directs {
		if _, ok := v.composites[name]; ok {
			return fmt.Errorf("attribute %q is both direct (at %s) and composite: %w",
				name, where, domain.ErrInvalidScheme)
		}
	}
	return nil
}

type validator struct {
	directs    map[string]string
	composites map[string]struct{}
}

func (v *validator) node(path []string, n *Node) error {
	where := joinPath(path)
	switch n.kind {
	case KindDirect:
		if n.target == "" {
			return fmt.Errorf("empty direct target at %s: %w", where, domain.ErrInvalidScheme)
		}
		if _, ok := v.directs[n.target]; !ok {
			v.directs[n.target] = where
		}
	case KindComposite:
		if n.target == "" {
			return fmt.Errorf("empty composite name at %s: %w", where, domain.ErrInvalidScheme)
		}
		if n.position < 0 {
			return fmt.Errorf("negative position %d for composite %q at %s: %w",
				n.position, n.target, where, domain.ErrInvalidScheme)
		}
		v.composites[n.target] = struct{}{}
	case KindNested:
		keys := make(map[string]struct{}, len(n.entries))
		for _, e := range n.entries {
			if e.Key == "" {
				return fmt.Errorf("empty key at %s: %w", where, domain.ErrInvalidScheme)
			}
			if _, dup := keys[e.Key]; dup {
				return fmt.Errorf("duplicate key %q at %s: %w", e.Key, where, domain.ErrInvalidScheme)
			}
			keys[e.Key] = struct{}{}
			if e.Node == nil {
				return fmt.Errorf("nil scheme for key %q at %s: %w", e.Key, where, domain.ErrInvalidScheme)
			}
			if err := v.node(append(path[:len(path):len(path)], e.Key), e.Node); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown node kind %s at %s: %w", n.kind, where, domain.ErrInvalidScheme)
	}
	return nil
}

func joinPath(path []string) string {
	if len(path) == 0 {
		return "<root>"
	}
	return strings.Join(path, ".")
}
