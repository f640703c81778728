// Package scheme describes which paths of a metadata document map to which
// output attributes.
//
// A scheme is a static tree with three node kinds:
//   - Direct: a leaf renaming the matched value into a flat attribute
//   - Composite: a leaf contributing one positional fragment to a composite attribute
//   - Nested: an ordered set of child keys to descend into
//
// Children of a Nested node are kept in declaration order, which fully
// determines traversal order.
package scheme

import "fmt"

// Kind identifies the variant of a Node.
type Kind int

// Node kinds.
const (
	KindDirect Kind = iota + 1
	KindComposite
	KindNested
)

func (k Kind) String() string {
	switch k {
	case KindDirect:
		return "direct"
	case KindComposite:
		return "composite"
	case KindNested:
		return "nested"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Node is one node of a mapping scheme.
type Node struct {
	kind     Kind
	target   string
	position int
	entries  []Entry
}

// Entry is a (document key, child scheme) pair of a Nested node.
type Entry struct {
	Key  string
	Node *Node
}

// Direct returns a leaf that emits (target, value) on match.
func Direct(target string) *Node {
	return &Node{kind: KindDirect, target: target}
}

// Composite returns a leaf that writes the matched value at position of the
// composite attribute name.
func Composite(name string, position int) *Node {
	return &Node{kind: KindComposite, target: name, position: position}
}

// Nested returns an internal node descending into same-named sub-documents.
func Nested(entries ...Entry) *Node {
	return &Node{kind: KindNested, entries: entries}
}

// Key pairs a document key with its child scheme.
func Key(key string, n *Node) Entry {
	return Entry{Key: key, Node: n}
}

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// Target returns the attribute name of a Direct node or the composite name of
// a Composite node.
func (n *Node) Target() string { return n.target }

// Position returns the fragment position of a Composite node.
func (n *Node) Position() int { return n.position }

// Entries returns the children of a Nested node in declaration order.
func (n *Node) Entries() []Entry { return n.entries }

// Targets lists every output attribute the scheme can produce, in
// traversal order, without duplicates.
func (n *Node) Targets() []string {
	var out []string
	seen := make(map[string]struct{})
	n.visit(nil, func(_ []string, node *Node) {
		if node.kind == KindNested {
			return
		}
		if _, ok := seen[node.target]; ok {
			return
		}
		seen[node.target] = struct{}{}
		out = append(out, node.target)
	})
	return out
}

// visit walks the tree pre-order, passing the key path of each node.
func (n *Node) visit(path []string, fn func(path []string, node *Node)) {
	fn(path, n)
	for _, e := range n.entries {
		if e.Node == nil {
			continue
		}
		e.Node.visit(append(path[:len(path):len(path)], e.Key), fn)
	}
}
