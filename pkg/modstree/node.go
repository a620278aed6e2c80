// Package modstree holds the XML-as-nested-structure model used for MODS records
// and the namespace-agnostic accessors the field extractors are written against.
package modstree

// Kind identifies which variant of the Node union is populated.
type Kind uint8

const (
	// KindNull is reported for a nil *Node.
	KindNull Kind = iota
	// KindScalar is a text value (element text or attribute value).
	KindScalar
	// KindMap is an element with attributes and/or child elements.
	KindMap
	// KindGroup is an ordered list of repeated siblings.
	KindGroup
)

// Conventional keys inside a map node.
const (
	TextKey     = "#text"
	AltTextKey  = "text"
	AttrPrefix  = "@"
	nsSeparator = ":"
)

// Node is a tagged union of Scalar, Map and Group. A nil *Node is null.
type Node struct {
	kind   Kind
	text   string
	keys   []string
	fields map[string]*Node
	items  []*Node
}

// Scalar returns a text node.
func Scalar(text string) *Node {
	return &Node{kind: KindScalar, text: text}
}

// NewMap returns an empty map node. Keys keep insertion order.
func NewMap() *Node {
	return &Node{kind: KindMap, fields: make(map[string]*Node)}
}

// Group returns a node holding the given items in order.
func Group(items ...*Node) *Node {
	return &Node{kind: KindGroup, items: items}
}

// Kind reports the populated variant.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindNull
	}
	return n.kind
}

// IsNull reports whether n is nil.
func (n *Node) IsNull() bool { return n == nil }

// String returns the scalar text, or "" for any other kind.
func (n *Node) String() string {
	if n == nil || n.kind != KindScalar {
		return ""
	}
	return n.text
}

// Keys returns map keys in document order.
func (n *Node) Keys() []string {
	if n == nil || n.kind != KindMap {
		return nil
	}
	return n.keys
}

// Items returns the members of a group.
func (n *Node) Items() []*Node {
	if n == nil || n.kind != KindGroup {
		return nil
	}
	return n.items
}

// Value is an exact-key lookup on a map node.
func (n *Node) Value(key string) *Node {
	if n == nil || n.kind != KindMap {
		return nil
	}
	return n.fields[key]
}

// Set stores v under key. A key that already exists keeps its position.
// It returns n so literals can be chained in tests and builders.
func (n *Node) Set(key string, v *Node) *Node {
	if n == nil || n.kind != KindMap {
		return n
	}
	if _, ok := n.fields[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = v
	return n
}

// append adds v under key, promoting an existing entry to a group.
// This mirrors how repeated XML siblings become a list.
func (n *Node) append(key string, v *Node) {
	cur, ok := n.fields[key]
	if !ok {
		n.Set(key, v)
		return
	}
	if cur.Kind() == KindGroup {
		cur.items = append(cur.items, v)
		return
	}
	n.fields[key] = Group(cur, v)
}

// Equal reports deep structural equality, including map key order.
func Equal(a, b *Node) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindNull:
		return true
	case KindScalar:
		return a.text == b.text
	case KindGroup:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.keys) != len(b.keys) {
			return false
		}
		for i, k := range a.keys {
			if b.keys[i] != k || !Equal(a.fields[k], b.fields[k]) {
				return false
			}
		}
		return true
	}
	return false
}
