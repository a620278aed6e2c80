package modstree

import (
	"strconv"
	"strings"
)

// LocalName returns key without its namespace prefix.
// "mods:titleInfo" -> "titleInfo", "@xlink:href" -> "@href".
func LocalName(key string) string {
	if rest, ok := strings.CutPrefix(key, AttrPrefix); ok {
		return AttrPrefix + LocalName(rest)
	}
	if i := strings.LastIndex(key, nsSeparator); i >= 0 {
		return key[i+1:]
	}
	return key
}

// Normalize returns a copy of n with every map key reduced to its local name,
// recursing through maps and groups. Scalars are shared, not copied.
func Normalize(n *Node) *Node {
	switch n.Kind() {
	case KindMap:
		out := NewMap()
		for _, k := range n.keys {
			out.Set(LocalName(k), Normalize(n.fields[k]))
		}
		return out
	case KindGroup:
		items := make([]*Node, len(n.items))
		for i, it := range n.items {
			items[i] = Normalize(it)
		}
		return Group(items...)
	default:
		return n
	}
}

// AsSequence restores the repeatable-group shape: nil is empty, a group is its
// items, anything else is a one-element slice.
func AsSequence(n *Node) []*Node {
	switch n.Kind() {
	case KindNull:
		return nil
	case KindGroup:
		return n.items
	default:
		return []*Node{n}
	}
}

// Get looks key up in a map node, falling back to the first key whose local
// name equals key.
func Get(n *Node, key string) *Node {
	if n.Kind() != KindMap {
		return nil
	}
	if v, ok := n.fields[key]; ok {
		return v
	}
	for _, k := range n.keys {
		if LocalName(k) == key {
			return n.fields[k]
		}
	}
	return nil
}

// Text walks path from n and resolves the final node to text. A path step is a
// string key or an int index into a group. Any failing step yields ("", false).
func Text(n *Node, path ...any) (string, bool) {
	cur := n
	for _, step := range path {
		if cur == nil {
			return "", false
		}
		switch s := step.(type) {
		case string:
			if cur.Kind() != KindMap {
				return "", false
			}
			cur = Get(cur, s)
		case int:
			if cur.Kind() != KindGroup || s < 0 || s >= len(cur.items) {
				return "", false
			}
			cur = cur.items[s]
		default:
			return "", false
		}
	}
	return resolveText(cur)
}

// MustText is Text without the found flag.
func MustText(n *Node, path ...any) string {
	s, _ := Text(n, path...)
	return s
}

func resolveText(n *Node) (string, bool) {
	switch n.Kind() {
	case KindScalar:
		return n.text, true
	case KindMap:
		if v := n.fields[TextKey]; v != nil {
			return textOf(v), true
		}
		if v := n.fields[AltTextKey]; v != nil {
			return textOf(v), true
		}
	}
	return "", false
}

// textOf stringifies whatever sits under a text key.
func textOf(n *Node) string {
	switch n.Kind() {
	case KindScalar:
		return n.text
	case KindGroup:
		parts := make([]string, 0, len(n.items))
		for _, it := range n.items {
			if s, ok := resolveText(it); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}
	s, _ := resolveText(n)
	return s
}

// Attr returns the value of attribute name on a map node, or "".
func Attr(n *Node, name string) string {
	return Get(n, AttrPrefix+name).String()
}

// Int parses the text at path as an integer, returning def when absent or invalid.
func Int(n *Node, def int, path ...any) int {
	s, ok := Text(n, path...)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}
