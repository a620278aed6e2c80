// Package extractors flattens a normalized MODS record into column values.
// Every function here tolerates missing or oddly shaped data and degrades to ""
// or an empty list; none of them return errors.
package extractors

import (
	"strings"

	"github.com/dtnitsch/librarycloud-harvester/pkg/modstree"
	"github.com/dtnitsch/librarycloud-harvester/pkg/parser"
	"golang.org/x/text/cases"
)

// Separator joins multi-valued columns.
const Separator = "; "

// Join trims values, drops empties and duplicates (first occurrence wins)
// and joins the rest with Separator.
func Join(values []string) string {
	return strings.Join(Unique(values), Separator)
}

// Unique returns the trimmed, non-empty values in first-seen order.
func Unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// text resolves n (or the node at path below n) to cleaned, trimmed text.
func text(n *modstree.Node, path ...any) string {
	s, ok := modstree.Text(n, path...)
	if !ok {
		return ""
	}
	return parser.CleanText(s)
}

// texts collects the text of every occurrence of key under each of parents.
func texts(parents []*modstree.Node, keys ...string) []string {
	var out []string
	for _, p := range parents {
		for _, k := range keys {
			for _, v := range each(p, k) {
				if s := text(v); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

// each is AsSequence(Get(n, key)).
func each(n *modstree.Node, key string) []*modstree.Node {
	return modstree.AsSequence(modstree.Get(n, key))
}

// attr returns a case-folded, trimmed attribute value for comparisons.
func attr(n *modstree.Node, name string) string {
	return fold(strings.TrimSpace(modstree.Attr(n, name)))
}

func fold(s string) string {
	return cases.Fold().String(s)
}
