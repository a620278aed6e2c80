package extractors

import "github.com/dtnitsch/librarycloud-harvester/pkg/modstree"

// Strategy is one candidate source for a field. It reports false when it has
// nothing to offer so the next candidate can run.
type Strategy func(mods *modstree.Node) (string, bool)

// Chain runs strategies in order and stops at the first success.
type Chain []Strategy

// Resolve returns the first successful strategy's value, or "".
func (c Chain) Resolve(mods *modstree.Node) string {
	for _, s := range c {
		if v, ok := s(mods); ok {
			return v
		}
	}
	return ""
}

// firstNonEmpty adapts a value func into a Strategy.
func firstNonEmpty(fn func(*modstree.Node) string) Strategy {
	return func(mods *modstree.Node) (string, bool) {
		v := fn(mods)
		return v, v != ""
	}
}
