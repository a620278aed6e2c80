package extractors

import (
	"strings"

	"github.com/dtnitsch/librarycloud-harvester/pkg/modstree"
)

// Options tunes the heuristics that are ambiguous in the source data.
type Options struct {
	// UntypedNamesAsCorporate also reports name entries without a type
	// attribute as corporate names when their first namePart has text.
	// Such names are reported as personal names as well.
	UntypedNamesAsCorporate bool
}

// DefaultOptions matches the long-standing harvester output.
func DefaultOptions() Options {
	return Options{UntypedNamesAsCorporate: true}
}

var (
	creatorRoleCodes = map[string]bool{"aut": true, "cmp": true, "cre": true, "prf": true, "voc": true}
	creatorRoleWords = map[string]bool{
		"author":    true,
		"composer":  true,
		"creator":   true,
		"performer": true,
		"vocalist":  true,
		"singer":    true,
		"voice":     true,
	}
)

// PersonalNames is the positional split of all personal names on a record.
type PersonalNames struct {
	Name1 string
	Name2 string
	Name3 string
	Other string
}

// DisplayName renders a name entry as its non-date parts in document order,
// falling back to displayForm, followed by any date parts in parentheses:
// "Smith, Jane (1900-1980)".
func DisplayName(name *modstree.Node) string {
	var parts, dates []string
	for _, np := range each(name, "namePart") {
		s := text(np)
		if s == "" {
			continue
		}
		if attr(np, "type") == "date" {
			dates = append(dates, s)
		} else {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		if disp := text(name, "displayForm"); disp != "" {
			parts = append(parts, disp)
		}
	}
	display := strings.Join(parts, " ")
	if len(dates) > 0 {
		display += " (" + strings.Join(dates, Separator) + ")"
	}
	return strings.TrimSpace(display)
}

// Creators joins the personal names that carry a creator-like role, plus
// names flagged usage="primary" when no role matched.
func Creators(mods *modstree.Node) string {
	var out []string
	for _, n := range personalNameNodes(mods) {
		if !hasCreatorRole(n) && attr(n, "usage") != "primary" {
			continue
		}
		if disp := DisplayName(n); disp != "" {
			out = append(out, disp)
		}
	}
	return Join(out)
}

func hasCreatorRole(name *modstree.Node) bool {
	for _, role := range each(name, "role") {
		for _, rt := range each(role, "roleTerm") {
			term := fold(text(rt))
			if attr(rt, "type") == "code" && creatorRoleCodes[term] {
				return true
			}
			if creatorRoleWords[term] {
				return true
			}
		}
	}
	return false
}

// SplitPersonalNames puts the first three distinct personal names into their
// own columns and joins the rest.
func SplitPersonalNames(mods *modstree.Node) PersonalNames {
	var all []string
	for _, n := range personalNameNodes(mods) {
		all = append(all, DisplayName(n))
	}
	names := Unique(all)

	var split PersonalNames
	slots := []*string{&split.Name1, &split.Name2, &split.Name3}
	for i, slot := range slots {
		if i < len(names) {
			*slot = names[i]
		}
	}
	if len(names) > len(slots) {
		split.Other = strings.Join(names[len(slots):], Separator)
	}
	return split
}

// CorporateNames joins names typed "corporate" and, per opts, untyped names
// whose first namePart has text.
func CorporateNames(mods *modstree.Node, opts Options) string {
	var out []string
	for _, n := range each(mods, "name") {
		t := attr(n, "type")
		corporate := t == "corporate"
		if !corporate && t == "" && opts.UntypedNamesAsCorporate {
			corporate = firstNamePart(n) != ""
		}
		if !corporate {
			continue
		}
		if disp := DisplayName(n); disp != "" {
			out = append(out, disp)
		}
	}
	return Join(out)
}

func firstNamePart(name *modstree.Node) string {
	parts := each(name, "namePart")
	if len(parts) == 0 {
		return ""
	}
	return text(parts[0])
}

// personalNameNodes returns name entries typed "personal" or untyped.
func personalNameNodes(mods *modstree.Node) []*modstree.Node {
	var out []*modstree.Node
	for _, n := range each(mods, "name") {
		if t := attr(n, "type"); t == "" || t == "personal" {
			out = append(out, n)
		}
	}
	return out
}
