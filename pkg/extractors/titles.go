package extractors

import (
	"strings"

	"github.com/dtnitsch/librarycloud-harvester/pkg/modstree"
)

var variantTitleTypes = map[string]bool{
	"alternative": true,
	"translated":  true,
	"uniform":     true,
	"abbreviated": true,
}

// Title returns the first main title: a titleInfo with no type or type
// "translated" that has title text.
func Title(mods *modstree.Node) string {
	for _, ti := range each(mods, "titleInfo") {
		t := attr(ti, "type")
		if t != "" && t != "translated" {
			continue
		}
		if text(ti, "title") == "" {
			continue
		}
		return composeTitle(ti)
	}
	return ""
}

// VariantTitles joins every alternative, translated, uniform or abbreviated title.
func VariantTitles(mods *modstree.Node) string {
	var out []string
	for _, ti := range each(mods, "titleInfo") {
		if !variantTitleTypes[attr(ti, "type")] {
			continue
		}
		if full := composeTitle(ti); full != "" {
			out = append(out, full)
		}
	}
	return Join(out)
}

// composeTitle renders "[nonSort ]title[: subTitle]".
func composeTitle(ti *modstree.Node) string {
	parts := make([]string, 0, 2)
	for _, s := range []string{text(ti, "nonSort"), text(ti, "title")} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	full := strings.Join(parts, " ")
	if sub := text(ti, "subTitle"); sub != "" {
		full += ": " + sub
	}
	return strings.TrimSpace(full)
}
