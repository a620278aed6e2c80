package extractors

import "github.com/dtnitsch/librarycloud-harvester/pkg/modstree"

var dateKinds = []string{"dateIssued", "dateCreated", "dateOther"}

// Publisher returns the first non-empty publisher across originInfo groups.
func Publisher(mods *modstree.Node) string {
	for _, oi := range each(mods, "originInfo") {
		for _, p := range each(oi, "publisher") {
			if s := text(p); s != "" {
				return s
			}
		}
	}
	return ""
}

// Place joins place names. A place whose placeTerm resolves directly to text
// contributes that text; otherwise each placeTerm variant (code, text) is tried.
func Place(mods *modstree.Node) string {
	var out []string
	for _, oi := range each(mods, "originInfo") {
		for _, pl := range each(oi, "place") {
			if direct := text(pl, "placeTerm"); direct != "" {
				out = append(out, direct)
				continue
			}
			out = append(out, texts([]*modstree.Node{pl}, "placeTerm")...)
		}
	}
	return Join(out)
}

// Date joins issued, created and other dates, in that order per originInfo.
func Date(mods *modstree.Node) string {
	return Join(texts(each(mods, "originInfo"), dateKinds...))
}
