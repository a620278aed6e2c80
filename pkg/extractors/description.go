package extractors

import (
	"strings"

	"github.com/dtnitsch/librarycloud-harvester/pkg/modstree"
)

var (
	physicalDescriptionKeys = []string{"extent", "form", "note", "internetMediaType"}
	subjectKeys             = []string{"topic", "geographic", "temporal", "genre"}
)

// Language joins language/languageTerm values.
func Language(mods *modstree.Node) string {
	return Join(texts(each(mods, "language"), "languageTerm"))
}

// TypeOfResource joins typeOfResource values.
func TypeOfResource(mods *modstree.Node) string {
	return Join(texts([]*modstree.Node{mods}, "typeOfResource"))
}

// PhysicalDescription joins extent, form, note and media type values.
func PhysicalDescription(mods *modstree.Node) string {
	return Join(texts(each(mods, "physicalDescription"), physicalDescriptionKeys...))
}

// Keywords joins subject terms: topics, places, periods and genres first, then
// the nameParts of names used as subjects.
func Keywords(mods *modstree.Node) string {
	var kw []string
	for _, subj := range each(mods, "subject") {
		kw = append(kw, texts([]*modstree.Node{subj}, subjectKeys...)...)
		kw = append(kw, texts(each(subj, "name"), "namePart")...)
	}
	return Join(kw)
}

// TableOfContents returns every tableOfContents text in order, unjoined.
func TableOfContents(mods *modstree.Node) []string {
	return texts([]*modstree.Node{mods}, "tableOfContents")
}

// Notes returns every note in order, unjoined, as "type: text" when typed.
func Notes(mods *modstree.Node) []string {
	var out []string
	for _, note := range each(mods, "note") {
		s := text(note)
		if s == "" {
			continue
		}
		if t := strings.TrimSpace(modstree.Attr(note, "type")); t != "" {
			s = t + ": " + s
		}
		out = append(out, s)
	}
	return out
}
