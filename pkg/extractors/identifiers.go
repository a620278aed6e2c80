package extractors

import (
	"regexp"
	"strings"

	"github.com/dtnitsch/librarycloud-harvester/pkg/modstree"
)

const (
	// hollisPrefix starts every Alma-era HOLLIS record number.
	hollisPrefix = "99"
	// almaSource appears in the source attribute of Alma record identifiers.
	almaSource = "alma"
)

// hollisDigits matches a run of at least 16 digits starting with 99.
var hollisDigits = regexp.MustCompile(`99\d{14,}`)

// FindHollisDigits returns the first HOLLIS-like digit run in s.
func FindHollisDigits(s string) (string, bool) {
	m := hollisDigits.FindString(s)
	return m, m != ""
}

// HollisNumber resolves the catalog record number: the record-info
// identifier first, then related-item URLs, then the original document
// reference in the LibraryCloud extension. The first step that succeeds wins.
func HollisNumber(mods *modstree.Node) string {
	return hollisChain.Resolve(mods)
}

var hollisChain = Chain{
	HollisFromRecordInfo,
	HollisFromRelatedItems,
	HollisFromOriginalDocument,
}

// HollisFromRecordInfo accepts a recordIdentifier whose source mentions Alma
// or whose text starts with the HOLLIS prefix.
func HollisFromRecordInfo(mods *modstree.Node) (string, bool) {
	for _, ri := range each(mods, "recordInfo") {
		for _, rid := range each(ri, "recordIdentifier") {
			s := text(rid)
			if s == "" {
				continue
			}
			if strings.Contains(attr(rid, "source"), almaSource) || strings.HasPrefix(s, hollisPrefix) {
				return s, true
			}
		}
	}
	return "", false
}

// HollisFromRelatedItems scans relatedItem/location/url for a HOLLIS number.
func HollisFromRelatedItems(mods *modstree.Node) (string, bool) {
	for _, rel := range each(mods, "relatedItem") {
		if d, ok := FindHollisDigits(text(rel, "location", "url")); ok {
			return d, true
		}
	}
	return "", false
}

// HollisFromOriginalDocument scans extension/librarycloud/originalDocument.
func HollisFromOriginalDocument(mods *modstree.Node) (string, bool) {
	for _, ext := range each(mods, "extension") {
		if d, ok := FindHollisDigits(text(ext, "librarycloud", "originalDocument")); ok {
			return d, true
		}
	}
	return "", false
}

// Identifier returns the first non-empty identifier, else the HOLLIS number.
func Identifier(mods *modstree.Node) string {
	return Chain{
		firstNonEmpty(firstIdentifier),
		firstNonEmpty(HollisNumber),
	}.Resolve(mods)
}

func firstIdentifier(mods *modstree.Node) string {
	for _, id := range each(mods, "identifier") {
		if s := text(id); s != "" {
			return s
		}
	}
	return ""
}

// IssueNumber joins identifiers typed "issue number".
func IssueNumber(mods *modstree.Node) string {
	var out []string
	for _, id := range each(mods, "identifier") {
		if attr(id, "type") != "issue number" {
			continue
		}
		if s := text(id); s != "" {
			out = append(out, s)
		}
	}
	return Join(out)
}
