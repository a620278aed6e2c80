package extractors

import (
	"strings"

	"github.com/dtnitsch/librarycloud-harvester/pkg/modstree"
)

// hollisMarker identifies the relatedItem that points at the catalog record.
const hollisMarker = "hollis"

// RepositoryAndCallNumber reads location groups: physicalLocation values
// become the repository, shelfLocator values the call number.
func RepositoryAndCallNumber(mods *modstree.Node) (repository, callNumber string) {
	var repos, calls []string
	for _, loc := range each(mods, "location") {
		if direct := text(loc, "physicalLocation"); direct != "" {
			repos = append(repos, direct)
		}
		repos = append(repos, texts([]*modstree.Node{loc}, "physicalLocation")...)

		calls = append(calls, texts([]*modstree.Node{loc}, "shelfLocator")...)
		for _, hs := range each(loc, "holdingSimple") {
			calls = append(calls, texts(each(hs, "copyInformation"), "shelfLocator")...)
		}
	}
	return Join(repos), Join(calls)
}

// Permalink prefers the catalog relatedItem URL, then the first location URL.
func Permalink(mods *modstree.Node) string {
	return permalinkChain.Resolve(mods)
}

var permalinkChain = Chain{
	permalinkFromCatalogRelatedItem,
	permalinkFromLocation,
}

func permalinkFromCatalogRelatedItem(mods *modstree.Node) (string, bool) {
	for _, rel := range each(mods, "relatedItem") {
		if !strings.Contains(attr(rel, "otherType"), hollisMarker) {
			continue
		}
		if u := text(rel, "location", "url"); u != "" {
			return u, true
		}
	}
	return "", false
}

func permalinkFromLocation(mods *modstree.Node) (string, bool) {
	for _, loc := range each(mods, "location") {
		for _, u := range each(loc, "url") {
			if s := text(u); s != "" {
				return s, true
			}
		}
	}
	return "", false
}
