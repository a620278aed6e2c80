package models

import "github.com/dtnitsch/librarycloud-harvester/pkg/modstree"

// Pagination is the paging block of a LibraryCloud results envelope.
type Pagination struct {
	Start    int `json:"start" yaml:"start"`
	Limit    int `json:"limit" yaml:"limit"`
	NumFound int `json:"numFound" yaml:"num_found"`
}

// Page is one parsed API response: pagination plus the normalized MODS
// records it carried, in response order.
type Page struct {
	URL        string
	Pagination Pagination
	Records    []*modstree.Node
	// FromCache is set when the response came from the local page cache.
	FromCache bool
}
