package parser

import (
	"bufio"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/librarycloud-harvester/models"
	"github.com/dtnitsch/librarycloud-harvester/pkg/modstree"
)

// ErrNoResults is returned when a response body has no results envelope.
var ErrNoResults = errors.New("response has no results element")

// ParsePage reads a LibraryCloud items response:
//
//	<results>
//	  <pagination><start/><limit/><numFound/></pagination>
//	  <items><mods:mods>...</mods:mods>...</items>
//	</results>
//
// The returned records are namespace-normalized MODS trees.
func ParsePage(data []byte) (*models.Page, error) {
	doc, err := modstree.Parse(data)
	if err != nil {
		return nil, err
	}
	results := modstree.Get(modstree.Normalize(doc), "results")
	if results == nil {
		return nil, ErrNoResults
	}

	page := &models.Page{
		Pagination: models.Pagination{
			Start:    modstree.Int(results, 0, "pagination", "start"),
			Limit:    modstree.Int(results, 10, "pagination", "limit"),
			NumFound: modstree.Int(results, 0, "pagination", "numFound"),
		},
	}
	items := modstree.Get(results, "items")
	for _, mods := range modstree.AsSequence(modstree.Get(items, "mods")) {
		if mods != nil {
			page.Records = append(page.Records, mods)
		}
	}
	return page, nil
}

// markupSelector lists the inline HTML elements catalogers embed in MODS text.
const markupSelector = "a, b, br, div, em, i, li, p, span, strong, sub, sup, u, ul"

// CleanText strips HTML markup from s and collapses the whitespace. A '<'
// that does not open one of the elements in markupSelector is literal text,
// as in "<pt. 2>", and s is then only trimmed.
func CleanText(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil || doc.Find(markupSelector).Length() == 0 {
		return strings.TrimSpace(s)
	}
	return normalizeText(doc.Text())
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.Join(strings.Fields(scanner.Text()), " ")
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}
