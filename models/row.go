package models

import "strconv"

// Column names of the fixed part of the output.
const (
	ColIdentifier          = "identifier"
	ColHollisNumber        = "hollis_number"
	ColTitle               = "title"
	ColVariantTitle        = "variant_title"
	ColCreator             = "creator"
	ColName1               = "name1"
	ColName2               = "name2"
	ColName3               = "name3"
	ColNamesOther          = "names_other"
	ColCorporateName       = "corporate_name"
	ColPublisher           = "publisher"
	ColPlace               = "place"
	ColDate                = "date"
	ColLanguage            = "language"
	ColTypeOfResource      = "type_of_resource"
	ColPhysicalDescription = "physical_description"
	ColKeyword             = "keyword"
	ColRepository          = "repository"
	ColCallNumber          = "call_number"
	ColIssueNumber         = "issue_number"
	ColPermalink           = "permalink"
)

// BaseColumns is the fixed column order of every output file.
var BaseColumns = []string{
	ColIdentifier,
	ColHollisNumber,
	ColTitle,
	ColVariantTitle,
	ColCreator,
	ColName1,
	ColName2,
	ColName3,
	ColNamesOther,
	ColCorporateName,
	ColPublisher,
	ColPlace,
	ColDate,
	ColLanguage,
	ColTypeOfResource,
	ColPhysicalDescription,
	ColKeyword,
	ColRepository,
	ColCallNumber,
	ColIssueNumber,
	ColPermalink,
}

// Row is one flattened record. Fields is keyed by the BaseColumns names;
// TOCs and Notes are expanded into numbered columns at write time.
type Row struct {
	Fields map[string]string `json:"fields"`
	TOCs   []string          `json:"tocs,omitempty"`
	Notes  []string          `json:"notes,omitempty"`
}

// NewRow returns a row with every base column present and empty.
func NewRow() *Row {
	fields := make(map[string]string, len(BaseColumns))
	for _, c := range BaseColumns {
		fields[c] = ""
	}
	return &Row{Fields: fields}
}

// Get returns a column value, "" when unset.
func (r *Row) Get(col string) string {
	return r.Fields[col]
}

// Set stores a column value.
func (r *Row) Set(col, value string) {
	r.Fields[col] = value
}

// Header returns the base columns followed by toc1..tocN and note1..noteM.
func Header(maxTOCs, maxNotes int) []string {
	h := make([]string, 0, len(BaseColumns)+maxTOCs+maxNotes)
	h = append(h, BaseColumns...)
	for i := 1; i <= maxTOCs; i++ {
		h = append(h, "toc"+strconv.Itoa(i))
	}
	for i := 1; i <= maxNotes; i++ {
		h = append(h, "note"+strconv.Itoa(i))
	}
	return h
}

// Record lays the row out under Header(maxTOCs, maxNotes), padding unused
// toc/note slots with "".
func (r *Row) Record(maxTOCs, maxNotes int) []string {
	out := make([]string, 0, len(BaseColumns)+maxTOCs+maxNotes)
	for _, c := range BaseColumns {
		out = append(out, r.Fields[c])
	}
	out = append(out, padded(r.TOCs, maxTOCs)...)
	out = append(out, padded(r.Notes, maxNotes)...)
	return out
}

func padded(values []string, n int) []string {
	out := make([]string, n)
	copy(out, values)
	return out
}
