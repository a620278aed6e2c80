package manifest

// HarvestManifest represents the structure of the summary JSON file written
// next to a harvest's CSV. It gives a quick overview of what was collected
// without opening the CSV itself.
type HarvestManifest struct {
	GeneratedAt      string   `json:"generated_at"`
	Query            string   `json:"query"`
	BaseURL          string   `json:"base_url"`
	Output           string   `json:"output"`
	NumFound         int      `json:"num_found"`
	Pages            int      `json:"pages"`
	Rows             int      `json:"rows"`
	Duplicates       int      `json:"duplicates"`
	ElapsedMS        int64    `json:"elapsed_ms"`
	Columns          []string `json:"columns"`
	TopKeywords      []string `json:"top_keywords,omitempty"`
	TopLanguages     []string `json:"top_languages,omitempty"`
	TopResourceTypes []string `json:"top_resource_types,omitempty"`
}
