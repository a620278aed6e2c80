package manifest

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dtnitsch/librarycloud-harvester/models"
	"github.com/dtnitsch/librarycloud-harvester/pkg/mapreduce"
	"github.com/dtnitsch/librarycloud-harvester/pkg/session"
	"github.com/dtnitsch/librarycloud-harvester/pkg/storage"
)

// topN is how many terms each top_* list keeps.
const topN = 25

// HarvestInfo is the run-level data the session does not hold.
type HarvestInfo struct {
	Query    string
	BaseURL  string
	Output   string
	NumFound int
	Pages    int
	Elapsed  time.Duration
}

// Path returns the manifest path for a CSV output: items.csv -> items.manifest.json.
func Path(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".manifest.json"
}

// Build summarizes a finished harvest.
func Build(info HarvestInfo, s *session.Session) *HarvestManifest {
	rows := s.Rows()
	return &HarvestManifest{
		GeneratedAt:      time.Now().Format(time.RFC3339),
		Query:            info.Query,
		BaseURL:          info.BaseURL,
		Output:           info.Output,
		NumFound:         info.NumFound,
		Pages:            info.Pages,
		Rows:             s.Len(),
		Duplicates:       s.Duplicates(),
		ElapsedMS:        info.Elapsed.Milliseconds(),
		Columns:          s.Header(),
		TopKeywords:      mapreduce.TopTerms(mapreduce.Count(rows, models.ColKeyword), topN),
		TopLanguages:     mapreduce.TopTerms(mapreduce.Count(rows, models.ColLanguage), topN),
		TopResourceTypes: mapreduce.TopTerms(mapreduce.Count(rows, models.ColTypeOfResource), topN),
	}
}

// GenerateSummary builds the manifest and saves it next to info.Output.
// Returns the path to the generated manifest file.
func GenerateSummary(info HarvestInfo, s *session.Session, store *storage.Storage) (string, error) {
	manifestPath := Path(info.Output)
	manifestData, err := json.MarshalIndent(Build(info, s), "", "  ")
	if err != nil {
		return "", fmt.Errorf("error marshalling manifest: %w", err)
	}

	if err := store.SaveFile(manifestPath, manifestData); err != nil {
		return "", fmt.Errorf("error saving manifest: %w", err)
	}

	return manifestPath, nil
}
