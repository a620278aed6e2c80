// Package mapreduce counts column values across harvested rows.
package mapreduce

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dtnitsch/librarycloud-harvester/models"
	"github.com/dtnitsch/librarycloud-harvester/pkg/extractors"
)

// Map counts the terms of one column of a single row. Multi-valued columns
// are split on extractors.Separator.
func Map(row *models.Row, col string) map[string]int {
	counts := make(map[string]int)
	for _, term := range strings.Split(row.Get(col), extractors.Separator) {
		if term = strings.TrimSpace(term); term != "" {
			counts[term]++
		}
	}
	return counts
}

// Reduce aggregates a slice of term frequency maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for term, count := range counts {
			finalResults[term] += count
		}
	}

	return finalResults
}

// Count runs Map over every row and reduces the result.
func Count(rows []*models.Row, col string) map[string]int {
	intermediate := make([]map[string]int, 0, len(rows))
	for _, r := range rows {
		intermediate = append(intermediate, Map(r, col))
	}
	return Reduce(intermediate)
}

// TopTerms returns the top N terms as "term:count" strings, most frequent
// first, ties broken alphabetically.
func TopTerms(counts map[string]int, n int) []string {
	type kv struct {
		Key   string
		Value int
	}

	ss := make([]kv, 0, len(counts))
	for k, v := range counts {
		ss = append(ss, kv{k, v})
	}
	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Value != ss[j].Value {
			return ss[i].Value > ss[j].Value
		}
		return ss[i].Key < ss[j].Key
	})

	limit := min(max(n, 0), len(ss))
	terms := make([]string, limit)
	for i := 0; i < limit; i++ {
		terms[i] = fmt.Sprintf("%s:%d", ss[i].Key, ss[i].Value)
	}
	return terms
}
