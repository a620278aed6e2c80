// Package session holds the state accumulated over one harvest: accepted rows,
// the keys already seen, and the widest table-of-contents and notes lists.
package session

import (
	"github.com/dtnitsch/librarycloud-harvester/models"
)

// Session is owned by a single harvest loop and is not safe for concurrent use.
type Session struct {
	limit    int
	rows     []*models.Row
	seen     map[string]struct{}
	maxTOCs  int
	maxNotes int
	dropped  int
}

// New returns an empty session that accepts at most limit rows.
// A limit below one means no cap.
func New(limit int) *Session {
	return &Session{
		limit: limit,
		seen:  make(map[string]struct{}),
	}
}

// DedupKey identifies a row: the HOLLIS number when present, otherwise the
// pair of generic identifier and permalink.
func DedupKey(row *models.Row) string {
	if h := row.Get(models.ColHollisNumber); h != "" {
		return "hollis:" + h
	}
	return "id:" + row.Get(models.ColIdentifier) + "\x1f" + row.Get(models.ColPermalink)
}

// Accept records row unless its key was already seen or the session is full.
// It reports whether the row was kept.
func (s *Session) Accept(row *models.Row) bool {
	if s.Full() {
		return false
	}
	key := DedupKey(row)
	if _, ok := s.seen[key]; ok {
		s.dropped++
		return false
	}
	s.seen[key] = struct{}{}
	s.rows = append(s.rows, row)
	s.maxTOCs = max(s.maxTOCs, len(row.TOCs))
	s.maxNotes = max(s.maxNotes, len(row.Notes))
	return true
}

// Full reports whether the record cap has been reached.
func (s *Session) Full() bool {
	return s.limit > 0 && len(s.rows) >= s.limit
}

// Len is the number of accepted rows.
func (s *Session) Len() int { return len(s.rows) }

// Duplicates is the number of rows dropped as already seen.
func (s *Session) Duplicates() int { return s.dropped }

// Rows returns the accepted rows in acceptance order.
func (s *Session) Rows() []*models.Row { return s.rows }

// MaxTOCs is the longest table-of-contents list among accepted rows.
func (s *Session) MaxTOCs() int { return s.maxTOCs }

// MaxNotes is the longest notes list among accepted rows.
func (s *Session) MaxNotes() int { return s.maxNotes }

// Header returns the output columns sized to this batch.
func (s *Session) Header() []string {
	return models.Header(s.maxTOCs, s.maxNotes)
}

// Records lays every accepted row out under Header.
func (s *Session) Records() [][]string {
	out := make([][]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.Record(s.maxTOCs, s.maxNotes)
	}
	return out
}

// Restore rebuilds a session from previously accepted rows, such as rows
// loaded from the harvest database.
func Restore(rows []*models.Row) *Session {
	s := New(0)
	for _, r := range rows {
		s.Accept(r)
	}
	return s
}
