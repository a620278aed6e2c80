package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dtnitsch/librarycloud-harvester/models"
	"github.com/dtnitsch/librarycloud-harvester/pkg/session"
)

// ErrNotFound is returned when a harvest does not exist.
var ErrNotFound = errors.New("harvest not found")

// Harvest is one completed harvest run.
type Harvest struct {
	HarvestID      int64
	CreatedAt      time.Time
	Query          string
	BaseURL        string
	PageSize       int
	MaxRecords     int
	NumFound       int
	RowCount       int
	DuplicateCount int
	MaxTOCs        int
	MaxNotes       int
	OutputPath     string
}

// SaveHarvest stores a harvest and its accepted rows in a single transaction,
// returning the new harvest_id. RowCount and the maxima are taken from s.
func (db *DB) SaveHarvest(h Harvest, s *session.Session) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after Commit

	result, err := tx.Exec(`
		INSERT INTO harvests (query, base_url, page_size, max_records, num_found,
		                      row_count, duplicate_count, max_tocs, max_notes, output_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, h.Query, h.BaseURL, h.PageSize, h.MaxRecords, h.NumFound,
		s.Len(), s.Duplicates(), s.MaxTOCs(), s.MaxNotes(), h.OutputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to insert harvest: %w", err)
	}
	harvestID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get harvest ID: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO harvest_rows (harvest_id, position, dedup_key, hollis_number, row_json)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, row := range s.Rows() {
		data, err := json.Marshal(row)
		if err != nil {
			return 0, fmt.Errorf("failed to encode row %d: %w", i, err)
		}
		if _, err := stmt.Exec(harvestID, i, session.DedupKey(row), row.Get(models.ColHollisNumber), string(data)); err != nil {
			return 0, fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return harvestID, nil
}

const harvestColumns = `harvest_id, created_at, query, base_url, page_size, max_records,
	num_found, row_count, duplicate_count, max_tocs, max_notes, COALESCE(output_path, '')`

type scanner interface {
	Scan(dest ...any) error
}

func scanHarvest(sc scanner) (Harvest, error) {
	var h Harvest
	err := sc.Scan(&h.HarvestID, &h.CreatedAt, &h.Query, &h.BaseURL, &h.PageSize, &h.MaxRecords,
		&h.NumFound, &h.RowCount, &h.DuplicateCount, &h.MaxTOCs, &h.MaxNotes, &h.OutputPath)
	return h, err
}

// ListHarvests returns the most recent harvests first. A limit of zero lists all.
func (db *DB) ListHarvests(limit int) ([]Harvest, error) {
	query := `SELECT ` + harvestColumns + ` FROM harvests ORDER BY harvest_id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list harvests: %w", err)
	}
	defer rows.Close()

	var harvests []Harvest
	for rows.Next() {
		h, err := scanHarvest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan harvest: %w", err)
		}
		harvests = append(harvests, h)
	}
	return harvests, rows.Err()
}

// GetHarvest returns one harvest by ID.
func (db *DB) GetHarvest(harvestID int64) (*Harvest, error) {
	row := db.QueryRow(`SELECT `+harvestColumns+` FROM harvests WHERE harvest_id = ?`, harvestID)
	h, err := scanHarvest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("harvest %d: %w", harvestID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get harvest: %w", err)
	}
	return &h, nil
}

// LatestHarvestID returns the most recently stored harvest.
func (db *DB) LatestHarvestID() (int64, error) {
	var id int64
	err := db.QueryRow(`SELECT harvest_id FROM harvests ORDER BY harvest_id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get latest harvest: %w", err)
	}
	return id, nil
}

// GetHarvestRows returns a harvest's rows in their original order.
func (db *DB) GetHarvestRows(harvestID int64) ([]*models.Row, error) {
	rows, err := db.Query(`
		SELECT row_json FROM harvest_rows
		WHERE harvest_id = ?
		ORDER BY position
	`, harvestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get harvest rows: %w", err)
	}
	defer rows.Close()

	var out []*models.Row
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan harvest row: %w", err)
		}
		row := models.NewRow()
		if err := json.Unmarshal([]byte(data), row); err != nil {
			return nil, fmt.Errorf("failed to decode harvest row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
