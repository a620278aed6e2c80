package db

import (
	"path/filepath"
	"testing"

	"github.com/dtnitsch/librarycloud-harvester/models"
	"github.com/dtnitsch/librarycloud-harvester/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	require.NoError(t, err, "failed to create test database")
	require.NoError(t, database.InitSchema(), "failed to initialize schema")
	t.Cleanup(func() { _ = database.Close() })

	return database
}

func testRow(hollis, title string, notes ...string) *models.Row {
	r := models.NewRow()
	r.Set(models.ColHollisNumber, hollis)
	r.Set(models.ColIdentifier, hollis)
	r.Set(models.ColTitle, title)
	r.Notes = notes
	return r
}

func TestSaveHarvest_RoundTrip(t *testing.T) {
	db := setupTestDB(t)

	s := session.New(0)
	s.Accept(testRow("990000000000000001", "Moby Dick", "general: first edition"))
	s.Accept(testRow("990000000000000002", "Typee"))
	s.Accept(testRow("990000000000000001", "Moby Dick again"))

	id, err := db.SaveHarvest(Harvest{
		Query:      "melville",
		BaseURL:    models.DefaultBaseURL,
		PageSize:   50,
		MaxRecords: 100,
		NumFound:   3,
		OutputPath: "out.csv",
	}, s)
	require.NoError(t, err)
	require.NotZero(t, id)

	h, err := db.GetHarvest(id)
	require.NoError(t, err)
	assert.Equal(t, "melville", h.Query)
	assert.Equal(t, 2, h.RowCount)
	assert.Equal(t, 1, h.DuplicateCount)
	assert.Equal(t, 0, h.MaxTOCs)
	assert.Equal(t, 1, h.MaxNotes)
	assert.Equal(t, "out.csv", h.OutputPath)
	assert.False(t, h.CreatedAt.IsZero())

	rows, err := db.GetHarvestRows(id)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Moby Dick", rows[0].Get(models.ColTitle))
	assert.Equal(t, []string{"general: first edition"}, rows[0].Notes)
	assert.Equal(t, "Typee", rows[1].Get(models.ColTitle))
	assert.Equal(t, "", rows[1].Get(models.ColPublisher), "all base columns present after decode")
}

func TestListHarvests_NewestFirst(t *testing.T) {
	db := setupTestDB(t)

	for _, q := range []string{"first", "second", "third"} {
		_, err := db.SaveHarvest(Harvest{Query: q, BaseURL: "x", PageSize: 1, MaxRecords: 1}, session.New(0))
		require.NoError(t, err)
	}

	all, err := db.ListHarvests(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Query)

	limited, err := db.ListHarvests(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	latest, err := db.LatestHarvestID()
	require.NoError(t, err)
	assert.Equal(t, all[0].HarvestID, latest)
}

func TestGetHarvest_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetHarvest(42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = db.LatestHarvestID()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen_CreatesFileAndIsReopenable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harvests.db")

	db, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, db.Path())
	_, err = db.SaveHarvest(Harvest{Query: "q", BaseURL: "x", PageSize: 1, MaxRecords: 1}, session.New(0))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	list, err := db.ListHarvests(0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
