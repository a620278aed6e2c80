package db

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/librarycloud-harvester/internal/common"
	dbpkg "github.com/dtnitsch/librarycloud-harvester/pkg/db"
	"github.com/dtnitsch/librarycloud-harvester/pkg/logger"
	"github.com/dtnitsch/librarycloud-harvester/pkg/session"
	"github.com/dtnitsch/librarycloud-harvester/pkg/storage"
	"github.com/urfave/cli/v2"
)

// HarvestsAction lists stored harvests, newest first.
func HarvestsAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	harvests, err := database.ListHarvests(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list harvests: %w", err)
	}

	w := c.App.Writer
	if len(harvests) == 0 {
		fmt.Fprintln(w, "No harvests found")
		return nil
	}

	fmt.Fprintf(w, "%-6s %-20s %-8s %-8s %-6s %-6s %-30s %s\n",
		"ID", "Created", "Found", "Rows", "TOCs", "Notes", "Query", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, h := range harvests {
		fmt.Fprintf(w, "%-6d %-20s %-8d %-8d %-6d %-6d %-30s %s\n",
			h.HarvestID,
			h.CreatedAt.Format("2006-01-02 15:04:05"),
			h.NumFound,
			h.RowCount,
			h.MaxTOCs,
			h.MaxNotes,
			truncate(h.Query, 30),
			h.OutputPath,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d harvests\n", len(harvests))
	fmt.Fprintf(w, "\nTip: Use 'lch export <id> --output FILE' to rewrite a harvest's CSV\n")
	return nil
}

// ExportAction rewrites the CSV of a stored harvest, the latest one when no
// ID is given.
func ExportAction(c *cli.Context) error {
	log, err := common.NewLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	harvestID, err := GetHarvestIDOrLatest(c, database)
	if err != nil {
		return err
	}
	h, err := database.GetHarvest(harvestID)
	if err != nil {
		return err
	}
	rows, err := database.GetHarvestRows(harvestID)
	if err != nil {
		return err
	}

	output := c.String("output")
	if output == "" {
		output = h.OutputPath
	}
	if output == "" {
		return fmt.Errorf("no output path: pass --output")
	}

	s := session.Restore(rows)
	store := &storage.Storage{}
	if err := store.SaveCSV(output, s.Header(), s.Records()); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	log.Info("Harvest exported",
		logger.Int64("harvest_id", harvestID),
		logger.String("query", h.Query),
		logger.Int("rows", s.Len()),
	)
	fmt.Fprintf(c.App.Writer, "Wrote %d rows to %s\n", s.Len(), output)
	return nil
}

func openDatabase(c *cli.Context) (*dbpkg.DB, error) {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return nil, err
	}
	database, err := dbpkg.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
