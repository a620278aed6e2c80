package db

import (
	"errors"
	"fmt"
	"strconv"

	dbpkg "github.com/dtnitsch/librarycloud-harvester/pkg/db"
	"github.com/urfave/cli/v2"
)

// GetHarvestIDOrLatest returns the harvest ID from args, or the latest harvest if not provided
func GetHarvestIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	if c.NArg() == 0 {
		id, err := database.LatestHarvestID()
		if errors.Is(err, dbpkg.ErrNotFound) {
			return 0, fmt.Errorf("no harvests found. Run 'lch harvest --q \"...\" --db PATH' first")
		}
		return id, err
	}

	harvestID, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid harvest ID: %s", c.Args().First())
	}
	return harvestID, nil
}
