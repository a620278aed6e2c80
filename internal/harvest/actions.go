package harvest

import (
	"fmt"
	"os"

	"github.com/dtnitsch/librarycloud-harvester/internal/common"
	"github.com/dtnitsch/librarycloud-harvester/models"
	"github.com/dtnitsch/librarycloud-harvester/pkg/assembler"
	"github.com/dtnitsch/librarycloud-harvester/pkg/caching"
	"github.com/dtnitsch/librarycloud-harvester/pkg/db"
	"github.com/dtnitsch/librarycloud-harvester/pkg/detector"
	"github.com/dtnitsch/librarycloud-harvester/pkg/extractors"
	"github.com/dtnitsch/librarycloud-harvester/pkg/fetcher"
	"github.com/dtnitsch/librarycloud-harvester/pkg/logger"
	"github.com/dtnitsch/librarycloud-harvester/pkg/manifest"
	"github.com/dtnitsch/librarycloud-harvester/pkg/storage"
	"github.com/urfave/cli/v2"
)

// minLanguageConfidence is the lowest lingua confidence accepted for a title.
const minLanguageConfidence = 0.5

func HarvestAction(c *cli.Context) error {
	log, err := common.NewLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	src, err := newFetcher(cfg, log)
	if err != nil {
		return err
	}

	res, err := Run(c.Context, log, cfg, src, newAssembler(cfg, log))
	if err != nil {
		return fmt.Errorf("harvest failed: %w", err)
	}
	s := res.Session

	store := &storage.Storage{}
	if err := store.SaveCSV(cfg.Output, s.Header(), s.Records()); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.Output, err)
	}
	if stats, err := store.GetFileStats(cfg.Output); err == nil {
		log.Debug("CSV written",
			logger.String("path", cfg.Output),
			logger.Int64("size_bytes", stats.SizeBytes),
			logger.Int("columns", len(s.Header())),
		)
	}

	if cfg.Manifest {
		path, err := manifest.GenerateSummary(manifest.HarvestInfo{
			Query:    cfg.Query,
			BaseURL:  cfg.BaseURL,
			Output:   cfg.Output,
			NumFound: res.NumFound,
			Pages:    res.Pages,
			Elapsed:  res.Elapsed,
		}, s, store)
		if err != nil {
			return err
		}
		log.Info("Manifest written", logger.String("path", path))
	}

	if cfg.DBPath != "" {
		if err := saveHarvest(cfg, res, log); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stdout, "Wrote %d rows to %s\n", s.Len(), cfg.Output)
	return nil
}

func newFetcher(cfg *models.HarvestConfig, log logger.Logger) (*fetcher.Fetcher, error) {
	opts := fetcher.Options{
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
		Retries:   cfg.Retries,
		Logger:    log,
	}
	if cfg.CacheDir != "" {
		cache, err := caching.NewCache(cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		opts.Cache = cache
	}
	return fetcher.NewFetcher(opts), nil
}

func newAssembler(cfg *models.HarvestConfig, log logger.Logger) *assembler.Assembler {
	options := []assembler.Option{
		assembler.WithLogger(log),
		assembler.WithExtractorOptions(extractors.Options{
			UntypedNamesAsCorporate: cfg.UntypedNamesAsCorporate,
		}),
	}
	if cfg.DetectLanguage {
		options = append(options, assembler.WithLanguageDetector(detector.New(minLanguageConfidence)))
	}
	return assembler.New(options...)
}

func saveHarvest(cfg *models.HarvestConfig, res *Result, log logger.Logger) error {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	id, err := database.SaveHarvest(db.Harvest{
		Query:      cfg.Query,
		BaseURL:    cfg.BaseURL,
		PageSize:   cfg.Limit(),
		MaxRecords: cfg.MaxRecords,
		NumFound:   res.NumFound,
		OutputPath: cfg.Output,
	}, res.Session)
	if err != nil {
		return fmt.Errorf("failed to save harvest: %w", err)
	}
	log.Info("Harvest saved", logger.Int64("harvest_id", id), logger.String("db", database.Path()))
	return nil
}
