package harvest

import (
	"context"
	"fmt"
	"time"

	"github.com/dtnitsch/librarycloud-harvester/models"
	"github.com/dtnitsch/librarycloud-harvester/pkg/assembler"
	"github.com/dtnitsch/librarycloud-harvester/pkg/logger"
	"github.com/dtnitsch/librarycloud-harvester/pkg/session"
)

// PageSource returns one page of query results.
type PageSource interface {
	GetPage(ctx context.Context, query string, start, limit int) (*models.Page, error)
}

// Result is the outcome of a completed harvest loop.
type Result struct {
	Session  *session.Session
	NumFound int
	Pages    int
	Elapsed  time.Duration
}

// Run pages through the query until the record cap is reached, the start
// offset passes numFound from the first page, or a page comes back empty.
// Any fetch error aborts the run.
func Run(ctx context.Context, log logger.Logger, cfg *models.HarvestConfig, src PageSource, asm *assembler.Assembler) (*Result, error) {
	started := time.Now()
	limit := cfg.Limit()
	s := session.New(cfg.MaxRecords)
	res := &Result{Session: s}

	start := 0
	page, err := fetchPage(ctx, log, src, cfg.Query, start, limit)
	if err != nil {
		return nil, err
	}
	res.Pages++
	res.NumFound = page.Pagination.NumFound

	for {
		for _, mods := range page.Records {
			if s.Full() {
				break
			}
			asm.Add(s, mods)
		}
		if s.Full() {
			log.Debug("Record cap reached", logger.Int("max_records", cfg.MaxRecords))
			break
		}

		start += limit
		if start >= res.NumFound {
			log.Debug("Reached end of results", logger.Int("num_found", res.NumFound))
			break
		}

		if !page.FromCache {
			if err := sleep(ctx, cfg.Delay); err != nil {
				return nil, err
			}
		}

		page, err = fetchPage(ctx, log, src, cfg.Query, start, limit)
		if err != nil {
			return nil, err
		}
		res.Pages++
		if len(page.Records) == 0 {
			log.Debug("Empty page, stopping", logger.Int("start", start))
			break
		}
	}

	res.Elapsed = time.Since(started)
	log.Info("Harvest complete",
		logger.String("query", cfg.Query),
		logger.Int("num_found", res.NumFound),
		logger.Int("pages", res.Pages),
		logger.Int("rows", s.Len()),
		logger.Int("duplicates", s.Duplicates()),
		logger.Int("max_tocs", s.MaxTOCs()),
		logger.Int("max_notes", s.MaxNotes()),
		logger.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

func fetchPage(ctx context.Context, log logger.Logger, src PageSource, query string, start, limit int) (*models.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("harvest cancelled at start=%d: %w", start, err)
	}
	page, err := src.GetPage(ctx, query, start, limit)
	if err != nil {
		return nil, err
	}
	log.Info("Fetched page",
		logger.String("url", page.URL),
		logger.Int("start", start),
		logger.Int("limit", limit),
		logger.Int("items", len(page.Records)),
		logger.Bool("cached", page.FromCache),
	)
	return page, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("harvest cancelled: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}
