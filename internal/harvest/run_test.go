package harvest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dtnitsch/librarycloud-harvester/models"
	"github.com/dtnitsch/librarycloud-harvester/pkg/assembler"
	"github.com/dtnitsch/librarycloud-harvester/pkg/logger"
	"github.com/dtnitsch/librarycloud-harvester/pkg/modstree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct{ start, limit int }

// fakeSource serves pre-built pages keyed by start offset.
type fakeSource struct {
	numFound int
	pages    map[int][]string // start -> HOLLIS numbers
	cached   bool
	failAt   int
	calls    []call
}

func (f *fakeSource) GetPage(_ context.Context, _ string, start, limit int) (*models.Page, error) {
	f.calls = append(f.calls, call{start, limit})
	if f.failAt > 0 && start == f.failAt {
		return nil, errors.New("connection reset")
	}
	page := &models.Page{
		URL:        fmt.Sprintf("fake?start=%d", start),
		Pagination: models.Pagination{Start: start, Limit: limit, NumFound: f.numFound},
		FromCache:  f.cached,
	}
	for _, hollis := range f.pages[start] {
		page.Records = append(page.Records, record(hollis))
	}
	return page, nil
}

func record(hollis string) *modstree.Node {
	rid := modstree.NewMap().
		Set("@source", modstree.Scalar("MH:ALMA")).
		Set("#text", modstree.Scalar(hollis))
	return modstree.NewMap().
		Set("titleInfo", modstree.NewMap().Set("title", modstree.Scalar("Title "+hollis))).
		Set("recordInfo", modstree.NewMap().Set("recordIdentifier", rid))
}

func testConfig(pageSize, maxRecords int) *models.HarvestConfig {
	cfg := models.DefaultConfig()
	cfg.Query = "melville"
	cfg.PageSize = pageSize
	cfg.MaxRecords = maxRecords
	cfg.Delay = 0
	return cfg
}

func hollisNumbers(res *Result) []string {
	var out []string
	for _, r := range res.Session.Rows() {
		out = append(out, r.Get(models.ColHollisNumber))
	}
	return out
}

func TestRun_TwoPagesWithDuplicate(t *testing.T) {
	src := &fakeSource{
		numFound: 4,
		pages: map[int][]string{
			0: {"A", "B"},
			2: {"B", "C"},
		},
	}

	res, err := Run(context.Background(), logger.NewNop(), testConfig(2, 100), src, assembler.New())
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, hollisNumbers(res))
	assert.Equal(t, 1, res.Session.Duplicates())
	assert.Equal(t, 4, res.NumFound)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, []call{{0, 2}, {2, 2}}, src.calls)
}

func TestRun_StopsAtRecordCap(t *testing.T) {
	src := &fakeSource{
		numFound: 6,
		pages: map[int][]string{
			0: {"A", "B", "C"},
			3: {"D", "E", "F"},
		},
	}

	res, err := Run(context.Background(), logger.NewNop(), testConfig(3, 2), src, assembler.New())
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, hollisNumbers(res))
	assert.Len(t, src.calls, 1, "no request after the cap is reached")
}

func TestRun_StopsOnEmptyPage(t *testing.T) {
	src := &fakeSource{
		numFound: 100,
		pages:    map[int][]string{0: {"A"}},
	}

	res, err := Run(context.Background(), logger.NewNop(), testConfig(1, 100), src, assembler.New())
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, hollisNumbers(res))
	assert.Equal(t, []call{{0, 1}, {1, 1}}, src.calls)
}

func TestRun_ClampsPageSize(t *testing.T) {
	src := &fakeSource{numFound: 0}

	_, err := Run(context.Background(), logger.NewNop(), testConfig(5000, 10), src, assembler.New())
	require.NoError(t, err)
	require.Len(t, src.calls, 1)
	assert.Equal(t, models.MaxPageSize, src.calls[0].limit)
}

func TestRun_FetchErrorAborts(t *testing.T) {
	src := &fakeSource{
		numFound: 10,
		pages:    map[int][]string{0: {"A", "B"}},
		failAt:   2,
	}

	res, err := Run(context.Background(), logger.NewNop(), testConfig(2, 100), src, assembler.New())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestRun_CancelledDuringDelay(t *testing.T) {
	src := &fakeSource{
		numFound: 10,
		pages:    map[int][]string{0: {"A"}, 1: {"B"}},
	}
	cfg := testConfig(1, 100)
	cfg.Delay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Run(ctx, logger.NewNop(), cfg, src, assembler.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, src.calls, 1)
}

func TestRun_CachedPagesSkipDelay(t *testing.T) {
	src := &fakeSource{
		numFound: 3,
		pages:    map[int][]string{0: {"A"}, 1: {"B"}, 2: {"C"}},
		cached:   true,
	}
	cfg := testConfig(1, 100)
	cfg.Delay = time.Hour

	res, err := Run(context.Background(), logger.NewNop(), cfg, src, assembler.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, hollisNumbers(res))
}
