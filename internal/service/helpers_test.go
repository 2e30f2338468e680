package service_test

import (
	"testing"
	"time"

	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/database"
	"Pulseboard/internal/pkg/extractor"
	"Pulseboard/internal/pkg/period"
	"Pulseboard/internal/repository"
	"Pulseboard/internal/service"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var today = model.NewDate(2024, time.August, 15)

type fixture struct {
	repo     repository.MetricsRepo
	resolver service.WorkspaceResolver
	metrics  service.MetricsService
	entries  service.EntryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.NewGormDB(database.MemoryConfig(t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	repo := repository.NewMetricsRepository(db)
	resolver := service.NewWorkspaceResolver(repo)
	metrics := service.NewMetricsService(repo, resolver, period.FixedClock(today))
	return &fixture{
		repo:     repo,
		resolver: resolver,
		metrics:  metrics,
		entries:  service.NewEntryService(repo, metrics, service.NewChangeLogService(nil), nil),
	}
}

func (f *fixture) ingest(notifier service.IngestNotifier, atomic bool) service.IngestService {
	return service.NewIngestService(
		f.repo, f.resolver, f.metrics, service.NewChangeLogService(nil), notifier,
		period.FixedClock(today), service.IngestOptions{Atomic: atomic},
	)
}

type sheet struct {
	name string
	rows [][]any
}

func workbook(t *testing.T, sheets ...sheet) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(s.name, cell, &row))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func followersFile(t *testing.T) []byte {
	return workbook(t, sheet{name: extractor.SheetFollowers, rows: [][]any{
		{"Date", "Total followers"},
		{"2024-01-01", 100},
		{"2024-01-15", 150},
		{"2024-08-01", 10},
	}})
}

func visitorsFile(t *testing.T) []byte {
	return workbook(t, sheet{name: extractor.SheetVisitors, rows: [][]any{
		{"Date", "Total unique visitors (total)", "Total page views (total)"},
		{"2024-07-01", 20, 40},
		{"2024-08-02", 5, 9},
	}})
}

func contentFile(t *testing.T, withPosts bool) []byte {
	sheets := []sheet{{name: extractor.SheetContent, rows: [][]any{
		{"Aggregated metrics"},
		{"Date", "Unique impressions (organic)", "Clicks (total)", "Reactions (total)", "Reposts (total)", "Engagement rate (total)"},
		{"2024-06-30", 1000, 10, 20, 1, 0.5},
		{"2024-08-03", 300, 3, 6, 2, 0.1},
	}}}
	if withPosts {
		sheets = append(sheets, sheet{name: extractor.SheetPosts, rows: [][]any{
			{"All posts"},
			{"Post title", "Post link", "Created date", "Impressions", "Clicks", "Click through rate (CTR)", "Likes", "Comments", "Reposts", "Follows", "Engagement rate"},
			{"Launch", "https://example.com/1", "2024-08-03", 500, 25, 0.05, 40, 3, 2, 1, 0.14},
		}})
	}
	return workbook(t, sheets...)
}
