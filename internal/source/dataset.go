package source

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/table"
)

// DefaultSheets returns the sheet name each input table is read from.
func DefaultSheets() map[schema.TableName]string {
	return map[schema.TableName]string{
		schema.ServicePoint: "Service Point",
		schema.Screening:    "Screening",
		schema.Patient:      "Patient data",
		schema.Visit:        "Visit data",
		schema.Dropdown:     "Dropdown",
	}
}

// LoadDataset reads every required table concurrently. Tables without an
// entry in sheets fall back to DefaultSheets. The first read error cancels
// the remaining reads and is returned.
func LoadDataset(ctx context.Context, src Source, sheets map[schema.TableName]string, logger *slog.Logger) (map[schema.TableName]*table.Table, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	defaults := DefaultSheets()

	var mu sync.Mutex
	out := make(map[schema.TableName]*table.Table, len(schema.RequiredTables))

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range schema.RequiredTables {
		sheet := sheets[name]
		if sheet == "" {
			sheet = defaults[name]
		}
		g.Go(func() error {
			t, err := src.ReadTable(gctx, sheet)
			if err != nil {
				return fmt.Errorf("load %s sheet %q: %w", name.Label(), sheet, err)
			}
			logger.Debug("loaded sheet",
				slog.String("table", string(name)),
				slog.String("sheet", sheet),
				slog.Int("rows", t.Len()))

			mu.Lock()
			out[name] = t
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
