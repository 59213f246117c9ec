// Package sqlite reads sheets from tables of a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/go-viper/mapstructure/v2"

	"github.com/leapstack-labs/tbcheck/internal/source"
	"github.com/leapstack-labs/tbcheck/pkg/table"

	_ "modernc.org/sqlite" // sqlite driver
)

// Params holds SQLite-specific configuration.
type Params struct {
	// Pragmas run after connecting, e.g. "busy_timeout = 5000"
	Pragmas []string `mapstructure:"pragmas"`
}

// Source implements source.Source for SQLite.
type Source struct {
	source.BaseSQLSource
}

// New creates a new SQLite source instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Source{BaseSQLSource: source.BaseSQLSource{Logger: logger}}
}

// Connect opens the database file read-only.
func (s *Source) Connect(ctx context.Context, cfg source.Config) error {
	var params Params
	if err := mapstructure.Decode(cfg.Params, &params); err != nil {
		return fmt.Errorf("invalid sqlite params: %w", err)
	}
	if cfg.Path == "" {
		return fmt.Errorf("sqlite source requires a path")
	}

	s.Logger.Debug("connecting to sqlite", slog.String("path", cfg.Path))

	db, err := sql.Open("sqlite", cfg.Path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open sqlite connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	s.DB = db
	s.Cfg = cfg
	for _, p := range params.Pragmas {
		if err := s.Exec(ctx, "PRAGMA "+p); err != nil {
			_ = s.Close()
			return fmt.Errorf("failed to apply pragma %q: %w", p, err)
		}
	}
	return nil
}

// ReadTable reads the table named after the sheet.
func (s *Source) ReadTable(ctx context.Context, sheet string) (*table.Table, error) {
	return s.ReadQuery(ctx, sheet, "SELECT * FROM "+source.QuoteIdent(sheet))
}

// Ensure Source implements source.Source interface
var _ source.Source = (*Source)(nil)
