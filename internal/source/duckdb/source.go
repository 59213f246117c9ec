// Package duckdb reads sheets through DuckDB: either tables of a DuckDB
// database file, or sheet files (CSV by default) in a directory, one file
// per sheet, via read_csv_auto.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/tbcheck/internal/source"
	"github.com/leapstack-labs/tbcheck/pkg/table"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Source implements source.Source for DuckDB.
type Source struct {
	source.BaseSQLSource
	params Params
}

// New creates a new DuckDB source instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Source{
		BaseSQLSource: source.BaseSQLSource{Logger: logger},
		params:        Params{Extension: ".csv"},
	}
}

// Connect opens DuckDB. With cfg.Dir set, sheets are read from files in
// that directory; otherwise from tables in the database at cfg.Path
// (in-memory when empty).
func (s *Source) Connect(ctx context.Context, cfg source.Config) error {
	params, err := DecodeParams(cfg.Params)
	if err != nil {
		return err
	}

	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	s.Logger.Debug("connecting to duckdb", slog.String("path", path), slog.String("dir", cfg.Dir))

	db, err := sql.Open("duckdb", dsn(path))
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	s.DB = db
	s.Cfg = cfg
	s.params = params

	keys := make([]string, 0, len(params.Settings))
	for k := range params.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		stmt := fmt.Sprintf("SET %s = %s", k, source.QuoteLiteral(params.Settings[k]))
		if err := s.Exec(ctx, stmt); err != nil {
			_ = s.Close()
			return fmt.Errorf("failed to apply setting %s: %w", k, err)
		}
	}
	return nil
}

func dsn(path string) string {
	if path == ":memory:" {
		return ""
	}
	return path
}

// ReadTable reads a sheet.
func (s *Source) ReadTable(ctx context.Context, sheet string) (*table.Table, error) {
	query, err := s.sheetQuery(sheet)
	if err != nil {
		return nil, err
	}
	return s.ReadQuery(ctx, sheet, query)
}

// SheetPath returns the file a sheet is read from in a directory source.
func (s *Source) SheetPath(sheet string) string {
	return filepath.Join(s.Cfg.Dir, sheet+s.params.Extension)
}

func (s *Source) sheetQuery(sheet string) (string, error) {
	if s.Cfg.Dir == "" {
		return "SELECT * FROM " + source.QuoteIdent(sheet), nil
	}
	abs, err := filepath.Abs(s.SheetPath(sheet))
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return csvQuery(abs, s.params), nil
}

// csvQuery builds the read_csv_auto query for one sheet file.
func csvQuery(path string, p Params) string {
	opts := []string{"header=true"}
	if p.AllVarchar {
		opts = append(opts, "all_varchar=true")
	}
	if p.Delimiter != "" {
		opts = append(opts, "delim="+source.QuoteLiteral(p.Delimiter))
	}
	return fmt.Sprintf("SELECT * FROM read_csv_auto(%s, %s)",
		source.QuoteLiteral(path), strings.Join(opts, ", "))
}

// Ensure Source implements source.Source interface
var _ source.Source = (*Source)(nil)
