// Package source reads workbook sheets from a database or a directory of
// sheet files and materializes them as tables.
//
// Concrete sources live in subpackages and register themselves from init().
// Import them with a blank identifier to make them available:
//
//	import _ "github.com/leapstack-labs/tbcheck/internal/source/duckdb"
package source

import (
	"context"

	"github.com/leapstack-labs/tbcheck/pkg/core"
	"github.com/leapstack-labs/tbcheck/pkg/table"
)

// Config is the connection configuration handed to a source.
type Config = core.SourceConfig

// Source defines the interface every data source implements.
type Source interface {
	// Connect opens the source using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close releases the source's resources.
	Close() error

	// ReadTable reads one sheet into a table named after the sheet.
	ReadTable(ctx context.Context, sheet string) (*table.Table, error)
}
