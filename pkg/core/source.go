package core

import "database/sql"

// SourceConfig holds configuration for connecting to a data source that
// holds the program sheets.
type SourceConfig struct {
	Type string `koanf:"type"` // duckdb, sqlite, postgres

	// File-based sources
	Path string `koanf:"path"` // DuckDB/SQLite database file; ":memory:" allowed
	Dir  string `koanf:"dir"`  // directory of per-sheet CSV files (duckdb only)

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	Username string `koanf:"user"`
	Password string `koanf:"password"`

	// Source-specific
	Options map[string]string `koanf:"options"`
	Params  map[string]any    `koanf:"params"`
}

// Rows wraps sql.Rows to provide a consistent interface.
type Rows struct {
	*sql.Rows
}
