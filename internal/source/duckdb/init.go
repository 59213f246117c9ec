package duckdb

import (
	"log/slog"

	"github.com/leapstack-labs/tbcheck/internal/source"
)

func init() {
	source.Register("duckdb", func(logger *slog.Logger) source.Source { return New(logger) })
}
