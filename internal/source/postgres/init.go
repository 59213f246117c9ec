package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/tbcheck/internal/source"
)

func init() {
	source.Register("postgres", func(logger *slog.Logger) source.Source { return New(logger) })
}
