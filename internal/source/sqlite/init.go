package sqlite

import (
	"log/slog"

	"github.com/leapstack-labs/tbcheck/internal/source"
)

func init() {
	source.Register("sqlite", func(logger *slog.Logger) source.Source { return New(logger) })
}
