package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/tbcheck/internal/cli/output"
)

// Validate checks the configuration for values the loader cannot decode
// meaningfully. Source type availability is checked when the source is
// created, so that the error can list the registered sources.
func (c *Config) Validate() error {
	c.Source.Type = strings.ToLower(strings.TrimSpace(c.Source.Type))
	if c.Source.Type == "" {
		return fmt.Errorf("source.type is required")
	}
	if _, err := output.ParseMode(c.Output); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.Layout(); err != nil {
		return err
	}
	if _, err := c.SheetNames(); err != nil {
		return err
	}
	if _, err := c.Schema(); err != nil {
		return err
	}
	if _, err := c.RuleConfig(); err != nil {
		return err
	}
	return nil
}

// ValidateSource checks that the source has enough settings to connect.
func (c *Config) ValidateSource() error {
	s := c.Source
	switch s.Type {
	case "duckdb":
		if s.Dir == "" && s.Path == "" {
			return fmt.Errorf("source.dir or source.path is required for duckdb\nHint: Use --dir to point at a directory of sheet CSV files")
		}
	case "sqlite":
		if s.Path == "" {
			return fmt.Errorf("source.path is required for sqlite\nHint: Use --database to point at the SQLite file")
		}
	case "postgres":
		if s.Database == "" {
			return fmt.Errorf("source.database is required for postgres")
		}
	}
	return nil
}
