// Package config loads tbcheck.yaml, TBCHECK_* environment variables and
// command-line flags into a Config, and turns it into the settings the
// engine and the data sources consume.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leapstack-labs/tbcheck/pkg/catalog"
	"github.com/leapstack-labs/tbcheck/pkg/core"
	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/table"
	"github.com/leapstack-labs/tbcheck/pkg/validate"
)

// SourceConfig is an alias for the shared source configuration.
type SourceConfig = core.SourceConfig

// Config holds all CLI configuration options.
type Config struct {
	Source   SourceConfig                 `koanf:"source"`
	Sheets   map[string]string            `koanf:"sheets"`
	Columns  map[string]map[string]string `koanf:"columns"`
	Catalog  CatalogConfig                `koanf:"catalog"`
	Rules    RulesConfig                  `koanf:"rules"`
	Output   string                       `koanf:"output"`
	Verbose  bool                         `koanf:"verbose"`
	LogLevel string                       `koanf:"log_level"`
}

// CatalogConfig locates the reference blocks in the Dropdown sheet.
type CatalogConfig struct {
	RegionRows   []int `koanf:"region_rows"`
	VariableRows []int `koanf:"variable_rows"`
}

// RulesConfig selects rules and sets the range bounds.
type RulesConfig struct {
	Disabled []string          `koanf:"disabled"`
	Only     []string          `koanf:"only"`
	Severity map[string]string `koanf:"severity"`
	MinDate  string            `koanf:"min_date"`
	MaxDate  string            `koanf:"max_date"`
	AgeMin   float64           `koanf:"age_min"`
	AgeMax   float64           `koanf:"age_max"`
}

// Default configuration values.
const (
	DefaultSourceType = "duckdb"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel   = "info"
	DefaultMinDate    = "2024-01-01"
)

// Defaults returns the default key/value pairs, in koanf's flattened form.
func Defaults() map[string]any {
	layout := catalog.DefaultLayout()
	return map[string]any{
		"source.type":           DefaultSourceType,
		"catalog.region_rows":   []int{layout.RegionRows[0], layout.RegionRows[1]},
		"catalog.variable_rows": []int{layout.VariableRows[0], layout.VariableRows[1]},
		"rules.min_date":        DefaultMinDate,
		"rules.age_min":         0,
		"rules.age_max":         100,
		"output":                DefaultOutput,
		"verbose":               false,
		"log_level":             DefaultLogLevel,
	}
}

// SheetNames maps each input table to its sheet, keyed by table name
// ("service_point", "screening", ...). Unset tables are left out.
func (c *Config) SheetNames() (map[schema.TableName]string, error) {
	out := make(map[schema.TableName]string, len(c.Sheets))
	for name, sheet := range c.Sheets {
		t := schema.TableName(name)
		if !isTable(t) {
			return nil, fmt.Errorf("unknown table %q in sheets (known: %v)", name, schema.RequiredTables)
		}
		out[t] = sheet
	}
	return out, nil
}

func isTable(t schema.TableName) bool {
	for _, name := range schema.RequiredTables {
		if name == t {
			return true
		}
	}
	return false
}

// Schema returns the default schema with the configured column overrides.
func (c *Config) Schema() (schema.Schema, error) {
	return schema.Default().WithOverrides(c.Columns)
}

// Layout returns the catalog layout.
func (c *Config) Layout() (catalog.Layout, error) {
	regions, err := rowRange("catalog.region_rows", c.Catalog.RegionRows)
	if err != nil {
		return catalog.Layout{}, err
	}
	variables, err := rowRange("catalog.variable_rows", c.Catalog.VariableRows)
	if err != nil {
		return catalog.Layout{}, err
	}
	return catalog.Layout{RegionRows: regions, VariableRows: variables}, nil
}

func rowRange(key string, v []int) ([2]int, error) {
	if len(v) != 2 {
		return [2]int{}, fmt.Errorf("%s must be [start, end], got %v", key, v)
	}
	if v[0] < 0 || v[1] < v[0] {
		return [2]int{}, fmt.Errorf("%s must satisfy 0 <= start <= end, got %v", key, v)
	}
	return [2]int{v[0], v[1]}, nil
}

// RuleConfig builds the validation rule configuration.
func (c *Config) RuleConfig() (*validate.Config, error) {
	rc := validate.NewConfig()
	for _, name := range c.Rules.Disabled {
		rc.Disable(name)
	}
	rc.Only(c.Rules.Only...)
	for name, level := range c.Rules.Severity {
		sev, ok := core.ParseSeverity(level)
		if !ok {
			return nil, fmt.Errorf("invalid severity %q for rule %q", level, name)
		}
		rc.SetSeverity(name, sev)
	}

	var err error
	if rc.MinDate, err = parseDate("rules.min_date", c.Rules.MinDate); err != nil {
		return nil, err
	}
	if rc.MaxDate, err = parseDate("rules.max_date", c.Rules.MaxDate); err != nil {
		return nil, err
	}
	if !rc.MaxDate.IsZero() && rc.MaxDate.Before(rc.MinDate) {
		return nil, fmt.Errorf("rules.max_date %s is before rules.min_date %s", c.Rules.MaxDate, c.Rules.MinDate)
	}

	if c.Rules.AgeMax < c.Rules.AgeMin {
		return nil, fmt.Errorf("rules.age_max %v is below rules.age_min %v", c.Rules.AgeMax, c.Rules.AgeMin)
	}
	rc.AgeMin, rc.AgeMax = c.Rules.AgeMin, c.Rules.AgeMax
	return rc, nil
}

func parseDate(key, s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	d, ok := table.ParseDate(s)
	if !ok {
		return time.Time{}, fmt.Errorf("%s: cannot parse date %q", key, s)
	}
	return d, nil
}

// Level returns the log level; Verbose forces debug.
func (c *Config) Level() (slog.Level, error) {
	if c.Verbose {
		return slog.LevelDebug, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
