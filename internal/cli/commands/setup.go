// Package commands implements the tbcheck subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tbcheck/internal/cli/config"
	"github.com/leapstack-labs/tbcheck/internal/cli/output"
	"github.com/leapstack-labs/tbcheck/internal/engine"
	"github.com/leapstack-labs/tbcheck/internal/source"
	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/table"
	"github.com/leapstack-labs/tbcheck/pkg/validate"

	// Register the data sources via init()
	_ "github.com/leapstack-labs/tbcheck/internal/source/duckdb"
	_ "github.com/leapstack-labs/tbcheck/internal/source/postgres"
	_ "github.com/leapstack-labs/tbcheck/internal/source/sqlite"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer the root
// command stored in the context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()
	cfg := getConfig(ctx)
	renderer := output.FromContext(ctx)
	if renderer == nil {
		renderer = newRenderer(cmd, cfg.Output)
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: renderer,
	}
}

// getConfig returns the config from the context, falling back to the last
// loaded one and then to the defaults when the command runs without the
// root command.
func getConfig(ctx context.Context) *config.Config {
	if cfg := config.FromContext(ctx); cfg != nil {
		return cfg
	}
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

func newRenderer(cmd *cobra.Command, format string) *output.Renderer {
	mode, err := output.ParseMode(format)
	if err != nil {
		mode = output.ModeAuto
	}
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
}

// createEngine builds an engine from the configuration.
func createEngine(cfg *config.Config, rules *validate.Config, logger *slog.Logger) (*engine.Engine, error) {
	s, err := cfg.Schema()
	if err != nil {
		return nil, err
	}
	layout, err := cfg.Layout()
	if err != nil {
		return nil, err
	}
	return engine.New(engine.Config{
		Schema: s,
		Layout: layout,
		Rules:  rules,
		Logger: logger,
	}), nil
}

// openSource creates and connects the configured source. The caller closes it.
func openSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (source.Source, error) {
	if err := cfg.ValidateSource(); err != nil {
		return nil, err
	}
	src, err := source.New(cfg.Source, logger)
	if err != nil {
		return nil, err
	}
	if err := src.Connect(ctx, cfg.Source); err != nil {
		return nil, fmt.Errorf("failed to connect to %s source: %w", cfg.Source.Type, err)
	}
	return src, nil
}

// loadTables reads every input sheet from an open source.
func loadTables(ctx context.Context, src source.Source, cfg *config.Config, logger *slog.Logger) (map[schema.TableName]*table.Table, error) {
	sheets, err := cfg.SheetNames()
	if err != nil {
		return nil, err
	}
	return source.LoadDataset(ctx, src, sheets, logger)
}

// sheetName returns the sheet an input table is read from.
func sheetName(cfg *config.Config, name schema.TableName) string {
	if s := cfg.Sheets[string(name)]; s != "" {
		return s
	}
	return source.DefaultSheets()[name]
}

// checkRuleNames rejects rule names that are not registered.
func checkRuleNames(names ...string) error {
	for _, name := range names {
		if _, ok := validate.GetByName(name); !ok {
			return fmt.Errorf("unknown rule %q\nHint: Run 'tbcheck rules' to list rule names", name)
		}
	}
	return nil
}
