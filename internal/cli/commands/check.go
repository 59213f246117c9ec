package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tbcheck/internal/engine"
	"github.com/leapstack-labs/tbcheck/internal/source"
	"github.com/leapstack-labs/tbcheck/pkg/core"
	"github.com/leapstack-labs/tbcheck/pkg/validate"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Only     []string // Run only these rules
	Disable  []string // Skip these rules
	FailOn   string   // Lowest severity that fails the command
	ShowRows int      // Rows rendered per result; 0 renders all
	Watch    bool     // Re-run when sheet files change
}

// ThresholdError reports that a check found violations at or above the
// --fail-on severity.
type ThresholdError struct {
	Threshold  core.Severity
	Violations int
	Failed     int
}

func (e *ThresholdError) Error() string {
	if e.Failed > 0 {
		return fmt.Sprintf("check failed: %d violations, %d results could not be computed", e.Violations, e.Failed)
	}
	return fmt.Sprintf("check failed: violations at or above %s severity (%d total)", e.Threshold, e.Violations)
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the program workbook and compute derived columns",
		Long: `Read the Service Point, Screening, Patient, Visit and Dropdown sheets,
validate them against the reference catalog and the fixed rule set, and
compute the derived Screening and Patient columns.

Each rule reports the failing records or, if it could not be evaluated
(for example because a column is missing), its error; the other rules
still run.

Output adapts to environment:
  - Terminal: Styled tables
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable report`,
		Example: `  # Check CSV sheets in ./data
  tbcheck check --dir data

  # Check a DuckDB database holding one table per sheet
  tbcheck check --source duckdb --database tb.duckdb

  # Run two rules only, fail on warnings too
  tbcheck check --only Screening_sex_prefix,Patient_sex_prefix --fail-on warning

  # Machine-readable report
  tbcheck check -o json

  # Re-run whenever a sheet file changes
  tbcheck check --dir data --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Only, "only", nil, "Run only these rules")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Skip these rules")
	cmd.Flags().StringVar(&opts.FailOn, "fail-on", "error", "Fail when a rule at or above this severity finds violations (error|warning|info|hint)")
	cmd.Flags().IntVar(&opts.ShowRows, "show-rows", 10, "Rows shown per result (0 for all)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run the check when sheet files change (directory sources only)")
	cmd.Flags().String("min-date", "", "Earliest accepted screening/visit date (YYYY-MM-DD)")
	cmd.Flags().String("max-date", "", "Latest accepted screening/visit date (default: today)")

	_ = cmd.RegisterFlagCompletionFunc("fail-on", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"error", "warning", "info", "hint"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("only", completeRuleNames)
	_ = cmd.RegisterFlagCompletionFunc("disable", completeRuleNames)

	return cmd
}

func completeRuleNames(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return validate.Names(), cobra.ShellCompDirectiveNoFileComp
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	cctx := NewCommandContext(cmd)
	cfg := cctx.Cfg

	threshold, ok := core.ParseSeverity(opts.FailOn)
	if !ok {
		return fmt.Errorf("invalid --fail-on severity %q", opts.FailOn)
	}
	if opts.ShowRows < 0 {
		return fmt.Errorf("--show-rows must not be negative")
	}

	rules, err := cfg.RuleConfig()
	if err != nil {
		return err
	}
	for _, name := range opts.Disable {
		rules.Disable(name)
	}
	rules.Only(opts.Only...)

	names := slices.Concat(cfg.Rules.Disabled, cfg.Rules.Only, opts.Disable, opts.Only)
	if err := checkRuleNames(names...); err != nil {
		return err
	}
	for name := range cfg.Rules.Severity {
		if err := checkRuleNames(name); err != nil {
			return err
		}
	}

	eng, err := createEngine(cfg, rules, cctx.Logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	src, err := openSource(ctx, cfg, cctx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	if opts.Watch {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		return watchCheck(ctx, cctx, eng, src, opts)
	}

	report, err := checkOnce(ctx, cctx, eng, src)
	if err != nil {
		return err
	}
	if err := renderReport(cctx.Renderer, report, eng.Schema(), opts.ShowRows); err != nil {
		return err
	}
	if report.Exceeds(threshold) {
		return &ThresholdError{
			Threshold:  threshold,
			Violations: report.Violations(),
			Failed:     len(report.Failed()),
		}
	}
	return nil
}

// checkOnce loads the sheets and runs the engine over them.
func checkOnce(ctx context.Context, cctx *CommandContext, eng *engine.Engine, src source.Source) (*engine.Report, error) {
	tables, err := loadTables(ctx, src, cctx.Cfg, cctx.Logger)
	if err != nil {
		return nil, err
	}
	return eng.Run(ctx, tables)
}
