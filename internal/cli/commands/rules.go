package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/tbcheck/internal/cli/output"
	"github.com/leapstack-labs/tbcheck/pkg/core"
	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/validate"
	_ "github.com/leapstack-labs/tbcheck/pkg/validate/rules" // register the rule set
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Table  string // Filter by table
	Long   bool   // Show descriptions and columns
	Format string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-name]",
		Short: "List the validation rules",
		Long: `List the validation rules in the order the check reports them.

Severities shown are the effective ones: rules.severity in tbcheck.yaml
overrides a rule's default.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # List all rules
  tbcheck rules

  # Show details for one rule
  tbcheck rules Screening_duplicates

  # List Patient rules with descriptions
  tbcheck rules --table patient -l

  # Output as JSON
  tbcheck rules --format json`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return validate.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "", "Filter by table: service_point, screening, patient, visit")
	cmd.Flags().BoolVarP(&opts.Long, "long", "l", false, "Show descriptions and columns")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

// ruleEntries returns rule metadata with effective severities, in
// registration order.
func ruleEntries(cctx *CommandContext) ([]core.RuleInfo, error) {
	s, err := cctx.Cfg.Schema()
	if err != nil {
		return nil, err
	}
	rc, err := cctx.Cfg.RuleConfig()
	if err != nil {
		return nil, err
	}
	defs := validate.GetAll()
	infos := make([]core.RuleInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info(s)
		infos[i].DefaultSeverity = rc.GetSeverity(def.Name, def.Severity)
	}
	return infos, nil
}

func rulesRenderer(cmd *cobra.Command, cctx *CommandContext, opts *RulesOptions) *output.Renderer {
	if opts.Format != "" {
		return newRenderer(cmd, opts.Format)
	}
	return cctx.Renderer
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cctx := NewCommandContext(cmd)
	r := rulesRenderer(cmd, cctx, opts)

	rules, err := ruleEntries(cctx)
	if err != nil {
		return err
	}
	if opts.Table != "" {
		label := schema.TableName(opts.Table).Label()
		var filtered []core.RuleInfo
		for _, rule := range rules {
			if rule.Table == label {
				filtered = append(filtered, rule)
			}
		}
		rules = filtered
	}

	if ok, err := r.Encode(RulesJSONOutput{Rules: rules, Count: len(rules)}); ok {
		return err
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		listRulesMarkdown(r, rules, opts.Long)
		return nil
	}
	listRulesText(r, rules, opts.Long)
	return nil
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []core.RuleInfo `json:"rules" yaml:"rules"`
	Count int             `json:"count" yaml:"count"`
}

// listRulesText outputs rules in styled text format, grouped by table.
func listRulesText(r *output.Renderer, rules []core.RuleInfo, verbose bool) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Validation Rules (%d)", len(rules))))
	r.Println("")

	currentTable := ""
	for _, rule := range rules {
		if rule.Table != currentTable {
			if currentTable != "" {
				r.Println("")
			}
			currentTable = rule.Table
			r.Println(styles.Header2.Render(currentTable))
		}

		severityStyle := getSeverityStyle(styles, rule.DefaultSeverity)
		r.Printf("  %-48s %s  %s\n",
			rule.Name,
			severityStyle.Render(fmt.Sprintf("%-7s", rule.DefaultSeverity.String())),
			styles.Muted.Render(kindTitle(rule.Kind)),
		)
		if verbose {
			r.Println(styles.Muted.Render("      " + rule.Description))
			if len(rule.Columns) > 0 {
				r.Println(styles.Muted.Render("      Columns: " + strings.Join(rule.Columns, ", ")))
			}
		}
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'tbcheck rules <rule-name>' for details"))
	r.Println("")
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, rules []core.RuleInfo, verbose bool) {
	r.Println("# Validation Rules")
	r.Println("")

	currentTable := ""
	for _, rule := range rules {
		if rule.Table != currentTable {
			if currentTable != "" {
				r.Println("")
			}
			currentTable = rule.Table
			r.Println("## " + currentTable)
			r.Println("")
		}
		r.Printf("- **%s** - %s (`%s`)\n", rule.Name, kindTitle(rule.Kind), rule.DefaultSeverity.String())
		if verbose {
			r.Println("  " + rule.Description)
		}
	}
	r.Println("")
}

func showRule(cmd *cobra.Command, name string, opts *RulesOptions) error {
	cctx := NewCommandContext(cmd)
	r := rulesRenderer(cmd, cctx, opts)

	rules, err := ruleEntries(cctx)
	if err != nil {
		return err
	}
	var rule *core.RuleInfo
	for i := range rules {
		if rules[i].Name == name {
			rule = &rules[i]
			break
		}
	}
	if rule == nil {
		return fmt.Errorf("rule %q not found\nHint: Run 'tbcheck rules' to list rule names", name)
	}

	if ok, err := r.Encode(rule); ok {
		return err
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Printf("# %s\n\n", rule.Name)
		r.Printf("**Table:** %s | **Kind:** %s | **Severity:** `%s`\n\n", rule.Table, kindTitle(rule.Kind), rule.DefaultSeverity.String())
		r.Println(rule.Description)
		if len(rule.Columns) > 0 {
			r.Println("")
			r.Printf("Columns: `%s`\n", strings.Join(rule.Columns, "`, `"))
		}
		return nil
	}

	styles := r.Styles()
	r.Println("")
	r.Println(styles.Header1.Render(rule.Name))
	r.Println("")
	r.Printf("  %s: %s\n", styles.Bold.Render("Table"), rule.Table)
	r.Printf("  %s: %s\n", styles.Bold.Render("Kind"), kindTitle(rule.Kind))
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), getSeverityStyle(styles, rule.DefaultSeverity).Render(rule.DefaultSeverity.String()))
	r.Println("")
	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	if len(rule.Columns) > 0 {
		r.Println("")
		r.Println(styles.Bold.Render("Columns"))
		for _, c := range rule.Columns {
			r.Println("  " + c)
		}
	}
	r.Println("")
	return nil
}

// Helper functions

// kindTitle turns a rule kind such as "region-township" into "Region Township".
func kindTitle(kind string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(kind, "-", " "))
}

func getSeverityStyle(styles *output.Styles, sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return styles.Error
	case core.SeverityWarning:
		return styles.Warning
	case core.SeverityInfo:
		return styles.Info
	default:
		return styles.Muted
	}
}
