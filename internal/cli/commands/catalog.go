package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tbcheck/internal/cli/output"
	"github.com/leapstack-labs/tbcheck/pkg/catalog"
	"github.com/leapstack-labs/tbcheck/pkg/schema"
)

// CatalogOptions holds options for the catalog command.
type CatalogOptions struct {
	Region   string // Show one region only
	Variable string // Show one variable only
}

// CatalogJSONOutput is the JSON output structure of the catalog command.
type CatalogJSONOutput struct {
	Sheet     string              `json:"sheet" yaml:"sheet"`
	Stats     CatalogStats        `json:"stats" yaml:"stats"`
	Regions   map[string][]string `json:"regions" yaml:"regions"`
	Variables map[string][]string `json:"variables" yaml:"variables"`
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand() *cobra.Command {
	opts := &CatalogOptions{}
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show the reference catalog parsed from the Dropdown sheet",
		Long: `Read the Dropdown sheet and print the region to township mapping and
the allowed values per variable, exactly as the check sees them.

Use this to diagnose rules that reject valid values: a catalog missing
entries usually means catalog.region_rows or catalog.variable_rows do not
match the sheet.`,
		Example: `  # Print the whole catalog
  tbcheck catalog --dir data

  # Townships of one region
  tbcheck catalog --region Yangon

  # Allowed reporting months as JSON
  tbcheck catalog --variable "Reporting Month" -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalog(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Region, "region", "", "Show one region only")
	cmd.Flags().StringVar(&opts.Variable, "variable", "", "Show one variable only")

	return cmd
}

func runCatalog(cmd *cobra.Command, opts *CatalogOptions) error {
	cctx := NewCommandContext(cmd)
	ctx := cmd.Context()

	layout, err := cctx.Cfg.Layout()
	if err != nil {
		return err
	}
	src, err := openSource(ctx, cctx.Cfg, cctx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	sheet := sheetName(cctx.Cfg, schema.Dropdown)
	dropdown, err := src.ReadTable(ctx, sheet)
	if err != nil {
		return fmt.Errorf("load Dropdown sheet %q: %w", sheet, err)
	}
	cat := catalog.BuildWithLayout(dropdown, layout)

	regions, err := selectBlock(cat.RegionTownships, opts.Region, "region")
	if err != nil {
		return err
	}
	variables, err := selectBlock(cat.VariableValues, opts.Variable, "variable")
	if err != nil {
		return err
	}
	if opts.Region != "" && opts.Variable == "" {
		variables = map[string][]string{}
	}
	if opts.Variable != "" && opts.Region == "" {
		regions = map[string][]string{}
	}

	st := cat.Stats()
	out := CatalogJSONOutput{
		Sheet:     sheet,
		Stats:     CatalogStats{Regions: st.Regions, Townships: st.Townships, Variables: st.Variables, Values: st.Values},
		Regions:   regions,
		Variables: variables,
	}

	r := cctx.Renderer
	if ok, err := r.Encode(out); ok {
		return err
	}
	renderCatalog(r, out)
	return nil
}

// selectBlock returns the sorted entries of one catalog block, or only the
// named key when name is set.
func selectBlock(block map[string]catalog.Set, name, what string) (map[string][]string, error) {
	out := make(map[string][]string, len(block))
	if name != "" {
		set, ok := block[name]
		if !ok {
			return nil, fmt.Errorf("%s %q not found in the catalog", what, name)
		}
		out[name] = set.Sorted()
		return out, nil
	}
	for k, set := range block {
		out[k] = set.Sorted()
	}
	return out, nil
}

func renderCatalog(r *output.Renderer, out CatalogJSONOutput) {
	markdown := r.EffectiveMode() == output.ModeMarkdown
	styles := r.Styles()

	heading := func(level int, s string) {
		if markdown {
			r.Printf("%s %s\n\n", strings.Repeat("#", level), s)
			return
		}
		if level == 1 {
			r.Println(styles.Header1.Render(s))
		} else {
			r.Println(styles.Header2.Render(s))
		}
		r.Println("")
	}

	if !markdown {
		r.Println("")
	}
	heading(1, fmt.Sprintf("Catalog (%s)", out.Sheet))
	r.Printf("%d regions, %d townships, %d variables, %d values\n\n",
		out.Stats.Regions, out.Stats.Townships, out.Stats.Variables, out.Stats.Values)

	if len(out.Regions) > 0 {
		heading(2, "Regions")
		rows := make([][]string, 0, len(out.Regions))
		for _, name := range sortedKeys(out.Regions) {
			rows = append(rows, []string{name, fmt.Sprint(len(out.Regions[name])), strings.Join(out.Regions[name], ", ")})
		}
		r.Table([]string{"Region", "Count", "Townships"}, rows)
		r.Println("")
	}

	if len(out.Variables) > 0 {
		heading(2, "Variables")
		rows := make([][]string, 0, len(out.Variables))
		for _, name := range sortedKeys(out.Variables) {
			rows = append(rows, []string{name, fmt.Sprint(len(out.Variables[name])), strings.Join(out.Variables[name], ", ")})
		}
		r.Table([]string{"Variable", "Count", "Values"}, rows)
		r.Println("")
	}
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
