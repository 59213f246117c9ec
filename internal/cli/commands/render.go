package commands

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/tbcheck/internal/cli/output"
	"github.com/leapstack-labs/tbcheck/internal/engine"
	"github.com/leapstack-labs/tbcheck/pkg/core"
	"github.com/leapstack-labs/tbcheck/pkg/derive"
	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/table"
	"github.com/leapstack-labs/tbcheck/pkg/validate"
)

// ReportOutput is the JSON/YAML form of a check report.
type ReportOutput struct {
	RunID      string         `json:"run_id" yaml:"run_id"`
	StartedAt  time.Time      `json:"started_at" yaml:"started_at"`
	Duration   string         `json:"duration" yaml:"duration"`
	Catalog    CatalogStats   `json:"catalog" yaml:"catalog"`
	Violations int            `json:"violations" yaml:"violations"`
	Results    []ResultOutput `json:"results" yaml:"results"`
}

// CatalogStats is the JSON/YAML form of the catalog size.
type CatalogStats struct {
	Regions   int `json:"regions" yaml:"regions"`
	Townships int `json:"townships" yaml:"townships"`
	Variables int `json:"variables" yaml:"variables"`
	Values    int `json:"values" yaml:"values"`
}

// ResultOutput is one report entry. Rows holds at most --show-rows records.
type ResultOutput struct {
	Name        string           `json:"name" yaml:"name"`
	Kind        string           `json:"kind" yaml:"kind"`
	Table       string           `json:"table" yaml:"table"`
	RuleKind    string           `json:"rule_kind,omitempty" yaml:"rule_kind,omitempty"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Severity    *core.Severity   `json:"severity,omitempty" yaml:"severity,omitempty"`
	Count       int              `json:"count" yaml:"count"`
	Indices     []int            `json:"indices,omitempty" yaml:"indices,omitempty"`
	Rows        []map[string]any `json:"rows,omitempty" yaml:"rows,omitempty"`
	Error       string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// newReportOutput converts a report, keeping at most limit rows per result
// (all when limit is 0).
func newReportOutput(report *engine.Report, limit int) ReportOutput {
	out := ReportOutput{
		RunID:     report.RunID,
		StartedAt: report.StartedAt,
		Duration:  report.Duration.Round(time.Millisecond).String(),
		Catalog: CatalogStats{
			Regions:   report.Catalog.Regions,
			Townships: report.Catalog.Townships,
			Variables: report.Catalog.Variables,
			Values:    report.Catalog.Values,
		},
		Violations: report.Violations(),
		Results:    make([]ResultOutput, 0, len(report.Results)),
	}
	for _, res := range report.Results {
		ro := ResultOutput{
			Name:        res.Name,
			Kind:        string(res.Kind),
			Table:       res.Table.Label(),
			RuleKind:    string(res.RuleKind),
			Description: res.Description,
		}
		if res.Kind == engine.KindViolations {
			sev := res.Severity
			ro.Severity = &sev
		}
		if res.Err != nil {
			ro.Error = res.Err.Error()
			out.Results = append(out.Results, ro)
			continue
		}
		ro.Count = res.Count()
		if res.Kind == engine.KindViolations {
			ro.Indices = []int(res.Indices)
		}
		for i, rec := range res.Records.Records {
			if limit > 0 && i >= limit {
				break
			}
			row := make(map[string]any, len(rec))
			for k, v := range rec {
				if table.IsMissing(v) {
					v = nil
				}
				row[k] = v
			}
			ro.Rows = append(ro.Rows, row)
		}
		out.Results = append(out.Results, ro)
	}
	return out
}

// renderReport writes a report in the renderer's mode.
func renderReport(r *output.Renderer, report *engine.Report, s schema.Schema, limit int) error {
	if ok, err := r.Encode(newReportOutput(report, limit)); ok {
		return err
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		renderReportMarkdown(r, report, s, limit)
		return nil
	}
	renderReportText(r, report, s, limit)
	return nil
}

func renderReportText(r *output.Renderer, report *engine.Report, s schema.Schema, limit int) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("TB Data Check"))
	r.Println(styles.Muted.Render(fmt.Sprintf("run %s, %s, catalog: %d regions, %d townships, %d variables",
		report.RunID, report.Duration.Round(time.Millisecond),
		report.Catalog.Regions, report.Catalog.Townships, report.Catalog.Variables)))
	r.Println("")

	for _, res := range report.Results {
		switch {
		case res.Err != nil:
			r.Printf("%s %s  %s\n", styles.Error.Render("✗"), styles.Bold.Render(res.Name), styles.Error.Render(res.Err.Error()))
		case res.Kind == engine.KindTable:
			r.Printf("%s %s  %d records\n", styles.Info.Render("≡"), styles.Bold.Render(res.Name), res.Count())
			renderRecords(r, res, tableColumns(res, s), limit)
		case res.Count() == 0:
			r.Printf("%s %s\n", styles.Success.Render("✓"), res.Name)
		default:
			sevStyle := getSeverityStyle(styles, res.Severity)
			r.Printf("%s %s  %s  %s\n", sevStyle.Render("✗"), styles.Bold.Render(res.Name),
				sevStyle.Render(fmt.Sprintf("%d %s", res.Count(), plural(res.Count(), "violation"))),
				styles.Muted.Render(res.Severity.String()))
			renderRecords(r, res, ruleColumns(res, s), limit)
		}
	}

	r.Println("")
	r.Println(summaryLine(report))
	r.Println("")
}

func renderReportMarkdown(r *output.Renderer, report *engine.Report, s schema.Schema, limit int) {
	r.Println("# TB Data Check")
	r.Println("")
	r.Printf("- **Run:** `%s`\n", report.RunID)
	r.Printf("- **Duration:** %s\n", report.Duration.Round(time.Millisecond))
	r.Printf("- **Catalog:** %d regions, %d townships, %d variables\n",
		report.Catalog.Regions, report.Catalog.Townships, report.Catalog.Variables)
	r.Println("")

	r.Println("## Validation")
	r.Println("")
	var rows [][]string
	for _, res := range report.Results {
		if res.Kind != engine.KindViolations {
			continue
		}
		status := strconv.Itoa(res.Count())
		if res.Err != nil {
			status = "error: " + res.Err.Error()
		}
		rows = append(rows, []string{res.Name, res.Table.Label(), res.Severity.String(), status})
	}
	r.Table([]string{"Rule", "Table", "Severity", "Violations"}, rows)
	r.Println("")

	for _, res := range report.Results {
		if res.Err != nil || res.Count() == 0 {
			continue
		}
		r.Printf("## %s\n\n", res.Name)
		if res.Description != "" {
			r.Println(res.Description)
			r.Println("")
		}
		cols := ruleColumns(res, s)
		if res.Kind == engine.KindTable {
			cols = tableColumns(res, s)
		}
		renderRecords(r, res, cols, limit)
		r.Println("")
	}

	r.Println(summaryLine(report))
}

// renderRecords tabulates the first limit records of a result.
func renderRecords(r *output.Renderer, res *engine.Result, cols []string, limit int) {
	n := res.Records.Len()
	shown := n
	if limit > 0 && limit < n {
		shown = limit
	}
	header := append([]string{"#"}, cols...)
	rows := make([][]string, 0, shown)
	for i := 0; i < shown; i++ {
		row := make([]string, 0, len(header))
		idx := i
		if res.Kind == engine.KindViolations {
			idx = res.Indices[i]
		}
		row = append(row, strconv.Itoa(idx))
		for _, c := range cols {
			row = append(row, formatValue(res.Records.Records[i][c]))
		}
		rows = append(rows, row)
	}
	r.Table(header, rows)
	if shown < n {
		r.Printf("… %d more (use --show-rows 0 to show all)\n", n-shown)
	}
}

// ruleColumns returns the columns a rule reads, led by the registration
// number when the table has one.
func ruleColumns(res *engine.Result, s schema.Schema) []string {
	var cols []string
	if reg, ok := s.Lookup(res.Table, schema.RegistrationNumber); ok && res.Records.HasColumn(reg) {
		cols = append(cols, reg)
	}
	if rule, ok := validate.GetByName(res.Name); ok {
		for _, c := range rule.Info(s).Columns {
			if !slices.Contains(cols, c) && res.Records.HasColumn(c) {
				cols = append(cols, c)
			}
		}
	}
	if len(cols) == 0 {
		return res.Records.Columns
	}
	return cols
}

// tableColumns returns the registration number and the computed columns
// of an enriched table.
func tableColumns(res *engine.Result, s schema.Schema) []string {
	var cols []string
	if reg, ok := s.Lookup(res.Table, schema.RegistrationNumber); ok {
		cols = append(cols, reg)
	}
	var computed []string
	switch res.Table {
	case schema.Screening:
		computed = derive.ScreeningPipeline().Columns(s)
	case schema.Patient:
		computed = derive.PatientPipeline().Columns(s)
	}
	return append(cols, computed...)
}

func summaryLine(report *engine.Report) string {
	rules, failing := 0, 0
	for _, res := range report.Results {
		if res.Kind != engine.KindViolations {
			continue
		}
		rules++
		if res.Err == nil && res.Count() > 0 {
			failing++
		}
	}
	line := fmt.Sprintf("%d %s in %d of %d rules", report.Violations(), plural(report.Violations(), "violation"), failing, rules)
	if n := len(report.Failed()); n > 0 {
		line += fmt.Sprintf(", %d %s could not be computed", n, plural(n, "result"))
	}
	return line
}

func formatValue(v any) string {
	s, _ := table.Text(v)
	return strings.ReplaceAll(s, "\n", " ")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
