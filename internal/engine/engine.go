// Package engine runs a full check over one workbook: it rejects incomplete
// table sets, builds the reference catalog, evaluates the validation rules
// and computes the derived Screening and Patient tables, collecting
// everything into a Report.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/tbcheck/pkg/catalog"
	"github.com/leapstack-labs/tbcheck/pkg/derive"
	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/table"
	"github.com/leapstack-labs/tbcheck/pkg/validate"
	_ "github.com/leapstack-labs/tbcheck/pkg/validate/rules" // register the rule set
)

// MissingTableError reports a required input table that was not supplied.
type MissingTableError struct {
	Table schema.TableName
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("missing required table %q", e.Table.Label())
}

// Config holds engine configuration.
type Config struct {
	// Schema maps fields to column names (Default() if nil)
	Schema schema.Schema
	// Layout locates the catalog blocks in the dropdown sheet (DefaultLayout() if zero)
	Layout catalog.Layout
	// Rules controls rule selection, severities and range bounds (optional)
	Rules *validate.Config
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Engine evaluates workbooks. It holds no per-run state and may be reused.
type Engine struct {
	schema schema.Schema
	layout catalog.Layout
	rules  *validate.Config
	logger *slog.Logger
}

// New creates an engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := cfg.Schema
	if s == nil {
		s = schema.Default()
	}
	layout := cfg.Layout
	if layout == (catalog.Layout{}) {
		layout = catalog.DefaultLayout()
	}
	rules := cfg.Rules
	if rules == nil {
		rules = validate.NewConfig()
	}
	return &Engine{schema: s, layout: layout, rules: rules, logger: logger}
}

// Schema returns the schema the engine resolves columns with.
func (e *Engine) Schema() schema.Schema {
	return e.schema
}

// Run checks one workbook. It fails only when a required table is missing
// or the context is done; rule and derivation failures are recorded on
// their results.
func (e *Engine) Run(ctx context.Context, tables map[schema.TableName]*table.Table) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, name := range schema.RequiredTables {
		if tables[name] == nil {
			return nil, &MissingTableError{Table: name}
		}
	}

	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	logger := e.logger.With("run_id", report.RunID)
	logger.Info("starting check",
		"screening", tables[schema.Screening].Len(),
		"patient", tables[schema.Patient].Len(),
		"visit", tables[schema.Visit].Len(),
		"service_point", tables[schema.ServicePoint].Len())

	cat := catalog.BuildWithLayout(tables[schema.Dropdown], e.layout)
	report.Catalog = cat.Stats()
	logger.Debug("catalog built",
		"regions", report.Catalog.Regions,
		"townships", report.Catalog.Townships,
		"variables", report.Catalog.Variables)

	runner := validate.NewRunner(e.rules, logger)
	for _, res := range runner.Run(&validate.Input{
		Tables:  tables,
		Catalog: cat,
		Schema:  e.schema,
		Config:  e.rules,
	}) {
		report.Results = append(report.Results, violationResult(res, tables[res.Rule.Table]))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	screening, patient := e.derive(tables, logger)
	report.Results = append(report.Results, screening, patient)

	report.Duration = time.Since(report.StartedAt)
	logger.Info("check completed",
		"rules", len(report.Results)-2,
		"violations", report.Violations(),
		"failed", len(report.Failed()),
		"duration", report.Duration)
	return report, nil
}

// derive computes the enriched tables. A Screening failure leaves the
// Patient derivation joining against the raw Screening sheet.
func (e *Engine) derive(tables map[schema.TableName]*table.Table, logger *slog.Logger) (*Result, *Result) {
	screening := &Result{Name: ScreeningComputed, Kind: KindTable, Table: schema.Screening}
	enriched, err := derive.Screening(tables[schema.Screening], tables[schema.Patient], e.schema)
	if err != nil {
		logger.Warn("screening derivation failed", "error", err.Error())
		screening.Err = err
		enriched = tables[schema.Screening]
	} else {
		screening.Records = enriched
	}

	patient := &Result{Name: PatientComputed, Kind: KindTable, Table: schema.Patient}
	out, err := derive.Patient(tables[schema.Patient], enriched, e.schema)
	if err != nil {
		logger.Warn("patient derivation failed", "error", err.Error())
		patient.Err = err
	} else {
		patient.Records = out
	}
	return screening, patient
}
