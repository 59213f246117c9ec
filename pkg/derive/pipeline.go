package derive

import (
	"fmt"

	"github.com/leapstack-labs/tbcheck/pkg/check"
	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/table"
)

// Env is what a step reads while computing its column.
type Env struct {
	Table   *table.Table // working copy, including earlier steps' columns
	Related *table.Table // join target; may be nil or empty
	Schema  schema.Schema

	name    schema.TableName
	related schema.TableName
}

// Col returns the working table's column for a field.
func (e *Env) Col(f schema.Field) string {
	return e.Schema.Column(e.name, f)
}

// RelatedCol returns the related table's column for a field.
func (e *Env) RelatedCol(f schema.Field) string {
	return e.Schema.Column(e.related, f)
}

// Require returns a MissingColumnError for the first field the working
// table lacks.
func (e *Env) Require(fields ...schema.Field) error {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = e.Col(f)
	}
	return check.RequireColumns(e.Table, cols...)
}

// Step computes one column. Compute returns one value per record.
type Step struct {
	Field       schema.Field
	Description string
	Compute     func(e *Env) ([]any, error)
}

// Pipeline is an ordered sequence of steps over one table.
type Pipeline struct {
	Table   schema.TableName
	Related schema.TableName
	Steps   []Step
}

// Apply runs the steps over a copy of src and returns the enriched copy.
// src and related are never modified.
func (p *Pipeline) Apply(src, related *table.Table, s schema.Schema) (*table.Table, error) {
	if src == nil {
		return nil, fmt.Errorf("derive %s: no table", p.Table)
	}
	env := &Env{
		Table:   src.Clone(),
		Related: related,
		Schema:  s,
		name:    p.Table,
		related: p.Related,
	}
	for _, step := range p.Steps {
		col := env.Col(step.Field)
		values, err := step.Compute(env)
		if err != nil {
			return nil, fmt.Errorf("derive %s %q: %w", p.Table.Label(), col, err)
		}
		if len(values) != env.Table.Len() {
			return nil, fmt.Errorf("derive %s %q: got %d values for %d records",
				p.Table.Label(), col, len(values), env.Table.Len())
		}
		env.Table.SetColumn(col, values)
	}
	return env.Table, nil
}

// Columns returns the column names the pipeline appends, in order.
func (p *Pipeline) Columns(s schema.Schema) []string {
	cols := make([]string, len(p.Steps))
	for i, step := range p.Steps {
		cols[i] = s.Column(p.Table, step.Field)
	}
	return cols
}

// Screening enriches the Screening sheet, joining against Patient.
func Screening(screening, patient *table.Table, s schema.Schema) (*table.Table, error) {
	return ScreeningPipeline().Apply(screening, patient, s)
}

// Patient enriches the Patient sheet, joining against the (enriched)
// Screening sheet.
func Patient(patient, screening *table.Table, s schema.Schema) (*table.Table, error) {
	return PatientPipeline().Apply(patient, screening, s)
}

// flag converts a condition to the 0/1 indicator value.
func flag(b bool) any {
	if b {
		return 1
	}
	return 0
}

// perRecord builds a value slice by calling fn for every record.
func perRecord(t *table.Table, fn func(rec table.Record) any) []any {
	out := make([]any, t.Len())
	for i, rec := range t.Records {
		out[i] = fn(rec)
	}
	return out
}
