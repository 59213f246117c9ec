package engine

import (
	"time"

	"github.com/leapstack-labs/tbcheck/pkg/catalog"
	"github.com/leapstack-labs/tbcheck/pkg/check"
	"github.com/leapstack-labs/tbcheck/pkg/core"
	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/table"
	"github.com/leapstack-labs/tbcheck/pkg/validate"
)

// Names of the enriched table results.
const (
	ScreeningComputed = "Screening_with_computed"
	PatientComputed   = "Patient_with_computed"
)

// ResultKind distinguishes violation sets from enriched tables.
type ResultKind string

// Result kinds.
const (
	KindViolations ResultKind = "violations"
	KindTable      ResultKind = "table"
)

// Result is one named entry of a report.
//
// For KindViolations, Indices holds the failing positions in the source
// table and Records the failing records themselves; both are empty, not
// nil, when the rule found nothing. For KindTable, Records is the enriched
// table. A failed entry carries Err and no records.
type Result struct {
	Name        string
	Kind        ResultKind
	Table       schema.TableName
	RuleKind    validate.Kind
	Description string
	Severity    core.Severity
	Indices     check.ViolationSet
	Records     *table.Table
	Err         error
}

// Count returns the number of violations, or enriched records for tables.
func (r *Result) Count() int {
	if r.Kind == KindViolations {
		return r.Indices.Len()
	}
	return r.Records.Len()
}

func violationResult(res validate.Result, src *table.Table) *Result {
	out := &Result{
		Name:        res.Rule.Name,
		Kind:        KindViolations,
		Table:       res.Rule.Table,
		RuleKind:    res.Rule.Kind,
		Description: res.Rule.Description,
		Severity:    res.Severity,
		Err:         res.Err,
	}
	if res.Err == nil {
		out.Indices = res.Violations
		out.Records = src.Subset(res.Violations)
	}
	return out
}

// Report is the outcome of one run. Results are in reporting order: the
// validation rules first, then the enriched Screening and Patient tables.
type Report struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Catalog   catalog.Stats
	Results   []*Result
}

// Get returns the named result.
func (r *Report) Get(name string) (*Result, bool) {
	for _, res := range r.Results {
		if res.Name == name {
			return res, true
		}
	}
	return nil, false
}

// Names returns the result names in order.
func (r *Report) Names() []string {
	names := make([]string, len(r.Results))
	for i, res := range r.Results {
		names[i] = res.Name
	}
	return names
}

// Violations returns the total number of violations across all rules.
func (r *Report) Violations() int {
	n := 0
	for _, res := range r.Results {
		if res.Kind == KindViolations {
			n += res.Indices.Len()
		}
	}
	return n
}

// Failed returns the results that could not be computed.
func (r *Report) Failed() []*Result {
	var out []*Result
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Exceeds reports whether any rule at or above the given severity found
// violations, or any result failed. Lower Severity values are more severe.
func (r *Report) Exceeds(threshold core.Severity) bool {
	for _, res := range r.Results {
		if res.Err != nil {
			return true
		}
		if res.Kind == KindViolations && res.Severity <= threshold && res.Indices.Len() > 0 {
			return true
		}
	}
	return false
}
