package validate

import (
	"github.com/leapstack-labs/tbcheck/pkg/catalog"
	"github.com/leapstack-labs/tbcheck/pkg/check"
	"github.com/leapstack-labs/tbcheck/pkg/core"
	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/table"
)

// Kind names the validator family a rule uses.
type Kind string

// Validator families.
const (
	KindMembership     Kind = "membership"
	KindRegionTownship Kind = "region-township"
	KindForeignKey     Kind = "foreign-key"
	KindDateRange      Kind = "date-range"
	KindNumericRange   Kind = "numeric-range"
	KindNamePrefix     Kind = "name-prefix"
	KindDuplicate      Kind = "duplicate"
)

// CheckFunc evaluates a rule against the run input.
type CheckFunc func(in *Input) (check.ViolationSet, error)

// RuleDef defines a validation rule.
type RuleDef struct {
	Name        string // e.g. "Screening_invalid_state"
	Table       schema.TableName
	Kind        Kind
	Description string
	Severity    core.Severity
	Fields      []schema.Field
	Check       CheckFunc
}

// Info returns the rule's metadata, resolving fields to column names
// through s.
func (r RuleDef) Info(s schema.Schema) core.RuleInfo {
	info := core.RuleInfo{
		Name:            r.Name,
		Table:           r.Table.Label(),
		Kind:            string(r.Kind),
		Description:     r.Description,
		DefaultSeverity: r.Severity,
	}
	for _, f := range r.Fields {
		if col, ok := s.Lookup(r.Table, f); ok {
			info.Columns = append(info.Columns, col)
		}
	}
	return info
}

// Input is everything a rule may read. Rules must treat it as read-only.
type Input struct {
	Tables  map[schema.TableName]*table.Table
	Catalog *catalog.Catalog
	Schema  schema.Schema
	Config  *Config
}

// Table returns the named input table, or nil.
func (in *Input) Table(name schema.TableName) *table.Table {
	return in.Tables[name]
}

// Column resolves a field to the column name a table uses.
func (in *Input) Column(t schema.TableName, f schema.Field) string {
	return in.Schema.Column(t, f)
}
