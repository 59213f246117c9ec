package rules_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tbcheck/internal/testutil"
	"github.com/leapstack-labs/tbcheck/pkg/catalog"
	"github.com/leapstack-labs/tbcheck/pkg/check"
	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/table"
	"github.com/leapstack-labs/tbcheck/pkg/validate"
	"github.com/leapstack-labs/tbcheck/pkg/validate/rules"
)

var ruleNames = []string{
	"Screening_invalid_state",
	"Screening_invalid_township",
	"Screening_invalid_service_point",
	"Screening_invalid_reporting_month",
	"Screening_invalid_screening_date",
	"Screening_invalid_age_year",
	"Screening_sex_prefix",
	"Screening_invalid_registration_number",
	"Screening_duplicates",
	"Patient_invalid_state",
	"Patient_invalid_township",
	"Patient_invalid_service_point",
	"Patient_invalid_registration_number_duplicate",
	"Patient_invalid_age_year",
	"Patient_sex_prefix",
	"Visit_invalid_registration_number",
	"Visit_invalid_visit_date",
	"Service_invalid_state",
	"Service_invalid_township",
}

func newInput(tables map[schema.TableName]*table.Table) *validate.Input {
	return &validate.Input{
		Tables:  tables,
		Catalog: catalog.Build(tables[schema.Dropdown]),
		Schema:  schema.Default(),
	}
}

func run(t *testing.T, tables map[schema.TableName]*table.Table) map[string]validate.Result {
	t.Helper()
	results := validate.NewRunnerWithRules(nil, rules.All(), testutil.NewTestLogger(t)).Run(newInput(tables))
	out := make(map[string]validate.Result, len(results))
	for _, r := range results {
		out[r.Rule.Name] = r
	}
	return out
}

func TestRegisteredInReportingOrder(t *testing.T) {
	assert.Equal(t, ruleNames, validate.Names())
}

func TestValidWorkbookHasNoViolations(t *testing.T) {
	results := run(t, testutil.Workbook())
	require.Len(t, results, len(ruleNames))
	for _, name := range ruleNames {
		res := results[name]
		require.NoError(t, res.Err, name)
		assert.NotNil(t, res.Violations, name)
		assert.Empty(t, res.Violations, name)
	}
}

func TestRuleViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(tables map[schema.TableName]*table.Table)
		rule   string
		want   check.ViolationSet
	}{
		{
			name: "screening region unknown",
			mutate: func(tb map[schema.TableName]*table.Table) {
				tb[schema.Screening].Records[1]["State / Region"] = "Bago"
			},
			rule: "Screening_invalid_state",
			want: check.ViolationSet{1},
		},
		{
			name: "patient township under other region",
			mutate: func(tb map[schema.TableName]*table.Table) {
				tb[schema.Patient].Records[0]["Township"] = "Chanayethazan"
			},
			rule: "Patient_invalid_township",
			want: check.ViolationSet{0},
		},
		{
			name: "service point unknown code",
			mutate: func(tb map[schema.TableName]*table.Table) {
				tb[schema.Patient].Records[1]["Service Delivery point"] = "SP99"
			},
			rule: "Patient_invalid_service_point",
			want: check.ViolationSet{1},
		},
		{
			name: "reporting month not listed",
			mutate: func(tb map[schema.TableName]*table.Table) {
				tb[schema.Screening].Records[0]["Reporting Month"] = "Mar-24"
			},
			rule: "Screening_invalid_reporting_month",
			want: check.ViolationSet{0},
		},
		{
			name: "screening date before program start",
			mutate: func(tb map[schema.TableName]*table.Table) {
				tb[schema.Screening].Records[1]["Screening Date"] = "2023-12-31"
			},
			rule: "Screening_invalid_screening_date",
			want: check.ViolationSet{1},
		},
		{
			name: "age out of range",
			mutate: func(tb map[schema.TableName]*table.Table) {
				tb[schema.Screening].Records[0]["Age_Year"] = "150"
			},
			rule: "Screening_invalid_age_year",
			want: check.ViolationSet{0},
		},
		{
			name: "sex prefix mismatch",
			mutate: func(tb map[schema.TableName]*table.Table) {
				tb[schema.Patient].Records[1]["Sex"] = "M"
			},
			rule: "Patient_sex_prefix",
			want: check.ViolationSet{1},
		},
		{
			name: "screening without patient",
			mutate: func(tb map[schema.TableName]*table.Table) {
				tb[schema.Screening].Records[0]["Registration number"] = nil
			},
			rule: "Screening_invalid_registration_number",
			want: check.ViolationSet{0},
		},
		{
			name: "screening duplicates",
			mutate: func(tb map[schema.TableName]*table.Table) {
				s := tb[schema.Screening]
				dup := table.Record{}
				for k, v := range s.Records[0] {
					dup[k] = v
				}
				s.Records = append(s.Records, dup)
			},
			rule: "Screening_duplicates",
			want: check.ViolationSet{0, 2},
		},
		{
			name: "patient registration duplicate",
			mutate: func(tb map[schema.TableName]*table.Table) {
				tb[schema.Patient].Records[1]["Registration number"] = "R001"
			},
			rule: "Patient_invalid_registration_number_duplicate",
			want: check.ViolationSet{0, 1},
		},
		{
			name: "visit for unknown patient",
			mutate: func(tb map[schema.TableName]*table.Table) {
				tb[schema.Visit].Records[1]["Registration number"] = "R404"
			},
			rule: "Visit_invalid_registration_number",
			want: check.ViolationSet{1},
		},
		{
			name: "visit date unreadable",
			mutate: func(tb map[schema.TableName]*table.Table) {
				tb[schema.Visit].Records[0]["Visit date"] = "next week"
			},
			rule: "Visit_invalid_visit_date",
			want: check.ViolationSet{0},
		},
		{
			name: "service point region missing",
			mutate: func(tb map[schema.TableName]*table.Table) {
				tb[schema.ServicePoint].Records[0]["State/Region"] = ""
			},
			rule: "Service_invalid_state",
			want: check.ViolationSet{0},
		},
		{
			name: "service point township unknown",
			mutate: func(tb map[schema.TableName]*table.Table) {
				tb[schema.ServicePoint].Records[1]["Township"] = "Nowhere"
			},
			rule: "Service_invalid_township",
			want: check.ViolationSet{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := testutil.Workbook()
			tt.mutate(tables)

			results := run(t, tables)
			res := results[tt.rule]
			require.NoError(t, res.Err)
			assert.Equal(t, tt.want, res.Violations)
		})
	}
}

func TestMissingColumnFailsOnlyItsRules(t *testing.T) {
	tables := testutil.Workbook()
	visit := tables[schema.Visit]
	visit.Columns = []string{"Registration number"}
	for _, rec := range visit.Records {
		delete(rec, "Visit date")
	}

	results := run(t, tables)
	require.Len(t, results, len(ruleNames))

	var mc *check.MissingColumnError
	require.True(t, errors.As(results["Visit_invalid_visit_date"].Err, &mc))
	assert.Equal(t, "Visit data", mc.Table)
	assert.Equal(t, "Visit date", mc.Column)

	for _, name := range ruleNames {
		if name == "Visit_invalid_visit_date" {
			continue
		}
		assert.NoError(t, results[name].Err, name)
	}
}

func TestRangeRulesReadConfig(t *testing.T) {
	tables := testutil.Workbook()
	cfg := validate.NewConfig()
	cfg.AgeMax = 30
	cfg.MaxDate = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	results := validate.NewRunnerWithRules(cfg, rules.All(), nil).Run(newInput(tables))
	byName := map[string]validate.Result{}
	for _, r := range results {
		byName[r.Rule.Name] = r
	}

	assert.Equal(t, check.ViolationSet{0}, byName["Screening_invalid_age_year"].Violations)
	assert.Equal(t, check.ViolationSet{0}, byName["Patient_invalid_age_year"].Violations)
	assert.Equal(t, check.ViolationSet{1}, byName["Visit_invalid_visit_date"].Violations)
	assert.Empty(t, byName["Screening_invalid_screening_date"].Violations)
}
