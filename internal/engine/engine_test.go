package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tbcheck/internal/testutil"
	"github.com/leapstack-labs/tbcheck/pkg/check"
	"github.com/leapstack-labs/tbcheck/pkg/core"
	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/table"
	"github.com/leapstack-labs/tbcheck/pkg/validate"
)

var reportNames = []string{
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
	"Screening_with_computed",
	"Patient_with_computed",
}

func newTestEngine(t *testing.T, rules *validate.Config) *Engine {
	t.Helper()
	return New(Config{Rules: rules, Logger: testutil.NewTestLogger(t)})
}

func TestRun_CleanWorkbook(t *testing.T) {
	report, err := newTestEngine(t, nil).Run(context.Background(), testutil.Workbook())
	require.NoError(t, err)

	assert.Equal(t, reportNames, report.Names())
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 0, report.Violations())
	assert.Empty(t, report.Failed())
	assert.False(t, report.Exceeds(core.SeverityHint))
	assert.Equal(t, 2, report.Catalog.Regions)
	assert.Equal(t, 3, report.Catalog.Townships)

	for _, res := range report.Results[:len(report.Results)-2] {
		assert.Equal(t, KindViolations, res.Kind, res.Name)
		assert.NotNil(t, res.Indices, res.Name)
		assert.Equal(t, 0, res.Records.Len(), res.Name)
	}

	screening, ok := report.Get(ScreeningComputed)
	require.True(t, ok)
	assert.Equal(t, KindTable, screening.Kind)
	assert.Equal(t, 2, screening.Count())
	assert.True(t, screening.Records.HasColumn("Ongoing TB case check"))

	patient, ok := report.Get(PatientComputed)
	require.True(t, ok)
	assert.True(t, patient.Records.HasColumn("Tin check"))
	assert.Equal(t, []any{1, 0}, patient.Records.Column("BC_Screening"))
}

func TestRun_ViolationsCarryRecords(t *testing.T) {
	tables := testutil.Workbook()
	tables[schema.Screening].Records[1]["Age_Year"] = "abc"

	report, err := newTestEngine(t, nil).Run(context.Background(), tables)
	require.NoError(t, err)

	res, ok := report.Get("Screening_invalid_age_year")
	require.True(t, ok)
	assert.Equal(t, check.ViolationSet{1}, res.Indices)
	require.Equal(t, 1, res.Records.Len())
	assert.Equal(t, "Ma Hla", res.Records.Records[0]["Name"])
	assert.Equal(t, core.SeverityError, res.Severity)
	assert.Equal(t, 1, report.Violations())
	assert.True(t, report.Exceeds(core.SeverityError))
}

func TestRun_MissingRequiredTable(t *testing.T) {
	for _, name := range schema.RequiredTables {
		t.Run(string(name), func(t *testing.T) {
			tables := testutil.Workbook()
			delete(tables, name)

			_, err := newTestEngine(t, nil).Run(context.Background(), tables)
			var mt *MissingTableError
			require.True(t, errors.As(err, &mt))
			assert.Equal(t, name, mt.Table)
			assert.Contains(t, err.Error(), "missing required table")
		})
	}
}

func TestRun_MissingColumnIsolated(t *testing.T) {
	tables := testutil.Workbook()
	screening := tables[schema.Screening]
	screening.Columns = screening.Columns[:len(screening.Columns)-1] // drop Channel
	for _, rec := range screening.Records {
		delete(rec, "Channel")
	}
	tables[schema.Patient].Records[0]["Age_Year"] = 120
	delete(tables[schema.Patient].Records[1], "Township")
	tables[schema.Patient].Columns = removeColumn(tables[schema.Patient].Columns, "Township")

	report, err := newTestEngine(t, nil).Run(context.Background(), tables)
	require.NoError(t, err)
	assert.Equal(t, reportNames, report.Names())

	township, _ := report.Get("Patient_invalid_township")
	var mc *check.MissingColumnError
	require.True(t, errors.As(township.Err, &mc))
	assert.Equal(t, "Township", mc.Column)

	age, _ := report.Get("Patient_invalid_age_year")
	assert.NoError(t, age.Err)
	assert.Equal(t, check.ViolationSet{0}, age.Indices)

	// Channel only feeds the Patient join, so both derivations succeed and
	// the joined column falls back to "".
	screeningOut, _ := report.Get(ScreeningComputed)
	require.NoError(t, screeningOut.Err)
	patientOut, _ := report.Get(PatientComputed)
	require.NoError(t, patientOut.Err)
	assert.Equal(t, []any{"", ""}, patientOut.Records.Column("Channel"))

	assert.Len(t, report.Failed(), 1)
	assert.True(t, report.Exceeds(core.SeverityHint))
}

func TestRun_ScreeningDerivationFailureFallsBack(t *testing.T) {
	tables := testutil.Workbook()
	screening := tables[schema.Screening]
	screening.Columns = removeColumn(screening.Columns, "Result")

	report, err := newTestEngine(t, nil).Run(context.Background(), tables)
	require.NoError(t, err)

	screeningOut, _ := report.Get(ScreeningComputed)
	require.Error(t, screeningOut.Err)
	assert.Nil(t, screeningOut.Records)

	patientOut, _ := report.Get(PatientComputed)
	require.NoError(t, patientOut.Err)
	assert.Equal(t, []any{"", ""}, patientOut.Records.Column("BC_Screening"))
	assert.Equal(t, []any{"Volunteer", "Facility"}, patientOut.Records.Column("Channel"))
}

func TestRun_RuleConfig(t *testing.T) {
	cfg := validate.NewConfig().
		Disable("Screening_sex_prefix").
		SetSeverity("Screening_duplicates", core.SeverityInfo)
	tables := testutil.Workbook()
	dup := table.Record{}
	for k, v := range tables[schema.Screening].Records[0] {
		dup[k] = v
	}
	tables[schema.Screening].Records = append(tables[schema.Screening].Records, dup)

	report, err := newTestEngine(t, cfg).Run(context.Background(), tables)
	require.NoError(t, err)

	_, ok := report.Get("Screening_sex_prefix")
	assert.False(t, ok)

	dups, ok := report.Get("Screening_duplicates")
	require.True(t, ok)
	assert.Equal(t, core.SeverityInfo, dups.Severity)
	assert.Equal(t, check.ViolationSet{0, 2}, dups.Indices)

	assert.False(t, report.Exceeds(core.SeverityWarning))
	assert.True(t, report.Exceeds(core.SeverityInfo))
}

func TestRun_DoesNotModifyInputs(t *testing.T) {
	tables := testutil.Workbook()
	want := testutil.Workbook()

	_, err := newTestEngine(t, nil).Run(context.Background(), tables)
	require.NoError(t, err)
	assert.Equal(t, want, tables)
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine(t, nil).Run(ctx, testutil.Workbook())
	assert.ErrorIs(t, err, context.Canceled)
}

func removeColumn(cols []string, name string) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if c != name {
			out = append(out, c)
		}
	}
	return out
}
