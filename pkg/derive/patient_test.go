package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tbcheck/internal/testutil"
	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/table"
)

func enrich(t *testing.T, wb map[schema.TableName]*table.Table) (*table.Table, *table.Table) {
	t.Helper()
	s := schema.Default()
	screening, err := Screening(wb[schema.Screening], wb[schema.Patient], s)
	require.NoError(t, err)
	patient, err := Patient(wb[schema.Patient], screening, s)
	require.NoError(t, err)
	return screening, patient
}

func TestPatient_Workbook(t *testing.T) {
	_, patient := enrich(t, testutil.Workbook())

	want := map[string][]any{
		"TBDT_1":                {1, 1},
		"TBDT_3c":               {1, 0},
		"TBP-1":                 {1, 0},
		"TBHIV_5":               {1, 0},
		"TBO2a_N":               {1, 1},
		"Channel":               {"Volunteer", "Facility"},
		"BC_Screening":          {1, 0},
		"TB Detected_Screening": {1, 1},
		"Regimen check":         {OK, OK},
		"Type of Disease check": {OK, OK},
		"Outcome check":         {OK, OK},
		"Tin check":             {"", ""},
	}
	for col, values := range want {
		assert.Equal(t, values, column(patient, col), col)
	}
}

func TestPatient_RegimenCheck(t *testing.T) {
	tests := []struct {
		name    string
		regimen any
		typ     any
		age     any
		want    string
	}{
		{"CR adult", "CR", "New", 20, Fail},
		{"CR child", "CR", "New", 10, OK},
		{"CR boundary", "CR", "New", 15, Fail},
		{"CR unreadable age", "CR", "New", "abc", Fail},
		{"CR missing age", "CR", "New", nil, Fail},
		{"IR new", "IR", "New", 40, OK},
		{"IR relapse", "IR", "Relapse", 40, Fail},
		{"IR missing type", "IR", nil, 40, OK},
		{"other regimen", "SR", "Relapse", 80, OK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := patientSheet(map[string]any{
				"Registration number":  "R1",
				"TB_Treatment Regimen": tt.regimen,
				"TB_Type of patient":   tt.typ,
				"Age_Year":             tt.age,
			})

			out, err := Patient(p, nil, schema.Default())
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Records[0]["Regimen check"])
		})
	}
}

func TestPatient_JoinDefaults(t *testing.T) {
	patients := patientSheet(
		map[string]any{"Registration number": "R1"},
		map[string]any{"Registration number": "R2"},
	)

	t.Run("empty screening", func(t *testing.T) {
		out, err := Patient(patients, table.New("Screening", testutil.ScreeningColumns), schema.Default())
		require.NoError(t, err)
		for _, col := range []string{"Channel", "BC_Screening", "TB Detected_Screening", "Tin check"} {
			assert.Equal(t, []any{"", ""}, column(out, col), col)
		}
	})

	t.Run("screening without computed columns", func(t *testing.T) {
		raw := screeningSheet(map[string]any{"Registration number": "R1", "Channel": "ICHV"})

		out, err := Patient(patients, raw, schema.Default())
		require.NoError(t, err)
		assert.Equal(t, []any{"ICHV", nil}, column(out, "Channel"))
		assert.Equal(t, []any{"", ""}, column(out, "BC_Screening"))
		assert.Equal(t, []any{"", ""}, column(out, "TB Detected_Screening"))
		assert.Equal(t, []any{"", Yes}, column(out, "Tin check"))
	})

	t.Run("unmatched registration is missing", func(t *testing.T) {
		screened := screeningSheet(map[string]any{"Registration number": "R1", "Result": "Bact confirmed TB"})
		enriched, err := Screening(screened, nil, schema.Default())
		require.NoError(t, err)

		out, err := Patient(patients, enriched, schema.Default())
		require.NoError(t, err)
		assert.Equal(t, []any{1, nil}, column(out, "BC_Screening"))
		assert.Equal(t, []any{1, nil}, column(out, "TB Detected_Screening"))
		assert.Equal(t, []any{"", Yes}, column(out, "Tin check"))
	})
}

func TestPatient_FirstMatchJoin(t *testing.T) {
	patients := patientSheet(map[string]any{"Registration number": "R1"})
	screened := screeningSheet(
		map[string]any{"Registration number": "R1", "Channel": "Volunteer"},
		map[string]any{"Registration number": "R1", "Channel": "Facility"},
	)

	out, err := Patient(patients, screened, schema.Default())
	require.NoError(t, err)
	assert.Equal(t, []any{"Volunteer"}, column(out, "Channel"))
}

func TestPatient_TinCheckMissingRegistration(t *testing.T) {
	patients := patientSheet(
		map[string]any{"Registration number": nil},
		map[string]any{"Registration number": ""},
		map[string]any{"Registration number": "R1"},
	)
	screened := screeningSheet(
		map[string]any{"Registration number": nil},
		map[string]any{"Registration number": "R1"},
	)

	out, err := Patient(patients, screened, schema.Default())
	require.NoError(t, err)
	assert.Equal(t, []any{Yes, Yes, ""}, column(out, "Tin check"))
}

func TestPatient_KeepsRecordedScreeningChannel(t *testing.T) {
	patients := patientSheet(
		map[string]any{"Registration number": "R1", "TB_Type of patient": "New", "Channel_Screening": "ICHV"},
		map[string]any{"Registration number": "R2", "TB_Type of patient": "New", "Channel_Screening": "Facility"},
	)
	screened := screeningSheet(
		map[string]any{"Registration number": "R2", "Channel": "Volunteer"},
	)

	out, err := Patient(patients, screened, schema.Default())
	require.NoError(t, err)

	assert.Equal(t, []any{"ICHV", "Facility"}, column(out, "Channel_Screening"))
	assert.Equal(t, []any{nil, "Volunteer"}, column(out, "Channel"))
	assert.Equal(t, []any{1, 0}, column(out, "TBDT_3c"))
	assert.NotContains(t, patients.Columns, "Channel")
}

func TestPatient_TBDT3cFallsBackToScreeningChannel(t *testing.T) {
	cols := []string{}
	for _, c := range testutil.PatientColumns {
		if c != "Channel_Screening" {
			cols = append(cols, c)
		}
	}
	patients := sheet("Patient data", cols,
		map[string]any{"Registration number": "R1", "TB_Type of patient": "New"},
		map[string]any{"Registration number": "R2", "TB_Type of patient": "New"},
	)
	screened := screeningSheet(
		map[string]any{"Registration number": "R1", "Channel": "ICHV"},
		map[string]any{"Registration number": "R2", "Channel": "Facility"},
	)

	out, err := Patient(patients, screened, schema.Default())
	require.NoError(t, err)
	assert.Equal(t, []any{1, 0}, column(out, "TBDT_3c"))
}

func TestPatient_OptionalColumns(t *testing.T) {
	var cols []string
	for _, c := range testutil.PatientColumns {
		if c != "TBO2a_D" && c != "BC" {
			cols = append(cols, c)
		}
	}
	patients := sheet("Patient data", cols,
		map[string]any{"Registration number": "R1", "TB_Treatment Outcome": "Cured"},
		map[string]any{"Registration number": "R2", "TB_Treatment Outcome": "Completed"},
	)

	out, err := Patient(patients, nil, schema.Default())
	require.NoError(t, err)
	assert.Equal(t, []any{0, 0}, column(out, "TBO2a_N"))
	assert.Equal(t, []any{Fail, OK}, column(out, "Outcome check"))
}

func TestPatient_TypeOfDiseaseCheck(t *testing.T) {
	patients := patientSheet(
		map[string]any{"Registration number": "R1", "TB_Type of Disease": "EP"},
		map[string]any{"Registration number": "R2", "TB_Type of Disease": "Pulmonary TB"},
		map[string]any{"Registration number": "R3", "TB_Type of Disease": "EP"},
	)
	screened, err := Screening(screeningSheet(
		map[string]any{"Registration number": "R1", "Result": "Bact confirmed TB"},
		map[string]any{"Registration number": "R2", "Result": "Bact confirmed TB"},
		map[string]any{"Registration number": "R3", "Result": "Clinically diagnosed TB"},
	), nil, schema.Default())
	require.NoError(t, err)

	out, err := Patient(patients, screened, schema.Default())
	require.NoError(t, err)
	assert.Equal(t, []any{Fail, OK, OK}, column(out, "Type of Disease check"))
}

func TestPipelines_Idempotent(t *testing.T) {
	wb := testutil.Workbook()

	s1, p1 := enrich(t, wb)
	s2, p2 := enrich(t, wb)

	assert.Equal(t, s1, s2)
	assert.Equal(t, p1, p2)
}

func TestPipeline_Columns(t *testing.T) {
	s := schema.Default()
	assert.Equal(t, []string{
		"Presumptive TB referred", "TB Detected", "Bact confirmed TB",
		"Result check", "Duplicate check", "Ongoing TB case check",
	}, ScreeningPipeline().Columns(s))
	assert.Len(t, PatientPipeline().Columns(s), 12)
}
