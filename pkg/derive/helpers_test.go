package derive

import (
	"github.com/leapstack-labs/tbcheck/internal/testutil"
	"github.com/leapstack-labs/tbcheck/pkg/table"
)

// sheet builds a table over cols from sparse records; unset cells are nil.
func sheet(name string, cols []string, recs ...map[string]any) *table.Table {
	rows := make([][]any, len(recs))
	for i, r := range recs {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = r[c]
		}
		rows[i] = row
	}
	return table.New(name, cols, rows...)
}

func screeningSheet(recs ...map[string]any) *table.Table {
	return sheet("Screening", testutil.ScreeningColumns, recs...)
}

func patientSheet(recs ...map[string]any) *table.Table {
	return sheet("Patient data", testutil.PatientColumns, recs...)
}

func column(t *table.Table, col string) []any {
	return t.Column(col)
}
