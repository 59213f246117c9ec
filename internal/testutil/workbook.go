package testutil

import (
	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/table"
)

// Column lists of the fixture sheets, spelled as the program workbook spells them.
var (
	ServicePointColumns = []string{"State/Region", "Township", "Service delivery point code"}

	ScreeningColumns = []string{
		"State / Region", "Township", "Service delivery point", "Reporting Month",
		"Screening Date", "Age_Year", "Name", "Sex", "Registration number",
		"Examination results_Sputum", "Examination results_CXR",
		"Examination results_Gene Xpert", "Examination results_Truenet",
		"Result", "Channel",
	}

	PatientColumns = []string{
		"State/region", "Township", "Service Delivery point", "Age_Year", "Name", "Sex",
		"Registration number", "Enrolled Date", "TB_Type of patient", "Channel_Screening",
		"TPT_Treatment Regimen", "TPT_Start date", "HIV status", "TB_Treatment Outcome",
		"TB_Treatment Regimen", "TB_Type of Disease", "BC", "TBO2a_D",
	}

	VisitColumns = []string{"Registration number", "Visit date"}
)

// Catalog positions the dropdown fixture uses.
const (
	dropdownRows     = 482
	variableRowStart = 361
)

// Dropdown builds a dropdown sheet with region/township pairs at the start of
// the region block and variable/value pairs at the start of the variable
// block. Unused rows are blank.
func Dropdown(regions, variables [][2]string) *table.Table {
	rows := make([][]any, dropdownRows)
	for i := range rows {
		rows[i] = []any{nil, nil}
	}
	for i, p := range regions {
		rows[i] = []any{p[0], p[1]}
	}
	for i, p := range variables {
		rows[variableRowStart+i] = []any{p[0], p[1]}
	}
	return table.New("Dropdown", []string{"Column1", "Column2"}, rows...)
}

// Workbook returns a fresh copy of a small workbook that passes every rule.
func Workbook() map[schema.TableName]*table.Table {
	return map[schema.TableName]*table.Table{
		schema.ServicePoint: table.New("Service Point", ServicePointColumns,
			[]any{"Yangon", "Hlaing", "SP01"},
			[]any{"Mandalay", "Chanayethazan", "SP02"},
		),
		schema.Screening: table.New("Screening", ScreeningColumns,
			[]any{"Yangon", "Hlaing", "SP01", "Jan-24", "2024-01-20", 35, "U Ba", "Male", "R001",
				"Positive", "", "", "", "Bact confirmed TB", "Volunteer"},
			[]any{"Mandalay", "Chanayethazan", "SP02", "Feb-24", "2024-02-15", 10, "Ma Hla", "Female", "R002",
				"", "", "", "", "Clinically diagnosed TB", "Facility"},
		),
		schema.Patient: table.New("Patient data", PatientColumns,
			[]any{"Yangon", "Hlaing", "SP01", 35, "U Ba", "Male", "R001", "2024-02-01", "New", "Volunteer",
				"3HP", "2024-02-10", "Positive", "Cured", "IR", "P", 1, 1},
			[]any{"Mandalay", "Chanayethazan", "SP02", 10, "Ma Hla", "Female", "R002", "2024-03-01", "Relapse", "Facility",
				nil, nil, "Unknown", "Completed", "CR", "EP", 0, 1},
		),
		schema.Visit: table.New("Visit data", VisitColumns,
			[]any{"R001", "2024-03-01"},
			[]any{"R002", "2024-04-01"},
		),
		schema.Dropdown: Dropdown(
			[][2]string{
				{"Yangon", "Hlaing"},
				{"Yangon", "Insein"},
				{"Mandalay", "Chanayethazan"},
			},
			[][2]string{
				{"Reporting Month", "Jan-24"},
				{"Reporting Month", "Feb-24"},
			},
		),
	}
}
