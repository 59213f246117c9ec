// Package schema maps canonical field names to the column names each sheet
// actually uses.
//
// The program sheets spell the same field differently ("State / Region" on
// Screening, "State/region" on Patient, "State/Region" on Service Point).
// Rules and derivations ask for a canonical Field on a TableName and get back
// the sheet's verbatim column, so adapting to a new sheet layout is a schema
// override rather than a code change.
package schema

import (
	"fmt"
	"maps"
	"sort"
)

// TableName identifies one of the input sheets.
type TableName string

// Input tables.
const (
	ServicePoint TableName = "service_point"
	Screening    TableName = "screening"
	Patient      TableName = "patient"
	Visit        TableName = "visit"
	Dropdown     TableName = "dropdown"
)

// RequiredTables lists the tables a run cannot start without, in reporting order.
var RequiredTables = []TableName{ServicePoint, Screening, Patient, Visit, Dropdown}

// Field is a canonical field name, independent of any sheet's spelling.
type Field string

// Raw fields read from the sheets.
const (
	Region             Field = "region"
	Township           Field = "township"
	ServicePointRef    Field = "service_point"
	ServicePointCode   Field = "service_point_code"
	ReportingMonth     Field = "reporting_month"
	ScreeningDate      Field = "screening_date"
	AgeYear            Field = "age_year"
	Name               Field = "name"
	Sex                Field = "sex"
	RegistrationNumber Field = "registration_number"
	VisitDate          Field = "visit_date"
	ExamSputum         Field = "exam_sputum"
	ExamCXR            Field = "exam_cxr"
	ExamGeneXpert      Field = "exam_gene_xpert"
	ExamTruenat        Field = "exam_truenat"
	Result             Field = "result"
	Channel            Field = "channel"
	EnrolledDate       Field = "enrolled_date"
	PatientType        Field = "patient_type"
	ScreeningChannel   Field = "screening_channel"
	TPTRegimen         Field = "tpt_regimen"
	TPTStartDate       Field = "tpt_start_date"
	HIVStatus          Field = "hiv_status"
	TreatmentOutcome   Field = "treatment_outcome"
	TreatmentRegimen   Field = "treatment_regimen"
	DiseaseType        Field = "disease_type"
	BC                 Field = "bc"
	OutcomeDenominator Field = "tbo2a_d"
)

// Computed fields appended by the derivation pipeline.
const (
	PresumptiveTBReferred Field = "presumptive_tb_referred"
	TBDetected            Field = "tb_detected"
	BactConfirmedTB       Field = "bact_confirmed_tb"
	ResultCheck           Field = "result_check"
	DuplicateCheck        Field = "duplicate_check"
	OngoingTBCaseCheck    Field = "ongoing_tb_case_check"

	TBDT1               Field = "tbdt_1"
	TBDT3c              Field = "tbdt_3c"
	TBP1                Field = "tbp_1"
	TBHIV5              Field = "tbhiv_5"
	TBO2aN              Field = "tbo2a_n"
	ChannelScreening    Field = "channel_screening"
	BCScreening         Field = "bc_screening"
	TBDetectedScreening Field = "tb_detected_screening"
	RegimenCheck        Field = "regimen_check"
	TypeOfDiseaseCheck  Field = "type_of_disease_check"
	OutcomeCheck        Field = "outcome_check"
	TinCheck            Field = "tin_check"
)

// Schema maps table -> canonical field -> actual column name.
type Schema map[TableName]map[Field]string

// Default returns the column spellings used by the program workbook. The
// per-table variance is deliberate and must not be normalized.
func Default() Schema {
	return Schema{
		ServicePoint: {
			Region:           "State/Region",
			Township:         "Township",
			ServicePointCode: "Service delivery point code",
		},
		Screening: {
			Region:             "State / Region",
			Township:           "Township",
			ServicePointRef:    "Service delivery point",
			ReportingMonth:     "Reporting Month",
			ScreeningDate:      "Screening Date",
			AgeYear:            "Age_Year",
			Name:               "Name",
			Sex:                "Sex",
			RegistrationNumber: "Registration number",
			ExamSputum:         "Examination results_Sputum",
			ExamCXR:            "Examination results_CXR",
			ExamGeneXpert:      "Examination results_Gene Xpert",
			ExamTruenat:        "Examination results_Truenet",
			Result:             "Result",
			Channel:            "Channel",

			PresumptiveTBReferred: "Presumptive TB referred",
			TBDetected:            "TB Detected",
			BactConfirmedTB:       "Bact confirmed TB",
			ResultCheck:           "Result check",
			DuplicateCheck:        "Duplicate check",
			OngoingTBCaseCheck:    "Ongoing TB case check",
		},
		Patient: {
			Region:             "State/region",
			Township:           "Township",
			ServicePointRef:    "Service Delivery point",
			AgeYear:            "Age_Year",
			Name:               "Name",
			Sex:                "Sex",
			RegistrationNumber: "Registration number",
			EnrolledDate:       "Enrolled Date",
			PatientType:        "TB_Type of patient",
			ScreeningChannel:   "Channel_Screening",
			TPTRegimen:         "TPT_Treatment Regimen",
			TPTStartDate:       "TPT_Start date",
			HIVStatus:          "HIV status",
			TreatmentOutcome:   "TB_Treatment Outcome",
			TreatmentRegimen:   "TB_Treatment Regimen",
			DiseaseType:        "TB_Type of Disease",
			BC:                 "BC",
			OutcomeDenominator: "TBO2a_D",

			TBDT1:               "TBDT_1",
			TBDT3c:              "TBDT_3c",
			TBP1:                "TBP-1",
			TBHIV5:              "TBHIV_5",
			TBO2aN:              "TBO2a_N",
			ChannelScreening:    "Channel",
			BCScreening:         "BC_Screening",
			TBDetectedScreening: "TB Detected_Screening",
			RegimenCheck:        "Regimen check",
			TypeOfDiseaseCheck:  "Type of Disease check",
			OutcomeCheck:        "Outcome check",
			TinCheck:            "Tin check",
		},
		Visit: {
			RegistrationNumber: "Registration number",
			VisitDate:          "Visit date",
		},
	}
}

// Column returns the column a table uses for a field. Unmapped fields panic:
// they are programming errors, not data errors.
func (s Schema) Column(t TableName, f Field) string {
	col, ok := s[t][f]
	if !ok {
		panic(fmt.Sprintf("schema: no column mapped for %s.%s", t, f))
	}
	return col
}

// Lookup returns the column for a field and whether it is mapped.
func (s Schema) Lookup(t TableName, f Field) (string, bool) {
	col, ok := s[t][f]
	return col, ok
}

// WithOverrides returns a copy of the schema with the given column overrides
// applied. Unknown tables in the overrides are rejected.
func (s Schema) WithOverrides(overrides map[string]map[string]string) (Schema, error) {
	out := make(Schema, len(s))
	for t, fields := range s {
		out[t] = maps.Clone(fields)
	}
	for tbl, fields := range overrides {
		name := TableName(tbl)
		if _, ok := out[name]; !ok {
			return nil, fmt.Errorf("unknown table %q in column overrides (known: %v)", tbl, s.Tables())
		}
		for f, col := range fields {
			out[name][Field(f)] = col
		}
	}
	return out, nil
}

// Tables returns the tables that carry a mapping, sorted.
func (s Schema) Tables() []string {
	names := make([]string, 0, len(s))
	for t := range s {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return names
}

// Label returns the display name of a table, as used in rule names.
func (t TableName) Label() string {
	switch t {
	case ServicePoint:
		return "Service Point"
	case Screening:
		return "Screening"
	case Patient:
		return "Patient"
	case Visit:
		return "Visit"
	case Dropdown:
		return "Dropdown"
	default:
		return string(t)
	}
}
