package rules

import (
	"github.com/leapstack-labs/tbcheck/pkg/core"
	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/validate"
)

// ScreeningInvalidState flags screenings whose region is not in the catalog.
var ScreeningInvalidState = validate.RuleDef{
	Name:        "Screening_invalid_state",
	Table:       schema.Screening,
	Kind:        validate.KindMembership,
	Description: "State / Region must be a region listed in the dropdown catalog",
	Severity:    core.SeverityError,
	Fields:      []schema.Field{schema.Region},
	Check:       regionCheck(schema.Screening),
}

// ScreeningInvalidTownship flags screenings whose township is not under their region.
var ScreeningInvalidTownship = validate.RuleDef{
	Name:        "Screening_invalid_township",
	Table:       schema.Screening,
	Kind:        validate.KindRegionTownship,
	Description: "Township must be listed under the record's State / Region",
	Severity:    core.SeverityError,
	Fields:      []schema.Field{schema.Region, schema.Township},
	Check:       townshipCheck(schema.Screening),
}

// ScreeningInvalidServicePoint flags screenings at an unknown service point.
var ScreeningInvalidServicePoint = validate.RuleDef{
	Name:        "Screening_invalid_service_point",
	Table:       schema.Screening,
	Kind:        validate.KindForeignKey,
	Description: "Service delivery point must match a Service Point code",
	Severity:    core.SeverityError,
	Fields:      []schema.Field{schema.ServicePointRef},
	Check:       servicePointCheck(schema.Screening),
}

// ScreeningInvalidReportingMonth flags screenings with an unlisted reporting month.
var ScreeningInvalidReportingMonth = validate.RuleDef{
	Name:        "Screening_invalid_reporting_month",
	Table:       schema.Screening,
	Kind:        validate.KindMembership,
	Description: "Reporting Month must be one of the dropdown values for Reporting Month",
	Severity:    core.SeverityError,
	Fields:      []schema.Field{schema.ReportingMonth},
	Check:       reportingMonthCheck,
}

// ScreeningInvalidScreeningDate flags unreadable or out-of-range screening dates.
var ScreeningInvalidScreeningDate = validate.RuleDef{
	Name:        "Screening_invalid_screening_date",
	Table:       schema.Screening,
	Kind:        validate.KindDateRange,
	Description: "Screening Date must be a date between the program start and today",
	Severity:    core.SeverityError,
	Fields:      []schema.Field{schema.ScreeningDate},
	Check:       dateCheck(schema.Screening, schema.ScreeningDate),
}

// ScreeningInvalidAgeYear flags unreadable or out-of-range ages.
var ScreeningInvalidAgeYear = validate.RuleDef{
	Name:        "Screening_invalid_age_year",
	Table:       schema.Screening,
	Kind:        validate.KindNumericRange,
	Description: "Age_Year must be a number between 0 and 100",
	Severity:    core.SeverityError,
	Fields:      []schema.Field{schema.AgeYear},
	Check:       ageCheck(schema.Screening),
}

// ScreeningSexPrefix flags names whose honorific contradicts Sex.
var ScreeningSexPrefix = validate.RuleDef{
	Name:        "Screening_sex_prefix",
	Table:       schema.Screening,
	Kind:        validate.KindNamePrefix,
	Description: "Name prefix (Ma, Daw / Mg, U, Ko) must agree with Sex",
	Severity:    core.SeverityWarning,
	Fields:      []schema.Field{schema.Name, schema.Sex},
	Check:       prefixCheck(schema.Screening),
}

// ScreeningInvalidRegistrationNumber flags screenings not linked to a patient.
var ScreeningInvalidRegistrationNumber = validate.RuleDef{
	Name:        "Screening_invalid_registration_number",
	Table:       schema.Screening,
	Kind:        validate.KindForeignKey,
	Description: "Registration number must match a Patient registration number",
	Severity:    core.SeverityError,
	Fields:      []schema.Field{schema.RegistrationNumber},
	Check:       registrationCheck(schema.Screening),
}

// ScreeningDuplicates flags repeated screening events.
var ScreeningDuplicates = validate.RuleDef{
	Name:        "Screening_duplicates",
	Table:       schema.Screening,
	Kind:        validate.KindDuplicate,
	Description: "Service point, name, age, sex and screening date together must be unique",
	Severity:    core.SeverityWarning,
	Fields:      ScreeningDuplicateKey,
	Check:       duplicateCheck(schema.Screening, ScreeningDuplicateKey...),
}
