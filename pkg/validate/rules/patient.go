package rules

import (
	"github.com/leapstack-labs/tbcheck/pkg/core"
	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/validate"
)

// PatientInvalidState flags patients whose region is not in the catalog.
var PatientInvalidState = validate.RuleDef{
	Name:        "Patient_invalid_state",
	Table:       schema.Patient,
	Kind:        validate.KindMembership,
	Description: "State/region must be a region listed in the dropdown catalog",
	Severity:    core.SeverityError,
	Fields:      []schema.Field{schema.Region},
	Check:       regionCheck(schema.Patient),
}

// PatientInvalidTownship flags patients whose township is not under their region.
var PatientInvalidTownship = validate.RuleDef{
	Name:        "Patient_invalid_township",
	Table:       schema.Patient,
	Kind:        validate.KindRegionTownship,
	Description: "Township must be listed under the record's State/region",
	Severity:    core.SeverityError,
	Fields:      []schema.Field{schema.Region, schema.Township},
	Check:       townshipCheck(schema.Patient),
}

// PatientInvalidServicePoint flags patients at an unknown service point.
var PatientInvalidServicePoint = validate.RuleDef{
	Name:        "Patient_invalid_service_point",
	Table:       schema.Patient,
	Kind:        validate.KindForeignKey,
	Description: "Service Delivery point must match a Service Point code",
	Severity:    core.SeverityError,
	Fields:      []schema.Field{schema.ServicePointRef},
	Check:       servicePointCheck(schema.Patient),
}

// PatientDuplicateRegistration flags registration numbers used by more than one patient.
var PatientDuplicateRegistration = validate.RuleDef{
	Name:        "Patient_invalid_registration_number_duplicate",
	Table:       schema.Patient,
	Kind:        validate.KindDuplicate,
	Description: "Registration number must be unique across patients",
	Severity:    core.SeverityError,
	Fields:      []schema.Field{schema.RegistrationNumber},
	Check:       duplicateCheck(schema.Patient, schema.RegistrationNumber),
}

// PatientInvalidAgeYear flags unreadable or out-of-range ages.
var PatientInvalidAgeYear = validate.RuleDef{
	Name:        "Patient_invalid_age_year",
	Table:       schema.Patient,
	Kind:        validate.KindNumericRange,
	Description: "Age_Year must be a number between 0 and 100",
	Severity:    core.SeverityError,
	Fields:      []schema.Field{schema.AgeYear},
	Check:       ageCheck(schema.Patient),
}

// PatientSexPrefix flags names whose honorific contradicts Sex.
var PatientSexPrefix = validate.RuleDef{
	Name:        "Patient_sex_prefix",
	Table:       schema.Patient,
	Kind:        validate.KindNamePrefix,
	Description: "Name prefix (Ma, Daw / Mg, U, Ko) must agree with Sex",
	Severity:    core.SeverityWarning,
	Fields:      []schema.Field{schema.Name, schema.Sex},
	Check:       prefixCheck(schema.Patient),
}
