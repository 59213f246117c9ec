package rules

import (
	"github.com/leapstack-labs/tbcheck/pkg/core"
	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/validate"
)

// VisitInvalidRegistrationNumber flags visits for unknown patients.
var VisitInvalidRegistrationNumber = validate.RuleDef{
	Name:        "Visit_invalid_registration_number",
	Table:       schema.Visit,
	Kind:        validate.KindForeignKey,
	Description: "Registration number must match a Patient registration number",
	Severity:    core.SeverityError,
	Fields:      []schema.Field{schema.RegistrationNumber},
	Check:       registrationCheck(schema.Visit),
}

// VisitInvalidVisitDate flags unreadable or out-of-range visit dates.
var VisitInvalidVisitDate = validate.RuleDef{
	Name:        "Visit_invalid_visit_date",
	Table:       schema.Visit,
	Kind:        validate.KindDateRange,
	Description: "Visit date must be a date between the program start and today",
	Severity:    core.SeverityError,
	Fields:      []schema.Field{schema.VisitDate},
	Check:       dateCheck(schema.Visit, schema.VisitDate),
}

// ServiceInvalidState flags service points whose region is not in the catalog.
var ServiceInvalidState = validate.RuleDef{
	Name:        "Service_invalid_state",
	Table:       schema.ServicePoint,
	Kind:        validate.KindMembership,
	Description: "State/Region must be a region listed in the dropdown catalog",
	Severity:    core.SeverityError,
	Fields:      []schema.Field{schema.Region},
	Check:       regionCheck(schema.ServicePoint),
}

// ServiceInvalidTownship flags service points whose township is not under their region.
var ServiceInvalidTownship = validate.RuleDef{
	Name:        "Service_invalid_township",
	Table:       schema.ServicePoint,
	Kind:        validate.KindRegionTownship,
	Description: "Township must be listed under the record's State/Region",
	Severity:    core.SeverityError,
	Fields:      []schema.Field{schema.Region, schema.Township},
	Check:       townshipCheck(schema.ServicePoint),
}
