package rules

import "github.com/leapstack-labs/tbcheck/pkg/validate"

// All returns the rule set in reporting order.
func All() []validate.RuleDef {
	return []validate.RuleDef{
		ScreeningInvalidState,
		ScreeningInvalidTownship,
		ScreeningInvalidServicePoint,
		ScreeningInvalidReportingMonth,
		ScreeningInvalidScreeningDate,
		ScreeningInvalidAgeYear,
		ScreeningSexPrefix,
		ScreeningInvalidRegistrationNumber,
		ScreeningDuplicates,
		PatientInvalidState,
		PatientInvalidTownship,
		PatientInvalidServicePoint,
		PatientDuplicateRegistration,
		PatientInvalidAgeYear,
		PatientSexPrefix,
		VisitInvalidRegistrationNumber,
		VisitInvalidVisitDate,
		ServiceInvalidState,
		ServiceInvalidTownship,
	}
}

func init() {
	for _, r := range All() {
		validate.Register(r)
	}
}
