// Package validate runs the fixed set of table validation rules.
//
// # Rule Registration
//
// Rules register themselves from init() when their package is imported:
//
//	import _ "github.com/leapstack-labs/tbcheck/pkg/validate/rules"
//
// The registry keeps registration order, which is also the reporting order.
//
// # Configuration
//
// Config disables rules, overrides severities and carries the date and
// numeric bounds the range rules read:
//
//	cfg := validate.NewConfig()
//	cfg.Disable("Screening_sex_prefix")
//	cfg.SetSeverity("Screening_duplicates", core.SeverityWarning)
//
// # Isolation
//
// The Runner evaluates every rule inside its own capture. A rule that
// returns an error or panics records that error on its Result; the other
// rules still run and report.
package validate
