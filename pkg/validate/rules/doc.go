// Package rules defines the fixed validation rule set for the program
// workbook and registers it with the validate registry from init().
//
// Import it for side effects:
//
//	import _ "github.com/leapstack-labs/tbcheck/pkg/validate/rules"
package rules
