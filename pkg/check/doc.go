// Package check implements the field validators.
//
// Every validator reads an immutable table and returns the ViolationSet of
// records that fail its rule. Validators never skip a record they cannot
// read: missing or unparseable values are violations. The only error a
// validator returns is a MissingColumnError, when the rule names a column
// the table does not declare.
package check
