// Package core defines the shared language of the tbcheck system.
//
// This package contains:
//   - Severity levels attached to validation rules
//   - Rule metadata (RuleInfo) used by the CLI and reports
//   - Data source configuration (SourceConfig) and the Rows wrapper
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
