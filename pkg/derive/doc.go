// Package derive computes the indicator columns appended to the Screening
// and Patient sheets.
//
// A Pipeline is an ordered list of Steps. Each step reads the working copy
// of its table, including columns written by earlier steps, and may look up
// a single related record by registration number. Pipelines never modify
// their inputs: Apply clones the source table first, so running a pipeline
// twice over the same inputs yields identical tables.
//
// Joins take the first related record carrying the key. When the related
// table is empty or lacks the looked-up column, joined values default to
// the empty string; when it has the column but no record matches, the value
// is missing (nil).
package derive
