// Package table provides the in-memory tabular model the engine works on.
//
// A Table is an ordered list of column names plus a slice of records, each
// record mapping column name to value. Values are whatever the data source
// produced: string, integer, float, time.Time, bool or nil. The helpers in
// this package give every consumer the same reading of those values
// (missing, textual form, number, date) so that rules and derivations agree
// on what a cell means regardless of where the sheet was loaded from.
package table
