package table

import "slices"

// Record is a single row keyed by column name.
type Record map[string]any

// Table is an ordered sequence of records sharing a column list.
type Table struct {
	Name    string
	Columns []string
	Records []Record
}

// New creates a table from positional rows. Each row is matched to columns by
// position; short rows leave the trailing cells missing.
func New(name string, columns []string, rows ...[]any) *Table {
	t := &Table{
		Name:    name,
		Columns: slices.Clone(columns),
		Records: make([]Record, 0, len(rows)),
	}
	for _, row := range rows {
		rec := make(Record, len(columns))
		for i, col := range columns {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = nil
			}
		}
		t.Records = append(t.Records, rec)
	}
	return t
}

// Len returns the number of records. A nil table has zero records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// IsEmpty reports whether the table has no records.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// HasColumn reports whether the column is declared on the table.
// Matching is exact and case-sensitive.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	return slices.Contains(t.Columns, name)
}

// Value returns the value at record i, column col (nil when absent).
func (t *Table) Value(i int, col string) any {
	return t.Records[i][col]
}

// Column returns the values of a column in record order.
func (t *Table) Column(name string) []any {
	out := make([]any, len(t.Records))
	for i, rec := range t.Records {
		out[i] = rec[name]
	}
	return out
}

// Position returns the value of the column at the given ordinal position.
// Used by positional readers such as the dropdown catalog parser.
func (t *Table) Position(i, pos int) any {
	if pos < 0 || pos >= len(t.Columns) {
		return nil
	}
	return t.Records[i][t.Columns[pos]]
}

// Clone returns a copy whose column list and records can be modified without
// touching the receiver. Cell values themselves are shared (they are immutable).
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Name:    t.Name,
		Columns: slices.Clone(t.Columns),
		Records: make([]Record, len(t.Records)),
	}
	for i, rec := range t.Records {
		cp := make(Record, len(rec)+4)
		for k, v := range rec {
			cp[k] = v
		}
		out.Records[i] = cp
	}
	return out
}

// SetColumn assigns values to a column, appending the column name when it is
// new. len(values) must equal Len().
func (t *Table) SetColumn(name string, values []any) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
	for i, rec := range t.Records {
		rec[name] = values[i]
	}
}

// Subset returns a table holding the records at the given indices, in the
// order given. Records are shared with the receiver.
func (t *Table) Subset(indices []int) *Table {
	out := &Table{
		Name:    t.Name,
		Columns: slices.Clone(t.Columns),
		Records: make([]Record, 0, len(indices)),
	}
	for _, i := range indices {
		out.Records = append(out.Records, t.Records[i])
	}
	return out
}
