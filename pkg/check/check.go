package check

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/tbcheck/pkg/table"
)

// ViolationSet holds the positions of failing records in their source table,
// ascending and without duplicates. An empty, non-nil set means the rule ran
// and found nothing.
type ViolationSet []int

// Len returns the number of violations.
func (v ViolationSet) Len() int { return len(v) }

// Contains reports whether record i is in the set.
func (v ViolationSet) Contains(i int) bool {
	_, found := slices.BinarySearch(v, i)
	return found
}

// collector accumulates failing positions. Positions are added in ascending
// order; repeated adds of the last position are dropped.
type collector struct {
	set ViolationSet
}

func newCollector() *collector {
	return &collector{set: ViolationSet{}}
}

func (c *collector) add(i int) {
	if n := len(c.set); n > 0 && c.set[n-1] == i {
		return
	}
	c.set = append(c.set, i)
}

// MissingColumnError reports a rule referencing a column its table lacks.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found in table %q", e.Column, e.Table)
}

// RequireColumns returns a MissingColumnError for the first absent column.
func RequireColumns(t *table.Table, cols ...string) error {
	for _, c := range cols {
		if !t.HasColumn(c) {
			name := ""
			if t != nil {
				name = t.Name
			}
			return &MissingColumnError{Table: name, Column: c}
		}
	}
	return nil
}
