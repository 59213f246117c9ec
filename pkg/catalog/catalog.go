// Package catalog parses the reference vocabularies held in the Dropdown sheet.
//
// The Dropdown sheet carries two blocks one above the other: region/township
// pairs, then variable/value pairs. Both are read positionally (first and
// second column) from fixed row ranges described by Layout.
package catalog

import (
	"sort"

	"github.com/leapstack-labs/tbcheck/pkg/table"
)

// Set is a set of exact, case-sensitive strings.
type Set map[string]struct{}

// NewSet builds a set from values.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports whether v is in the set.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Layout locates the two blocks inside the Dropdown sheet as half-open row
// ranges [start, end). These offsets appear nowhere else.
type Layout struct {
	RegionRows   [2]int
	VariableRows [2]int
}

// DefaultLayout matches the program workbook: A1:B359 and A361:B482 after
// the header row.
func DefaultLayout() Layout {
	return Layout{
		RegionRows:   [2]int{0, 359},
		VariableRows: [2]int{361, 482},
	}
}

// Catalog holds the reference mappings. It is built once per run and is
// read-only afterwards.
type Catalog struct {
	RegionTownships map[string]Set
	VariableValues  map[string]Set
}

// Build parses the dropdown table with the default layout.
func Build(dropdown *table.Table) *Catalog {
	return BuildWithLayout(dropdown, DefaultLayout())
}

// BuildWithLayout parses the dropdown table using the given row ranges. A
// table shorter than the ranges yields a smaller catalog; rows with a missing
// cell in either column are skipped.
func BuildWithLayout(dropdown *table.Table, layout Layout) *Catalog {
	return &Catalog{
		RegionTownships: readBlock(dropdown, layout.RegionRows),
		VariableValues:  readBlock(dropdown, layout.VariableRows),
	}
}

func readBlock(t *table.Table, rows [2]int) map[string]Set {
	out := make(map[string]Set)
	start, end := clamp(rows[0], t.Len()), clamp(rows[1], t.Len())
	for i := start; i < end; i++ {
		key, ok := table.Text(t.Position(i, 0))
		if !ok {
			continue
		}
		val, ok := table.Text(t.Position(i, 1))
		if !ok {
			continue
		}
		set, exists := out[key]
		if !exists {
			set = make(Set)
			out[key] = set
		}
		set[val] = struct{}{}
	}
	return out
}

func clamp(n, limit int) int {
	if n < 0 {
		return 0
	}
	if n > limit {
		return limit
	}
	return n
}

// Regions returns the set of known region names.
func (c *Catalog) Regions() Set {
	s := make(Set, len(c.RegionTownships))
	for r := range c.RegionTownships {
		s[r] = struct{}{}
	}
	return s
}

// HasTownship reports whether township is listed under region. Unknown
// regions have no townships.
func (c *Catalog) HasTownship(region, township string) bool {
	towns, ok := c.RegionTownships[region]
	return ok && towns.Has(township)
}

// Values returns the allowed values for a variable. Unknown variables yield
// an empty set, so every value fails membership against them.
func (c *Catalog) Values(variable string) Set {
	if s, ok := c.VariableValues[variable]; ok {
		return s
	}
	return Set{}
}

// Variables returns the variable names in lexical order.
func (c *Catalog) Variables() []string {
	out := make([]string, 0, len(c.VariableValues))
	for v := range c.VariableValues {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// RegionNames returns the region names in lexical order.
func (c *Catalog) RegionNames() []string {
	return c.Regions().Sorted()
}

// Stats summarizes catalog size for logging.
type Stats struct {
	Regions   int
	Townships int
	Variables int
	Values    int
}

// Stats counts regions, townships, variables and values.
func (c *Catalog) Stats() Stats {
	st := Stats{Regions: len(c.RegionTownships), Variables: len(c.VariableValues)}
	for _, s := range c.RegionTownships {
		st.Townships += len(s)
	}
	for _, s := range c.VariableValues {
		st.Values += len(s)
	}
	return st
}
