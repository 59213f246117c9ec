package check

import (
	"sort"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/leapstack-labs/tbcheck/pkg/table"
)

// keySep separates key parts; missingPart stands in for a missing cell so
// that two missing cells compare equal.
const (
	keySep      = '\x1f'
	missingPart = '\x00'
)

// DuplicateGroups groups record positions by the tuple of values in cols and
// returns the groups with two or more members, ordered by first position.
// Tuples are grouped by their 128-bit xxh3 hash alone; the joined key text is
// not retained.
func DuplicateGroups(t *table.Table, cols ...string) ([][]int, error) {
	if err := RequireColumns(t, cols...); err != nil {
		return nil, err
	}

	seen := make(map[xxh3.Uint128][]int, t.Len())
	order := make([]xxh3.Uint128, 0, t.Len())
	var b strings.Builder
	for i, rec := range t.Records {
		b.Reset()
		for j, c := range cols {
			if j > 0 {
				b.WriteByte(keySep)
			}
			if s, ok := table.Text(rec[c]); ok {
				b.WriteString(s)
			} else {
				b.WriteByte(missingPart)
			}
		}
		h := xxh3.HashString128(b.String())
		if _, ok := seen[h]; !ok {
			order = append(order, h)
		}
		seen[h] = append(seen[h], i)
	}

	var groups [][]int
	for _, h := range order {
		if rows := seen[h]; len(rows) > 1 {
			groups = append(groups, rows)
		}
	}
	return groups, nil
}

// Duplicates flags every record whose key tuple over cols is shared with at
// least one other record. All members of a repeated tuple are flagged, not
// just the later occurrences.
func Duplicates(t *table.Table, cols ...string) (ViolationSet, error) {
	groups, err := DuplicateGroups(t, cols...)
	if err != nil {
		return nil, err
	}
	set := ViolationSet{}
	for _, g := range groups {
		set = append(set, g...)
	}
	sort.Ints(set)
	return set, nil
}
