package check

import (
	"time"

	"github.com/leapstack-labs/tbcheck/pkg/catalog"
	"github.com/leapstack-labs/tbcheck/pkg/table"
)

// ProgramEpoch is the earliest acceptable date when no minimum is given.
var ProgramEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Default numeric bounds.
const (
	DefaultMin = 0
	DefaultMax = 100
)

// Membership flags records whose value is missing or not in allowed.
func Membership(t *table.Table, col string, allowed catalog.Set) (ViolationSet, error) {
	if err := RequireColumns(t, col); err != nil {
		return nil, err
	}
	out := newCollector()
	for i, rec := range t.Records {
		v, ok := table.Text(rec[col])
		if !ok || !allowed.Has(v) {
			out.add(i)
		}
	}
	return out.set, nil
}

// RegionTownship flags records whose region is unknown or whose township is
// not listed under that region.
func RegionTownship(t *table.Table, regionCol, townshipCol string, c *catalog.Catalog) (ViolationSet, error) {
	if err := RequireColumns(t, regionCol, townshipCol); err != nil {
		return nil, err
	}
	out := newCollector()
	for i, rec := range t.Records {
		region, _ := table.Text(rec[regionCol])
		township, hasTownship := table.Text(rec[townshipCol])
		if !hasTownship || !c.HasTownship(region, township) {
			out.add(i)
		}
	}
	return out.set, nil
}

// ForeignKey flags records whose value does not appear in refCol of ref.
func ForeignKey(t *table.Table, col string, ref *table.Table, refCol string) (ViolationSet, error) {
	if err := RequireColumns(t, col); err != nil {
		return nil, err
	}
	if err := RequireColumns(ref, refCol); err != nil {
		return nil, err
	}
	keys := table.NewIndex(ref, refCol)
	out := newCollector()
	for i, rec := range t.Records {
		if !keys.Contains(rec[col]) {
			out.add(i)
		}
	}
	return out.set, nil
}

// DateRange flags records whose value is not a date within [min, max],
// compared by calendar day. A zero min means ProgramEpoch; a zero max means
// today.
func DateRange(t *table.Table, col string, min, max time.Time) (ViolationSet, error) {
	if err := RequireColumns(t, col); err != nil {
		return nil, err
	}
	if min.IsZero() {
		min = ProgramEpoch
	}
	if max.IsZero() {
		max = time.Now()
	}
	lo, hi := table.Truncate(min), table.Truncate(max)

	out := newCollector()
	for i, rec := range t.Records {
		d, ok := table.Date(rec[col])
		if !ok {
			out.add(i)
			continue
		}
		day := table.Truncate(d)
		if day.Before(lo) || day.After(hi) {
			out.add(i)
		}
	}
	return out.set, nil
}

// NumericRange flags records whose value is not a number within [min, max].
func NumericRange(t *table.Table, col string, min, max float64) (ViolationSet, error) {
	if err := RequireColumns(t, col); err != nil {
		return nil, err
	}
	out := newCollector()
	for i, rec := range t.Records {
		n, ok := table.Number(rec[col])
		if !ok || n < min || n > max {
			out.add(i)
		}
	}
	return out.set, nil
}
