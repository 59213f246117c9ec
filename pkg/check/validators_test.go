package check

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tbcheck/pkg/catalog"
	"github.com/leapstack-labs/tbcheck/pkg/table"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		RegionTownships: map[string]catalog.Set{
			"Yangon":   catalog.NewSet("Hlaing", "Insein"),
			"Mandalay": catalog.NewSet("Aungmyethazan"),
		},
		VariableValues: map[string]catalog.Set{
			"Reporting Month": catalog.NewSet("Jan-24", "Feb-24"),
		},
	}
}

func TestMembership(t *testing.T) {
	tbl := table.New("Screening", []string{"Reporting Month"},
		[]any{"Jan-24"},
		[]any{"Mar-24"},
		[]any{nil},
		[]any{""},
		[]any{"jan-24"},
	)

	got, err := Membership(tbl, "Reporting Month", testCatalog().Values("Reporting Month"))
	require.NoError(t, err)
	assert.Equal(t, ViolationSet{1, 2, 3, 4}, got)
}

func TestMembership_UnknownVariableFlagsEverything(t *testing.T) {
	tbl := table.New("Screening", []string{"Reporting Month"}, []any{"Jan-24"}, []any{"Feb-24"})

	got, err := Membership(tbl, "Reporting Month", testCatalog().Values("Nope"))
	require.NoError(t, err)
	assert.Equal(t, ViolationSet{0, 1}, got)
}

func TestMembership_NoViolationsIsEmptyNotNil(t *testing.T) {
	tbl := table.New("Screening", []string{"State / Region"}, []any{"Yangon"})

	got, err := Membership(tbl, "State / Region", testCatalog().Regions())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMembership_MissingColumn(t *testing.T) {
	tbl := table.New("Screening", []string{"State/Region"}, []any{"Yangon"})

	_, err := Membership(tbl, "State / Region", testCatalog().Regions())
	var mc *MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, "Screening", mc.Table)
	assert.Equal(t, "State / Region", mc.Column)
}

func TestRegionTownship(t *testing.T) {
	tests := []struct {
		name     string
		region   any
		township any
		flagged  bool
	}{
		{"known pair", "Yangon", "Hlaing", false},
		{"township under other region", "Yangon", "Aungmyethazan", true},
		{"unknown region", "Bago", "Hlaing", true},
		{"missing region", nil, "Hlaing", true},
		{"missing township", "Yangon", nil, true},
		{"case differs", "yangon", "Hlaing", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := table.New("Patient", []string{"State/region", "Township"}, []any{tt.region, tt.township})

			got, err := RegionTownship(tbl, "State/region", "Township", testCatalog())
			require.NoError(t, err)
			assert.Equal(t, tt.flagged, got.Contains(0))
		})
	}
}

func TestForeignKey(t *testing.T) {
	service := table.New("Service Point", []string{"Service delivery point code"},
		[]any{"SP01"}, []any{"SP02"}, []any{int64(3)},
	)
	screen := table.New("Screening", []string{"Service delivery point"},
		[]any{"SP01"}, []any{"SP09"}, []any{nil}, []any{3}, []any{"SP02"},
	)

	got, err := ForeignKey(screen, "Service delivery point", service, "Service delivery point code")
	require.NoError(t, err)
	assert.Equal(t, ViolationSet{1, 2}, got)
}

func TestForeignKey_MissingReferenceColumn(t *testing.T) {
	service := table.New("Service Point", []string{"Code"})
	screen := table.New("Screening", []string{"Service delivery point"}, []any{"SP01"})

	_, err := ForeignKey(screen, "Service delivery point", service, "Service delivery point code")
	var mc *MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, "Service Point", mc.Table)
}

func TestForeignKey_EmptyReferenceFlagsAll(t *testing.T) {
	patient := table.New("Patient", []string{"Registration number"})
	visit := table.New("Visit", []string{"Registration number"}, []any{"R1"}, []any{"R2"})

	got, err := ForeignKey(visit, "Registration number", patient, "Registration number")
	require.NoError(t, err)
	assert.Equal(t, ViolationSet{0, 1}, got)
}

func TestDateRange(t *testing.T) {
	max := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	tbl := table.New("Visit", []string{"Visit date"},
		[]any{"2024-01-01"},
		[]any{"2023-12-31"},
		[]any{"2024-06-30"},
		[]any{time.Date(2024, 6, 30, 18, 0, 0, 0, time.UTC)},
		[]any{"2024-07-01"},
		[]any{"soon"},
		[]any{nil},
		[]any{time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)},
	)

	got, err := DateRange(tbl, "Visit date", time.Time{}, max)
	require.NoError(t, err)
	assert.Equal(t, ViolationSet{1, 4, 5, 6}, got)
}

func TestDateRange_DefaultMaxIsToday(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	today := time.Now().Format("2006-01-02")
	tbl := table.New("Visit", []string{"Visit date"}, []any{today}, []any{tomorrow})

	got, err := DateRange(tbl, "Visit date", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, ViolationSet{1}, got)
}

func TestNumericRange(t *testing.T) {
	tests := []struct {
		name    string
		v       any
		flagged bool
	}{
		{"above max", "150", true},
		{"in range", "50", false},
		{"text", "abc", true},
		{"empty", "", true},
		{"nil", nil, true},
		{"lower bound", 0, false},
		{"upper bound", 100.0, false},
		{"negative", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := table.New("Screening", []string{"Age_Year"}, []any{tt.v})

			got, err := NumericRange(tbl, "Age_Year", DefaultMin, DefaultMax)
			require.NoError(t, err)
			assert.Equal(t, tt.flagged, got.Contains(0))
		})
	}
}

func TestViolationSet_IndicesInRangeAndUnique(t *testing.T) {
	tbl := table.New("Screening", []string{"Name", "Sex", "Age_Year"},
		[]any{"Ma Hla", "M", "x"},
		[]any{"U Ba", "Female", 200},
		[]any{"Ma Hla", "M", "x"},
	)

	sets := []ViolationSet{}
	for _, run := range []func() (ViolationSet, error){
		func() (ViolationSet, error) { return NamePrefix(tbl, "Name", "Sex") },
		func() (ViolationSet, error) { return NumericRange(tbl, "Age_Year", 0, 100) },
		func() (ViolationSet, error) { return Duplicates(tbl, "Name", "Sex") },
	} {
		s, err := run()
		require.NoError(t, err)
		sets = append(sets, s)
	}

	for _, s := range sets {
		seen := map[int]bool{}
		for _, i := range s {
			assert.GreaterOrEqual(t, i, 0)
			assert.Less(t, i, tbl.Len())
			assert.False(t, seen[i], "duplicate index %d", i)
			seen[i] = true
		}
	}
}
