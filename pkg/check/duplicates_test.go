package check

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tbcheck/pkg/table"
)

func TestDuplicates_FlagsEveryMember(t *testing.T) {
	tbl := table.New("Patient", []string{"Registration number"},
		[]any{"R1"},
		[]any{"R2"},
		[]any{"R1"},
		[]any{"R3"},
		[]any{"R1"},
	)

	got, err := Duplicates(tbl, "Registration number")
	require.NoError(t, err)
	assert.Equal(t, ViolationSet{0, 2, 4}, got)
}

func TestDuplicates_Symmetric(t *testing.T) {
	tbl := table.New("Screening", []string{"Name", "Age_Year"},
		[]any{"Ma Hla", 30},
		[]any{"Ma Hla", "30"},
	)

	got, err := Duplicates(tbl, "Name", "Age_Year")
	require.NoError(t, err)
	assert.True(t, got.Contains(0))
	assert.True(t, got.Contains(1))
}

func TestDuplicates_MissingCellsCompareEqual(t *testing.T) {
	tbl := table.New("Screening", []string{"Name", "Sex"},
		[]any{"Ma Hla", nil},
		[]any{"Ma Hla", ""},
		[]any{"Ma Hla", "F"},
	)

	got, err := Duplicates(tbl, "Name", "Sex")
	require.NoError(t, err)
	assert.Equal(t, ViolationSet{0, 1}, got)
}

func TestDuplicates_TupleBoundariesRespected(t *testing.T) {
	tbl := table.New("t", []string{"a", "b"},
		[]any{"ab", "c"},
		[]any{"a", "bc"},
	)

	got, err := Duplicates(tbl, "a", "b")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDuplicateGroups_OrderedByFirstPosition(t *testing.T) {
	tbl := table.New("t", []string{"k"},
		[]any{"b"}, []any{"a"}, []any{"b"}, []any{"a"}, []any{"c"},
	)

	groups, err := DuplicateGroups(tbl, "k")
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 2}, {1, 3}}, groups)
}

func TestDuplicates_MissingColumn(t *testing.T) {
	tbl := table.New("Patient", []string{"Registration number"})

	_, err := Duplicates(tbl, "Registration number", "Name")
	require.Error(t, err)
}

func TestDuplicateGroups_ManyDistinctKeys(t *testing.T) {
	rows := make([][]any, 0, 1001)
	for i := range 1000 {
		rows = append(rows, []any{fmt.Sprintf("R%04d", i), i % 7})
	}
	rows = append(rows, []any{"R0500", 500 % 7})
	tbl := table.New("Patient", []string{"Registration number", "Age_Year"}, rows...)

	groups, err := DuplicateGroups(tbl, "Registration number", "Age_Year")
	require.NoError(t, err)
	assert.Equal(t, [][]int{{500, 1000}}, groups)
}
