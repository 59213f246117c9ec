package duckdb

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tbcheck/internal/source"
	"github.com/leapstack-labs/tbcheck/internal/testutil"
	"github.com/leapstack-labs/tbcheck/pkg/table"
)

func TestDecodeParams(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		want    Params
		wantErr bool
	}{
		{
			name: "nil params",
			raw:  nil,
			want: Params{Extension: ".csv"},
		},
		{
			name: "all fields",
			raw: map[string]any{
				"extension":   ".tsv",
				"delimiter":   "\t",
				"all_varchar": "true",
				"settings":    map[string]any{"threads": "2"},
			},
			want: Params{
				Extension:  ".tsv",
				Delimiter:  "\t",
				AllVarchar: true,
				Settings:   map[string]string{"threads": "2"},
			},
		},
		{
			name:    "invalid setting name",
			raw:     map[string]any{"settings": map[string]any{"threads = 1; DROP TABLE x; --": "2"}},
			wantErr: true,
		},
		{
			name:    "unknown key",
			raw:     map[string]any{"extensions": []string{"httpfs"}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeParams(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCSVQuery(t *testing.T) {
	assert.Equal(t,
		"SELECT * FROM read_csv_auto('/data/Visit data.csv', header=true)",
		csvQuery("/data/Visit data.csv", Params{Extension: ".csv"}))
	assert.Equal(t,
		"SELECT * FROM read_csv_auto('/data/x.csv', header=true, all_varchar=true, delim=';')",
		csvQuery("/data/x.csv", Params{AllVarchar: true, Delimiter: ";"}))
}

func TestSource_ReadTableFromDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "Service Point"`)).
		WillReturnRows(sqlmock.NewRows([]string{"State/Region", "Township"}).AddRow("Yangon", "Hlaing"))

	src := New(testutil.NewTestLogger(t))
	src.DB = db

	got, err := src.ReadTable(context.Background(), "Service Point")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, "Hlaing", got.Records[0]["Township"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSource_NotConnected(t *testing.T) {
	_, err := New(nil).ReadTable(context.Background(), "Screening")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database connection not established")
}

func TestSource_ReadsCSVDirectory(t *testing.T) {
	dir := t.TempDir()
	csv := "Registration number,Visit date,Age_Year\nR001,2024-03-01,35\nR002,,10\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Visit data.csv"), []byte(csv), 0o600))

	src := New(testutil.NewTestLogger(t))
	require.NoError(t, src.Connect(context.Background(), source.Config{Type: "duckdb", Dir: dir}))
	defer func() { _ = src.Close() }()

	assert.Equal(t, filepath.Join(dir, "Visit data.csv"), src.SheetPath("Visit data"))

	got, err := src.ReadTable(context.Background(), "Visit data")
	require.NoError(t, err)
	assert.Equal(t, []string{"Registration number", "Visit date", "Age_Year"}, got.Columns)
	require.Equal(t, 2, got.Len())

	reg, _ := table.Text(got.Records[0]["Registration number"])
	assert.Equal(t, "R001", reg)
	visit, ok := table.Date(got.Records[0]["Visit date"])
	require.True(t, ok)
	assert.Equal(t, "2024-03-01", visit.Format("2006-01-02"))
	age, ok := table.Number(got.Records[1]["Age_Year"])
	require.True(t, ok)
	assert.Equal(t, 10.0, age)
	assert.True(t, table.IsMissing(got.Records[1]["Visit date"]))
}

func TestRegistered(t *testing.T) {
	assert.True(t, source.IsRegistered("duckdb"))
	src, err := source.New(source.Config{Type: "duckdb"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Source{}, src)
}
