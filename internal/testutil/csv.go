package testutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/table"
)

// SheetFiles maps each fixture table to the file name a directory source
// reads it from.
var SheetFiles = map[schema.TableName]string{
	schema.ServicePoint: "Service Point.csv",
	schema.Screening:    "Screening.csv",
	schema.Patient:      "Patient data.csv",
	schema.Visit:        "Visit data.csv",
	schema.Dropdown:     "Dropdown.csv",
}

// WriteCSVDir writes each table as a CSV sheet file into dir, one header row
// followed by the records. Missing cells are written empty.
func WriteCSVDir(t testing.TB, dir string, tables map[schema.TableName]*table.Table) {
	t.Helper()
	for name, tbl := range tables {
		file, ok := SheetFiles[name]
		if !ok {
			t.Fatalf("no sheet file for table %q", name)
		}
		WriteCSV(t, filepath.Join(dir, file), tbl)
	}
}

// WriteCSV writes one table as a CSV file.
func WriteCSV(t testing.TB, path string, tbl *table.Table) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(tbl.Columns); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for _, rec := range tbl.Records {
		row := make([]string, len(tbl.Columns))
		for i, col := range tbl.Columns {
			row[i] = cell(rec[col])
		}
		if err := w.Write(row); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush %s: %v", path, err)
	}
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return x.Format("2006-01-02")
	default:
		return fmt.Sprint(x)
	}
}
