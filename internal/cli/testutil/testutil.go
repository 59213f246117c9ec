// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/tbcheck/internal/cli/output"
	"github.com/leapstack-labs/tbcheck/internal/testutil"
	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/table"
)

// ProjectConfig is the tbcheck.yaml written by SetupTestProject.
const ProjectConfig = `source:
  type: duckdb
  dir: data
  params:
    all_varchar: true
`

// SetupTestProject creates a temporary project: tbcheck.yaml and a data
// directory holding the fixture workbook as CSV sheets. mutate, when not
// nil, may change the tables before they are written.
func SetupTestProject(t *testing.T, mutate func(map[schema.TableName]*table.Table)) string {
	t.Helper()

	tmpDir := t.TempDir()
	dataDir := filepath.Join(tmpDir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dataDir, err)
	}

	tables := testutil.Workbook()
	if mutate != nil {
		mutate(tables)
	}
	testutil.WriteCSVDir(t, dataDir, tables)

	if err := os.WriteFile(filepath.Join(tmpDir, "tbcheck.yaml"), []byte(ProjectConfig), 0o644); err != nil {
		t.Fatalf("failed to create tbcheck.yaml: %v", err)
	}
	return tmpDir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if fenceCount := strings.Count(md, "```"); fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
