package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leapstack-labs/tbcheck/internal/engine"
	"github.com/leapstack-labs/tbcheck/internal/source"
	"github.com/leapstack-labs/tbcheck/internal/source/duckdb"
	"github.com/leapstack-labs/tbcheck/pkg/schema"
)

// watchDebounce collapses the burst of events a spreadsheet export writes.
const watchDebounce = 300 * time.Millisecond

// watchCheck runs the check, then re-runs it whenever one of the sheet files
// changes, until ctx is done. Failed runs are reported and watching continues.
func watchCheck(ctx context.Context, cctx *CommandContext, eng *engine.Engine, src source.Source, opts *CheckOptions) error {
	files, err := sheetFiles(cctx, src)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(cctx.Cfg.Source.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cctx.Cfg.Source.Dir, err)
	}

	r := cctx.Renderer
	run := func() {
		report, err := checkOnce(ctx, cctx, eng, src)
		if err != nil {
			if ctx.Err() == nil {
				r.Warnf("check failed: %v", err)
			}
			return
		}
		if err := renderReport(r, report, eng.Schema(), opts.ShowRows); err != nil {
			r.Warnf("render failed: %v", err)
		}
	}

	run()
	_, _ = fmt.Fprintf(r.ErrWriter(), "Watching %s for changes (Ctrl+C to stop)\n", cctx.Cfg.Source.Dir)
	watchLoop(ctx, watcher, files, watchDebounce, cctx.Logger, run)
	return nil
}

// sheetFiles returns the files the source reads the input sheets from.
func sheetFiles(cctx *CommandContext, src source.Source) (map[string]bool, error) {
	ds, ok := src.(*duckdb.Source)
	if !ok || cctx.Cfg.Source.Dir == "" {
		return nil, fmt.Errorf("--watch requires a duckdb source reading a sheet directory\nHint: Use --dir to point at a directory of sheet CSV files")
	}
	files := make(map[string]bool, len(schema.RequiredTables))
	for _, name := range schema.RequiredTables {
		files[filepath.Clean(ds.SheetPath(sheetName(cctx.Cfg, name)))] = true
	}
	return files, nil
}

// watchLoop calls run once per burst of changes to the watched files.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, files map[string]bool, debounce time.Duration, logger *slog.Logger, run func()) {
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !files[filepath.Clean(ev.Name)] || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) {
				continue
			}
			logger.Debug("sheet changed", slog.String("file", ev.Name), slog.String("op", ev.Op.String()))
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("file watcher error", slog.String("error", err.Error()))
		case <-timer.C:
			run()
		}
	}
}
