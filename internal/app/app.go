// Package app implements the application layer for owlcache.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.trai.ch/owlcache/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/owlcache/internal/core/domain"
	"go.trai.ch/owlcache/internal/core/ports"
	"go.trai.ch/owlcache/internal/engine/session"
	"go.trai.ch/zerr"
)

// App represents the main application logic behind the CLI commands.
type App struct {
	cfg     domain.Config
	session *session.Session
	store   ports.SnapshotStore
	watcher ports.Watcher
	logger  ports.Logger

	debounceWindow time.Duration
}

// New creates a new App instance.
func New(cfg domain.Config, sess *session.Session, store ports.SnapshotStore, w ports.Watcher, logger ports.Logger) *App {
	return &App{
		cfg:            cfg,
		session:        sess,
		store:          store,
		watcher:        w,
		logger:         logger,
		debounceWindow: watcher.DefaultDebounceWindow,
	}
}

// WithDebounceWindow overrides the event coalescing window for watch mode.
func (a *App) WithDebounceWindow(window time.Duration) *App {
	a.debounceWindow = window
	return a
}

// Stats writes a per-unit summary of the persisted cache to out. It reads
// the snapshots directly, so it reports what is on disk rather than the
// counters of a running analysis.
func (a *App) Stats(out io.Writer) error {
	units, err := a.store.ListUnits()
	if err != nil {
		return zerr.Wrap(err, "failed to inspect cache")
	}
	if len(units) == 0 {
		fmt.Fprintln(out, "cache is empty")
		return nil
	}

	var totalEntries int
	var totalBytes int64
	for _, unit := range units {
		snap, err := a.store.Load(unit)
		if err != nil {
			return zerr.Wrap(err, "failed to inspect cache")
		}

		var unitBytes int64
		for i := range snap.Entries {
			unitBytes += snap.Entries[i].EstimateSize()
		}
		totalEntries += len(snap.Entries)
		totalBytes += unitBytes

		fmt.Fprintf(out, "unit %s: %d entries, %s, format v%d\n",
			unit, len(snap.Entries), formatBytes(unitBytes), snap.Version)
	}

	fmt.Fprintf(out, "total: %d units, %d entries, %s\n",
		len(units), totalEntries, formatBytes(totalBytes))
	return nil
}

// PruneOptions controls a prune run.
type PruneOptions struct {
	// DryRun reports what would be removed without touching the snapshots.
	DryRun bool
}

// Prune loads every persisted unit, drops entries whose source files
// changed since they were cached, and writes the surviving snapshots
// back. With DryRun set it only reports the count.
func (a *App) Prune(ctx context.Context, out io.Writer, opts PruneOptions) error {
	if !a.cfg.Enabled {
		return domain.ErrCacheDisabled
	}

	if err := a.session.LoadAll(); err != nil {
		return zerr.Wrap(err, "failed to load cache snapshots")
	}

	stale := a.session.PruneStale(opts.DryRun)
	if opts.DryRun {
		fmt.Fprintf(out, "would remove %d stale entries\n", stale)
		return nil
	}

	if err := a.session.Save(ctx); err != nil {
		return zerr.Wrap(err, "failed to save pruned cache")
	}
	fmt.Fprintf(out, "removed %d stale entries\n", stale)
	return nil
}

// Clean removes the cache directory entirely. It works even when caching
// is disabled so a stale cache can always be cleared out.
func (a *App) Clean(out io.Writer) error {
	if err := a.store.RemoveAll(); err != nil {
		return err
	}
	fmt.Fprintf(out, "removed cache directory %s\n", a.cfg.Dir)
	return nil
}

// Watch keeps the persisted cache in step with the source tree under
// root: file changes are debounced, matching entries are invalidated,
// and the snapshots are checkpointed after every batch that changed
// something. It blocks until ctx is cancelled.
func (a *App) Watch(ctx context.Context, root string) error {
	if !a.cfg.Enabled {
		return domain.ErrCacheDisabled
	}

	if err := a.session.LoadAll(); err != nil {
		return zerr.Wrap(err, "failed to load cache snapshots")
	}

	// Checkpoints must complete even when they race shutdown, so they
	// run outside the watch context's cancellation.
	saveCtx := context.WithoutCancel(ctx)

	debouncer := watcher.NewDebouncer(a.debounceWindow, func(paths []string) {
		if a.session.InvalidateChanged(paths) == 0 {
			return
		}
		if err := a.session.Save(saveCtx); err != nil {
			a.logger.Error(err)
		}
	})

	if err := a.watcher.Start(ctx, root); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "root", root)
	}
	defer func() {
		if err := a.watcher.Stop(); err != nil {
			a.logger.Error(err)
		}
	}()

	a.logger.Info(fmt.Sprintf("watching %s for source changes", root))

	for event := range a.watcher.Events() {
		debouncer.Add(event.Path)
	}

	// The event stream ended, so flush whatever is still pending and
	// write a final checkpoint.
	debouncer.Flush()
	return a.session.Save(saveCtx)
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
