package history

import (
	"context"
	"log/slog"
	"time"
)

// PruneConfig controls the retention job. A zero RetentionDays disables it.
type PruneConfig struct {
	RetentionDays int
	Interval      time.Duration
}

// StartPruneScheduler removes expired entries immediately and then every
// Interval until ctx is cancelled. Failed runs are logged and retried on the
// next tick.
func (r *Recorder) StartPruneScheduler(ctx context.Context, cfg PruneConfig) {
	if cfg.RetentionDays <= 0 {
		slog.Info("history pruning disabled")
		return
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	slog.Info("history prune scheduler started",
		"retention_days", cfg.RetentionDays,
		"interval", cfg.Interval.String(),
	)

	r.runPrune(ctx, cfg.RetentionDays)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("history prune scheduler stopped")
			return
		case <-ticker.C:
			r.runPrune(ctx, cfg.RetentionDays)
		}
	}
}

func (r *Recorder) runPrune(ctx context.Context, retentionDays int) {
	start := time.Now()
	cutoff := start.AddDate(0, 0, -retentionDays)

	pruned, err := r.Prune(ctx, cutoff)
	if err != nil {
		slog.Error("history prune failed", "error", err)
		return
	}
	slog.Info("pruned import history",
		"entries_pruned", pruned,
		"cutoff", cutoff.Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
