package daemon

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/session"
)

// ReporterConfig holds configuration for the reporter.
type ReporterConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Snapshot is one periodic view of the desktop.
type Snapshot struct {
	Windows   int
	Top       string
	Dragging  string
	Processed uint64
}

// Reporter periodically logs a desktop snapshot.
type Reporter struct {
	interval time.Duration
	session  *session.Session
	logger   *slog.Logger
}

// NewReporter creates a reporter. The interval defaults to one minute.
func NewReporter(cfg ReporterConfig, sess *session.Session) *Reporter {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Reporter{
		interval: interval,
		session:  sess,
		logger:   logger,
	}
}

// Run starts the reporting loop. Blocks until context is cancelled.
func (r *Reporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Debug("reporter started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("reporter stopped")
			return
		case <-ticker.C:
			r.ReportNow(ctx)
		}
	}
}

// ReportNow takes and logs a snapshot immediately.
func (r *Reporter) ReportNow(ctx context.Context) {
	snap, err := r.Snapshot(ctx)
	if err != nil {
		r.logger.Warn("reporter: snapshot failed", "error", err)
		return
	}
	r.logger.Info("desktop status",
		"windows", snap.Windows,
		"top", snap.Top,
		"dragging", snap.Dragging,
		"events", snap.Processed)
}

// Snapshot reads the desktop state on the session loop.
func (r *Reporter) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := r.session.Do(ctx, "report", func(d *desktop.Controller) error {
		snap.Windows = d.Registry().Len()
		if top, ok := d.Registry().Top(); ok {
			snap.Top = top.ID
		}
		if id, ok := d.Dragging(); ok {
			snap.Dragging = id
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	snap.Processed = r.session.Stats().Processed
	return snap, nil
}
