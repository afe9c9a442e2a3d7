// Package daemon runs a desktop session behind the IPC socket.
package daemon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/ipc"
	"github.com/1broseidon/termdesk/internal/session"
)

// Options configures a Daemon.
type Options struct {
	// ConfigPath is re-read on reload. Empty means the default location.
	ConfigPath string
	// SocketPath overrides the runtime socket location.
	SocketPath     string
	ReportInterval time.Duration
	Logger         *slog.Logger
}

// Daemon owns the desktop session, its IPC server and the status reporter.
type Daemon struct {
	configPath string
	logger     *slog.Logger
	session    *session.Session
	server     *ipc.Server
	reporter   *Reporter

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a daemon from cfg. Nothing runs until Start.
func New(cfg *config.Config, opts Options) (*Daemon, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to build document catalog: %w", err)
	}

	desk := desktop.New(catalog, cfg.DesktopOptions(logger))
	sess := session.New(desk, logger)

	var server *ipc.Server
	if opts.SocketPath != "" {
		server = ipc.NewServerAt(opts.SocketPath, sess)
	} else {
		server, err = ipc.NewServer(sess)
		if err != nil {
			return nil, err
		}
	}

	d := &Daemon{
		configPath: opts.ConfigPath,
		logger:     logger,
		session:    sess,
		server:     server,
		reporter: NewReporter(ReporterConfig{
			Interval: opts.ReportInterval,
			Logger:   logger,
		}, sess),
	}
	server.SetReloadFunc(d.Reload)
	return d, nil
}

// SocketPath returns the IPC socket the daemon listens on.
func (d *Daemon) SocketPath() string {
	return d.server.SocketPath()
}

// Start launches the session loop, the IPC server and the reporter.
func (d *Daemon) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.session.Run(ctx); err != nil && ctx.Err() == nil {
			d.logger.Error("session stopped", "error", err)
		}
	}()

	if err := d.server.Start(); err != nil {
		cancel()
		d.wg.Wait()
		return err
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.reporter.Run(ctx)
	}()

	d.logger.Info("daemon started", "socket", d.server.SocketPath())
	return nil
}

// Stop shuts the daemon down and waits for its goroutines.
func (d *Daemon) Stop() {
	d.server.Stop()
	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()
	d.logger.Info("daemon stopped")
}

// Run starts the daemon and blocks until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	d.Stop()
	return nil
}

// Reload re-reads the config file and swaps in its document catalog.
// Window geometry only applies to windows opened after a restart.
func (d *Daemon) Reload(ctx context.Context) error {
	var res *config.LoadResult
	var err error
	if d.configPath == "" {
		res, err = config.LoadWithSource()
	} else {
		res, err = config.LoadFromPath(d.configPath)
	}
	if err != nil {
		return err
	}

	catalog, err := res.Config.Catalog()
	if err != nil {
		return err
	}

	err = d.session.Do(ctx, "reload", func(desk *desktop.Controller) error {
		desk.SetProvider(catalog)
		return nil
	})
	if err != nil {
		return err
	}
	d.logger.Info("config reloaded", "file", res.File, "documents", len(catalog.List()))
	return nil
}
