// Package session runs desktop input on a single goroutine so that events
// from every transport are applied one at a time, in arrival order.
package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/1broseidon/termdesk/internal/desktop"
)

// ErrClosed is returned by Do once the session loop has stopped.
var ErrClosed = errors.New("session closed")

// EventFunc is a unit of work applied to the desktop on the session goroutine.
type EventFunc func(d *desktop.Controller) error

type event struct {
	name   string
	fn     EventFunc
	result chan error
}

// Stats summarizes session activity.
type Stats struct {
	Started   time.Time
	Processed uint64
}

// Session owns a desktop and serializes all access to it.
type Session struct {
	desk      *desktop.Controller
	events    chan event
	done      chan struct{}
	logger    *slog.Logger
	started   time.Time
	processed atomic.Uint64
}

// New creates a session around desk. Call Run to start processing.
func New(desk *desktop.Controller, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{
		desk:    desk,
		events:  make(chan event),
		done:    make(chan struct{}),
		logger:  logger,
		started: time.Now(),
	}
}

// Run processes events until ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	s.logger.Info("session started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session stopped", "processed", s.processed.Load())
			return nil
		case ev := <-s.events:
			err := ev.fn(s.desk)
			s.processed.Add(1)
			if err != nil {
				s.logger.Debug("event failed", "event", ev.name, "error", err)
			}
			ev.result <- err
		}
	}
}

// Do applies fn on the session goroutine and waits for it to finish.
// Once accepted, an event always runs to completion even if ctx is cancelled
// while waiting for the result.
func (s *Session) Do(ctx context.Context, name string, fn EventFunc) error {
	ev := event{name: name, fn: fn, result: make(chan error, 1)}

	select {
	case s.events <- ev:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-ev.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns the session counters.
func (s *Session) Stats() Stats {
	return Stats{Started: s.started, Processed: s.processed.Load()}
}
