// Package messaging implements domain.EventPublisher: events are recorded in
// the event log, handed to in-process handlers, then forwarded to broker sinks.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"catalog/domain"
	"catalog/metrics"
)

// Handler reacts to one event in process.
type Handler func(ctx context.Context, e domain.Event) error

// Dispatcher publishes synchronously. Recording to the event log is the only
// step whose failure is reported; handlers and sinks are best effort.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	sinks    []Sink

	log      domain.EventLog
	recorder *metrics.Recorder
	logger   *slog.Logger
}

var _ domain.EventPublisher = (*Dispatcher)(nil)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

func WithRecorder(r *metrics.Recorder) Option {
	return func(d *Dispatcher) { d.recorder = r }
}

// WithSink adds a broker sink. A nil sink is ignored.
func WithSink(s Sink) Option {
	return func(d *Dispatcher) {
		if s != nil {
			d.sinks = append(d.sinks, s)
		}
	}
}

// NewDispatcher creates a Dispatcher that records into log. A nil log skips
// recording.
func NewDispatcher(log domain.EventLog, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string][]Handler),
		log:      log,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("component", "dispatcher")
	return d
}

// Subscribe registers h for events of the given kind.
func (d *Dispatcher) Subscribe(kind string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = append(d.handlers[kind], h)
}

func (d *Dispatcher) Publish(ctx context.Context, e domain.Event) error {
	kind := e.Kind()
	env := e.Envelope()

	if d.log != nil {
		if err := d.log.Append(ctx, env); err != nil {
			d.recorder.RecordEvent(ctx, kind, "failed")
			return fmt.Errorf("record event %s: %w", env.EventID, err)
		}
	}

	d.mu.RLock()
	handlers := append([]Handler(nil), d.handlers[kind]...)
	d.mu.RUnlock()

	outcome := "ok"
	for _, h := range handlers {
		if err := h(ctx, e); err != nil {
			outcome = "failed"
			d.logger.Warn("event handler failed", "event_id", env.EventID, "event_type", kind, "error", err)
		}
	}
	for _, s := range d.sinks {
		if err := s.Send(ctx, env); err != nil {
			outcome = "failed"
			d.logger.Warn("event sink failed", "sink", s.Name(), "event_id", env.EventID, "event_type", kind, "error", err)
		}
	}

	d.recorder.RecordEvent(ctx, kind, outcome)
	d.logger.Debug("event published", "event_id", env.EventID, "event_type", kind, "aggregate_id", env.AggregateID)
	return nil
}

// PublishAll publishes events in order and stops at the first recording
// failure.
func (d *Dispatcher) PublishAll(ctx context.Context, events domain.Events) error {
	for _, e := range events {
		if err := d.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink.
func (d *Dispatcher) Close() error {
	var errs []error
	for _, s := range d.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s sink: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
