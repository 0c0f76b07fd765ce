// Package metrics records catalog request and event metrics with
// OpenTelemetry and exposes them for Prometheus scraping.
package metrics

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "catalog"

// Recorder holds the catalog's instruments. A nil *Recorder records nothing.
type Recorder struct {
	requestsTotal   metric.Int64Counter
	requestDuration metric.Float64Histogram
	eventsTotal     metric.Int64Counter
}

// NewRecorder creates the instruments on a meter from provider.
func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	meter := provider.Meter(meterName)

	requestsTotal, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests handled"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	eventsTotal, err := meter.Int64Counter(
		"domain_events_total",
		metric.WithDescription("Total number of domain events dispatched"),
	)
	if err != nil {
		return nil, err
	}

	return &Recorder{
		requestsTotal:   requestsTotal,
		requestDuration: requestDuration,
		eventsTotal:     eventsTotal,
	}, nil
}

// RecordRequest counts one HTTP request and its latency.
func (r *Recorder) RecordRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)),
	)
	r.requestsTotal.Add(ctx, 1, attrs)
	r.requestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordEvent counts one dispatched event. outcome is "ok" or "failed".
func (r *Recorder) RecordEvent(ctx context.Context, kind, outcome string) {
	if r == nil {
		return
	}
	r.eventsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", kind),
		attribute.String("outcome", outcome),
	))
}
