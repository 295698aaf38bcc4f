// Package observe provides the OpenTelemetry metrics and tracing helpers used
// across voxlist.
//
// Metrics are recorded through the OpenTelemetry Metrics API and exported to
// Prometheus by [InitProvider]. Components take a *Metrics explicitly; a nil
// *Metrics is valid and records nothing, so tests and the interactive loop can
// skip telemetry entirely. Tests that inspect metrics should call [NewMetrics]
// with a meter provider backed by a manual reader.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope for all voxlist metrics.
const meterName = "github.com/nadzzz/voxlist"

// latencyBuckets are histogram boundaries in seconds sized for remote API
// round trips and speech-to-text requests.
var latencyBuckets = []float64{
	0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// Metrics holds the metric instruments.
type Metrics struct {
	// Turns counts processed turns by outcome
	// (not_transcribed, not_recognized, succeeded, failed).
	Turns metric.Int64Counter

	// DispatchResults counts dispatcher results by action and outcome
	// ("ok" or the failure reason).
	DispatchResults metric.Int64Counter

	// RemoteCallDuration tracks playlist service latency by op and status.
	RemoteCallDuration metric.Float64Histogram

	// TranscribeDuration tracks speech-to-text latency by backend.
	TranscribeDuration metric.Float64Histogram
}

// NewMetrics creates the instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Turns, err = m.Int64Counter("voxlist.turns",
		metric.WithDescription("Processed voice turns by outcome."),
	); err != nil {
		return nil, err
	}
	if met.DispatchResults, err = m.Int64Counter("voxlist.dispatch.results",
		metric.WithDescription("Dispatched commands by action and outcome."),
	); err != nil {
		return nil, err
	}
	if met.RemoteCallDuration, err = m.Float64Histogram("voxlist.remote.duration",
		metric.WithDescription("Latency of playlist service calls."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TranscribeDuration, err = m.Float64Histogram("voxlist.transcribe.duration",
		metric.WithDescription("Latency of speech-to-text transcription."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// RecordTurn counts one turn.
func (m *Metrics) RecordTurn(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.Turns.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordDispatch counts one dispatcher result.
func (m *Metrics) RecordDispatch(ctx context.Context, action, outcome string) {
	if m == nil {
		return
	}
	m.DispatchResults.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
}

// RecordRemoteCall records the latency of one playlist service call.
func (m *Metrics) RecordRemoteCall(ctx context.Context, op string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.RemoteCallDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("status", status(err)),
	))
}

// RecordTranscribe records the latency of one transcription.
func (m *Metrics) RecordTranscribe(ctx context.Context, backend string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.TranscribeDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("status", status(err)),
	))
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
