package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Lookup outcomes reported by RecordLookup.
const (
	OutcomeHit        = "hit"
	OutcomeCoalesced  = "coalesced"
	OutcomeDispatched = "dispatched"
)

// Metrics records call cache metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordDispatch records one transport invocation with duration and error status.
	RecordDispatch(ctx context.Context, meta CallMeta, duration time.Duration, err error)

	// RecordLookup records how a request was served: hit, coalesced or dispatched.
	RecordLookup(ctx context.Context, meta CallMeta, outcome string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	dispatchCount metric.Int64Counter
	errorCount    metric.Int64Counter
	durationHist  metric.Float64Histogram
	lookupCount   metric.Int64Counter
}

// NewMetrics creates the call cache instruments on the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	dispatchCount, err := meter.Int64Counter(
		"chaincall.dispatch.total",
		metric.WithDescription("Total number of calls sent to the node"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"chaincall.dispatch.errors",
		metric.WithDescription("Total number of failed node calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"chaincall.dispatch.duration_ms",
		metric.WithDescription("Node call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	lookupCount, err := meter.Int64Counter(
		"chaincall.lookup.total",
		metric.WithDescription("Total number of call requests by cache outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		dispatchCount: dispatchCount,
		errorCount:    errorCount,
		durationHist:  durationHist,
		lookupCount:   lookupCount,
	}, nil
}

// RecordDispatch records metrics for one node call.
func (m *metricsImpl) RecordDispatch(ctx context.Context, meta CallMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(meta.attributes()...)

	m.dispatchCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordLookup counts a request by outcome.
func (m *metricsImpl) RecordLookup(ctx context.Context, meta CallMeta, outcome string) {
	attrs := append(meta.attributes(), attribute.String("outcome", outcome))
	m.lookupCount.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) RecordDispatch(context.Context, CallMeta, time.Duration, error) {}
func (noopMetrics) RecordLookup(context.Context, CallMeta, string)                 {}
