package caller

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/ethereum/go-ethereum/common"

	"github.com/jonwraymond/chaincall/cache"
	"github.com/jonwraymond/chaincall/observe"
)

// recordingObserver is an observe.Observer backed by in-memory SDK readers.
type recordingObserver struct {
	spans  *tracetest.SpanRecorder
	tp     *sdktrace.TracerProvider
	reader *sdkmetric.ManualReader
	mp     *sdkmetric.MeterProvider
	logger observe.Logger
}

func newRecordingObserver(logs *bytes.Buffer) *recordingObserver {
	spans := tracetest.NewSpanRecorder()
	reader := sdkmetric.NewManualReader()
	return &recordingObserver{
		spans:  spans,
		tp:     sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)),
		reader: reader,
		mp:     sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
		logger: observe.NewLoggerWithWriter("debug", logs),
	}
}

func (o *recordingObserver) Tracer() trace.Tracer   { return o.tp.Tracer("test") }
func (o *recordingObserver) Meter() metric.Meter    { return o.mp.Meter("test") }
func (o *recordingObserver) Logger() observe.Logger { return o.logger }
func (o *recordingObserver) Shutdown(ctx context.Context) error {
	return errors.Join(o.tp.Shutdown(ctx), o.mp.Shutdown(ctx))
}

func (o *recordingObserver) lookups(t *testing.T) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := o.reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	out := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "chaincall.lookup.total" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				v, _ := dp.Attributes.Value("outcome")
				out[v.AsString()] += dp.Value
			}
		}
	}
	return out
}

func TestCaller_WithObserver(t *testing.T) {
	var logs bytes.Buffer
	obs := newRecordingObserver(&logs)
	t.Cleanup(func() { _ = obs.Shutdown(context.Background()) })

	tr := &countingTransport{}
	c := newTestCaller(t, tokenA, tr, WithObserver(obs))
	ctx := context.Background()

	for range 2 {
		if _, err := c.Call(ctx, "balanceOf", holder, AtBlock(12)); err != nil {
			t.Fatal(err)
		}
	}

	got := obs.lookups(t)
	if got["dispatched"] != 1 || got["hit"] != 1 {
		t.Errorf("lookups = %v, want 1 dispatched and 1 hit", got)
	}

	spans := obs.spans.Ended()
	if len(spans) != 1 || spans[0].Name() != "eth.call.balanceOf" {
		t.Fatalf("spans = %v, want one eth.call.balanceOf", spans)
	}
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "call.block_tag" && kv.Value.AsString() != "12" {
			t.Errorf("call.block_tag = %q", kv.Value.AsString())
		}
	}

	c.Clear()
	if !strings.Contains(logs.String(), "call cache cleared") {
		t.Errorf("Clear should log at debug, got %q", logs.String())
	}
}

func TestCaller_WithObserverFailFastIsNotDispatched(t *testing.T) {
	obs := newRecordingObserver(&bytes.Buffer{})
	tr := TransportFunc(func(context.Context, common.Address, Operation, []any, *cache.BlockTag) ([]any, error) {
		t.Fatal("transport must not be called")
		return nil, nil
	})
	c := newTestCaller(t, tokenA, tr, WithObserver(obs))

	if _, err := c.Call(context.Background(), "balanceOf", holder); !errors.Is(err, ErrUnstableBlockTag) {
		t.Fatalf("Call() error = %v", err)
	}
	if len(obs.spans.Ended()) != 0 {
		t.Error("rejected calls must not produce spans")
	}
}
