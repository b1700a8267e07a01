package observe

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumValue(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	m := findMetric(rm, name)
	if m == nil {
		return 0
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s: expected Sum[int64], got %T", name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

var testMeta = CallMeta{
	Target:    "0x6B175474E89094C44Da98b954EedeAC495271d0F",
	Operation: "balanceOf",
	BlockTag:  "100",
}

func TestMetrics_DispatchCounters(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordDispatch(ctx, testMeta, 5*time.Millisecond, nil)
	m.RecordDispatch(ctx, testMeta, 5*time.Millisecond, nil)
	m.RecordDispatch(ctx, testMeta, 5*time.Millisecond, errors.New("execution reverted"))

	rm := collect(t, reader)
	if got := sumValue(t, rm, "chaincall.dispatch.total"); got != 3 {
		t.Errorf("dispatch.total = %d, want 3", got)
	}
	if got := sumValue(t, rm, "chaincall.dispatch.errors"); got != 1 {
		t.Errorf("dispatch.errors = %d, want 1", got)
	}
}

func TestMetrics_NoErrorCountOnSuccess(t *testing.T) {
	m, reader := newTestMetrics(t)
	m.RecordDispatch(context.Background(), testMeta, time.Millisecond, nil)

	rm := collect(t, reader)
	if got := sumValue(t, rm, "chaincall.dispatch.errors"); got != 0 {
		t.Errorf("dispatch.errors = %d, want 0", got)
	}
}

func TestMetrics_DurationHistogram(t *testing.T) {
	m, reader := newTestMetrics(t)
	m.RecordDispatch(context.Background(), testMeta, 42*time.Millisecond, nil)

	rm := collect(t, reader)
	metric := findMetric(rm, "chaincall.dispatch.duration_ms")
	if metric == nil {
		t.Fatal("chaincall.dispatch.duration_ms not found")
	}
	hist, ok := metric.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("expected Histogram[float64], got %T", metric.Data)
	}
	if len(hist.DataPoints) != 1 || hist.DataPoints[0].Sum != 42 {
		t.Errorf("unexpected histogram points: %+v", hist.DataPoints)
	}
}

func TestMetrics_LookupOutcomes(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordLookup(ctx, testMeta, OutcomeDispatched)
	m.RecordLookup(ctx, testMeta, OutcomeCoalesced)
	m.RecordLookup(ctx, testMeta, OutcomeCoalesced)
	m.RecordLookup(ctx, testMeta, OutcomeHit)

	rm := collect(t, reader)
	metric := findMetric(rm, "chaincall.lookup.total")
	if metric == nil {
		t.Fatal("chaincall.lookup.total not found")
	}
	sum := metric.Data.(metricdata.Sum[int64])

	byOutcome := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		v, ok := dp.Attributes.Value(attribute.Key("outcome"))
		if !ok {
			t.Fatal("outcome attribute missing")
		}
		byOutcome[v.AsString()] += dp.Value
		if op, _ := dp.Attributes.Value("call.operation"); op.AsString() != "balanceOf" {
			t.Errorf("call.operation = %q", op.AsString())
		}
	}

	want := map[string]int64{OutcomeDispatched: 1, OutcomeCoalesced: 2, OutcomeHit: 1}
	for k, v := range want {
		if byOutcome[k] != v {
			t.Errorf("lookup[%s] = %d, want %d", k, byOutcome[k], v)
		}
	}
}

func TestMetrics_ConcurrentRecording(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordDispatch(ctx, testMeta, time.Millisecond, nil)
			m.RecordLookup(ctx, testMeta, OutcomeHit)
		}()
	}
	wg.Wait()

	rm := collect(t, reader)
	if got := sumValue(t, rm, "chaincall.dispatch.total"); got != 50 {
		t.Errorf("dispatch.total = %d, want 50", got)
	}
	if got := sumValue(t, rm, "chaincall.lookup.total"); got != 50 {
		t.Errorf("lookup.total = %d, want 50", got)
	}
}

func TestNopMetrics_NoPanic(t *testing.T) {
	m := NopMetrics()
	m.RecordDispatch(context.Background(), testMeta, time.Millisecond, errors.New("boom"))
	m.RecordLookup(context.Background(), testMeta, OutcomeHit)
}
