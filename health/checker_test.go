package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{Status(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("Status.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResultConstructors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		result  Result
		status  Status
		message string
		err     error
	}{
		{"healthy", Healthy("fine"), StatusHealthy, "fine", nil},
		{"degraded", Degraded("slow"), StatusDegraded, "slow", nil},
		{"unhealthy", Unhealthy("down", boom), StatusUnhealthy, "down", boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.result.Status != tt.status {
				t.Errorf("Status = %v, want %v", tt.result.Status, tt.status)
			}
			if tt.result.Message != tt.message {
				t.Errorf("Message = %q, want %q", tt.result.Message, tt.message)
			}
			if tt.result.Error != tt.err {
				t.Errorf("Error = %v, want %v", tt.result.Error, tt.err)
			}
			if tt.result.Timestamp.IsZero() {
				t.Error("Timestamp should not be zero")
			}
		})
	}
}

func TestResult_With(t *testing.T) {
	r := Healthy("x").
		WithDetails(map[string]any{"head": uint64(7)}).
		WithDuration(100 * time.Millisecond)

	if r.Details["head"] != uint64(7) {
		t.Errorf("Details[head] = %v, want 7", r.Details["head"])
	}
	if r.Duration != 100*time.Millisecond {
		t.Errorf("Duration = %v, want 100ms", r.Duration)
	}
}

func TestCheckerFunc(t *testing.T) {
	checker := NewCheckerFunc("probe", func(ctx context.Context) Result {
		return Healthy("from func")
	})

	if checker.Name() != "probe" {
		t.Errorf("Name() = %v, want 'probe'", checker.Name())
	}
	if got := checker.Check(context.Background()); got.Message != "from func" {
		t.Errorf("Check() Message = %v, want 'from func'", got.Message)
	}
}

func TestCheckersRespectCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	checkers := []Checker{
		NewGateChecker(stubStats{}, GateCheckerConfig{}),
		NewNodeChecker(&stubHead{}, NodeCheckerConfig{}),
		NewBreakerChecker(stubState(0)),
	}
	for _, c := range checkers {
		t.Run(c.Name(), func(t *testing.T) {
			r := c.Check(ctx)
			if r.Status != StatusUnhealthy {
				t.Errorf("Status = %v, want unhealthy", r.Status)
			}
			if !errors.Is(r.Error, context.Canceled) {
				t.Errorf("Error = %v, want context.Canceled", r.Error)
			}
		})
	}
}

func TestCheckersRejectNilSource(t *testing.T) {
	checkers := []Checker{
		NewGateChecker(nil, GateCheckerConfig{}),
		NewNodeChecker(nil, NodeCheckerConfig{}),
		NewBreakerChecker(nil),
	}
	for _, c := range checkers {
		t.Run(c.Name(), func(t *testing.T) {
			r := c.Check(context.Background())
			if r.Status != StatusUnhealthy || !errors.Is(r.Error, ErrNilSource) {
				t.Errorf("Check() = %v / %v, want unhealthy / ErrNilSource", r.Status, r.Error)
			}
		})
	}
}
