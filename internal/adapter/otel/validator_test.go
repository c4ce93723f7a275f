package otel_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	adapter "github.com/neomorfeo/skucatalog/internal/adapter/otel"
	"github.com/neomorfeo/skucatalog/internal/domain"
)

type stubValidator struct{}

func (stubValidator) Validate(_ context.Context, from, to domain.Status) error {
	if domain.CanTransition(from, to) {
		return nil
	}
	return &domain.TransitionError{Current: from, Requested: to}
}

func setupTestMeter(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return reader
}

// checksByOutcome sums the transition counter per outcome attribute.
func checksByOutcome(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collecting metrics: %v", err)
	}

	out := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "sku.transition.checks" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("unexpected data type %T", m.Data)
			}
			for _, dp := range sum.DataPoints {
				outcome, _ := dp.Attributes.Value("outcome")
				out[outcome.AsString()] += dp.Value
			}
		}
	}
	return out
}

func TestInstrumentedValidator_CountsOutcomes(t *testing.T) {
	setupTestTracer(t)
	reader := setupTestMeter(t)

	v, err := adapter.NewInstrumentedValidator(stubValidator{})
	if err != nil {
		t.Fatalf("NewInstrumentedValidator: %v", err)
	}
	ctx := context.Background()

	if err := v.Validate(ctx, domain.StatusPreRegistration, domain.StatusRegistrationComplete); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = v.Validate(ctx, domain.StatusCanceled, domain.StatusActive)
	var trErr *domain.TransitionError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}

	got := checksByOutcome(t, reader)
	if got["allowed"] != 1 {
		t.Errorf("allowed = %d, want 1", got["allowed"])
	}
	if got["rejected"] != 1 {
		t.Errorf("rejected = %d, want 1", got["rejected"])
	}
}

func TestInstrumentedValidator_RejectionIsNotSpanError(t *testing.T) {
	exporter := setupTestTracer(t)
	setupTestMeter(t)

	v, err := adapter.NewInstrumentedValidator(stubValidator{})
	if err != nil {
		t.Fatalf("NewInstrumentedValidator: %v", err)
	}

	_ = v.Validate(context.Background(), domain.StatusActive, domain.StatusPreRegistration)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Status.Code == codes.Error {
		t.Error("a rejected transition should not mark the span as failed")
	}
	assertAttribute(t, spans[0], "transition.from", "ACTIVE")
	assertAttribute(t, spans[0], "transition.to", "PRE_REGISTRATION")
	assertAttribute(t, spans[0], "transition.outcome", "rejected")
}
