package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/skucatalog/internal/domain"
)

// InstrumentedValidator wraps a domain.TransitionValidator with a span per
// check and a counter of checks by outcome.
type InstrumentedValidator struct {
	next    domain.TransitionValidator
	tracer  trace.Tracer
	checked metric.Int64Counter
}

// Compile-time check: InstrumentedValidator implements domain.TransitionValidator.
var _ domain.TransitionValidator = (*InstrumentedValidator)(nil)

// NewInstrumentedValidator creates an instrumented decorator around the given
// validator using the global tracer and meter providers.
func NewInstrumentedValidator(next domain.TransitionValidator) (*InstrumentedValidator, error) {
	checked, err := otel.Meter(tracerName).Int64Counter("sku.transition.checks",
		metric.WithDescription("Status transition checks by source, target and outcome"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transition counter: %w", err)
	}

	return &InstrumentedValidator{
		next:    next,
		tracer:  otel.Tracer(tracerName),
		checked: checked,
	}, nil
}

func (v *InstrumentedValidator) Validate(ctx context.Context, from, to domain.Status) error {
	attrs := []attribute.KeyValue{
		attribute.String("transition.from", string(from)),
		attribute.String("transition.to", string(to)),
	}

	ctx, span := v.tracer.Start(ctx, "TransitionValidator.Validate", trace.WithAttributes(attrs...))
	defer span.End()

	err := v.next.Validate(ctx, from, to)

	outcome := "allowed"
	if err != nil {
		outcome = "rejected"
	}
	span.SetAttributes(attribute.String("transition.outcome", outcome))
	v.checked.Add(ctx, 1, metric.WithAttributes(append(attrs, attribute.String("outcome", outcome))...))

	return err
}
