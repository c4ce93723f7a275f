package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/skucatalog/internal/domain"
)

const tracerName = "github.com/neomorfeo/skucatalog/internal/adapter/otel"

// TracingRepository wraps a domain.SKURepository with OpenTelemetry tracing.
// Each method creates a span with SKU attributes and records errors.
type TracingRepository struct {
	next   domain.SKURepository
	tracer trace.Tracer
}

// Compile-time check: TracingRepository implements domain.SKURepository.
var _ domain.SKURepository = (*TracingRepository)(nil)

// NewTracingRepository creates a tracing decorator around the given repository.
func NewTracingRepository(next domain.SKURepository) *TracingRepository {
	return &TracingRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingRepository) Create(ctx context.Context, sku domain.SKU) error {
	ctx, span := r.tracer.Start(ctx, "SKURepository.Create",
		trace.WithAttributes(
			attribute.String("sku.id", sku.ID),
			attribute.String("sku.code", sku.Code),
		),
	)
	defer span.End()

	err := r.next.Create(ctx, sku)
	recordError(span, err)
	return err
}

func (r *TracingRepository) GetByID(ctx context.Context, id string) (domain.SKU, error) {
	ctx, span := r.tracer.Start(ctx, "SKURepository.GetByID",
		trace.WithAttributes(attribute.String("sku.id", id)),
	)
	defer span.End()

	sku, err := r.next.GetByID(ctx, id)
	if err == nil {
		span.SetAttributes(attribute.String("sku.status", string(sku.Status)))
	}
	recordError(span, err)
	return sku, err
}

func (r *TracingRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.SKU, error) {
	ctx, span := r.tracer.Start(ctx, "SKURepository.List",
		trace.WithAttributes(
			attribute.Int("filter.limit", filter.Limit),
			attribute.Int("filter.offset", filter.Offset),
		),
	)
	defer span.End()

	if filter.Status != nil {
		span.SetAttributes(attribute.String("filter.status", string(*filter.Status)))
	}

	skus, err := r.next.List(ctx, filter)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(skus)))
	}
	recordError(span, err)
	return skus, err
}

func (r *TracingRepository) Update(ctx context.Context, sku domain.SKU) error {
	ctx, span := r.tracer.Start(ctx, "SKURepository.Update",
		trace.WithAttributes(
			attribute.String("sku.id", sku.ID),
			attribute.String("sku.status", string(sku.Status)),
		),
	)
	defer span.End()

	err := r.next.Update(ctx, sku)
	recordError(span, err)
	return err
}

func (r *TracingRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "SKURepository.Delete",
		trace.WithAttributes(attribute.String("sku.id", id)),
	)
	defer span.End()

	err := r.next.Delete(ctx, id)
	recordError(span, err)
	return err
}

func recordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
