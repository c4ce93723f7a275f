package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/neomorfeo/skucatalog/internal/domain"
)

// SKUService orchestrates SKU lifecycle operations.
type SKUService struct {
	repo      domain.SKURepository
	publisher domain.EventPublisher
	validator domain.TransitionValidator
}

// NewSKUService creates a service with the given adapters.
func NewSKUService(repo domain.SKURepository, publisher domain.EventPublisher, validator domain.TransitionValidator) *SKUService {
	return &SKUService{
		repo:      repo,
		publisher: publisher,
		validator: validator,
	}
}

// Lifecycle describes where a SKU sits in its lifecycle and what it may do next.
type Lifecycle struct {
	SKU                domain.SKU
	AllowedTransitions []domain.Status
	EditableFields     []domain.Field
}

// Create persists a new SKU in PRE_REGISTRATION and publishes a creation event.
func (s *SKUService) Create(ctx context.Context, in domain.NewSKUInput) (domain.SKU, error) {
	if err := in.Validate(); err != nil {
		return domain.SKU{}, err
	}

	id, err := generateID()
	if err != nil {
		return domain.SKU{}, s.storageFailure(ctx, "generating sku id", err)
	}

	sku := domain.NewSKU(id, in)

	if err := s.repo.Create(ctx, sku); err != nil {
		return domain.SKU{}, s.storageFailure(ctx, "creating sku", err)
	}

	if err := s.publisher.Publish(ctx, domain.EventCreated, sku); err != nil {
		return domain.SKU{}, s.storageFailure(ctx, "publishing creation event", err)
	}

	return sku, nil
}

// GetByID returns a SKU by its unique identifier.
func (s *SKUService) GetByID(ctx context.Context, id string) (domain.SKU, error) {
	sku, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.SKU{}, s.storageFailure(ctx, "loading sku", err)
	}
	return sku, nil
}

// List returns SKUs matching the given filter.
func (s *SKUService) List(ctx context.Context, filter domain.ListFilter) ([]domain.SKU, error) {
	skus, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, s.storageFailure(ctx, "listing skus", err)
	}
	return skus, nil
}

// Lifecycle returns the SKU together with its allowed next statuses and
// currently editable fields.
func (s *SKUService) Lifecycle(ctx context.Context, id string) (Lifecycle, error) {
	sku, err := s.GetByID(ctx, id)
	if err != nil {
		return Lifecycle{}, err
	}
	return Lifecycle{
		SKU:                sku,
		AllowedTransitions: domain.AllowedTransitions(sku.Status),
		EditableFields:     domain.EditableFields(sku.Status),
	}, nil
}

// Update applies a partial change to a SKU under the lifecycle rules.
// An update that changes nothing is not persisted and publishes no event.
func (s *SKUService) Update(ctx context.Context, id string, u domain.Update) (domain.SKU, error) {
	if err := u.Validate(); err != nil {
		return domain.SKU{}, err
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.SKU{}, err
	}

	next, err := applyUpdate(ctx, s.validator, current, u)
	if err != nil {
		slog.DebugContext(ctx, "sku update rejected", "sku_id", id, "status", current.Status, "reason", err.Error())
		return domain.SKU{}, err
	}

	if next == current {
		return current, nil
	}

	if current.Status == domain.StatusRegistrationComplete && next.Status == domain.StatusPreRegistration &&
		(u.Status == nil || *u.Status != domain.StatusPreRegistration) {
		slog.InfoContext(ctx, "commercial description changed, sku returned to pre-registration", "sku_id", id)
	}

	if err := s.repo.Update(ctx, next); err != nil {
		return domain.SKU{}, s.storageFailure(ctx, "updating sku", err)
	}

	// The repository owns UpdatedAt; reload so callers see the stored record.
	stored, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.SKU{}, err
	}

	event := domain.EventUpdated
	if stored.Status != current.Status {
		event = domain.EventStatusChanged
	}
	if err := s.publisher.Publish(ctx, event, stored); err != nil {
		return domain.SKU{}, s.storageFailure(ctx, "publishing update event", err)
	}

	return stored, nil
}

// Delete removes a SKU permanently.
func (s *SKUService) Delete(ctx context.Context, id string) error {
	sku, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.storageFailure(ctx, "deleting sku", err)
	}

	if err := s.publisher.Publish(ctx, domain.EventDeleted, sku); err != nil {
		return s.storageFailure(ctx, "publishing deletion event", err)
	}

	return nil
}

// storageFailure passes business outcomes from the repository through
// untouched and turns anything else into a logged *domain.StorageError.
func (s *SKUService) storageFailure(ctx context.Context, op string, err error) error {
	var conflict *domain.CodeConflictError
	if errors.Is(err, domain.ErrSKUNotFound) || errors.As(err, &conflict) {
		return err
	}

	var storageErr *domain.StorageError
	if !errors.As(err, &storageErr) {
		storageErr = &domain.StorageError{Op: op, Err: err}
		err = storageErr
	}

	slog.ErrorContext(ctx, "storage failure", "op", op, "error", err)
	return err
}
