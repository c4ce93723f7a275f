package domain

import "context"

// SKURepository defines the persistence contract for SKUs.
type SKURepository interface {
	Create(ctx context.Context, sku SKU) error
	GetByID(ctx context.Context, id string) (SKU, error)
	List(ctx context.Context, filter ListFilter) ([]SKU, error)
	Update(ctx context.Context, sku SKU) error
	Delete(ctx context.Context, id string) error
}

// ListFilter holds optional criteria for listing SKUs.
type ListFilter struct {
	Status *Status
	Limit  int
	Offset int
}

// Event names a lifecycle occurrence worth telling the outside world about.
type Event string

const (
	EventCreated       Event = "sku.created"
	EventUpdated       Event = "sku.updated"
	EventStatusChanged Event = "sku.status_changed"
	EventDeleted       Event = "sku.deleted"
)

// EventPublisher defines the contract for emitting domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event Event, sku SKU) error
}

// TransitionValidator decides whether a SKU may move between two distinct
// statuses. It returns a *TransitionError when the move is not allowed.
type TransitionValidator interface {
	Validate(ctx context.Context, from, to Status) error
}
