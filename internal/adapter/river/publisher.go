package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/skucatalog/internal/domain"
)

// Compile-time check: Publisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*Publisher)(nil)

// EventJobArgs carries the data needed to process a SKU event asynchronously.
// River serializes this as JSON into its job queue table. It includes a
// snapshot of the SKU at the time the event was published, so the worker
// never needs to query the database.
type EventJobArgs struct {
	Event                 string `json:"event"`
	SKUID                 string `json:"sku_id"`
	Code                  string `json:"code"`
	Description           string `json:"description"`
	CommercialDescription string `json:"commercial_description"`
	Status                string `json:"status"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (EventJobArgs) Kind() string { return "sku.event" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.EventPublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues a SKU event as an async job in River.
func (p *Publisher) Publish(ctx context.Context, event domain.Event, sku domain.SKU) error {
	_, err := p.client.Insert(ctx, EventJobArgs{
		Event:                 string(event),
		SKUID:                 sku.ID,
		Code:                  sku.Code,
		Description:           sku.Description,
		CommercialDescription: sku.CommercialDescription,
		Status:                string(sku.Status),
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing event job: %w", err)
	}
	return nil
}
