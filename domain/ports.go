package domain

import "context"

// ProductRepository persists Product aggregates.
// FindByID returns an EntityNotFoundError when the id is unknown.
type ProductRepository interface {
	Save(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id ProductID) (*Product, error)
	FindAll(ctx context.Context) ([]*Product, error)
	FindAllActive(ctx context.Context) ([]*Product, error)
	FindByNameContaining(ctx context.Context, fragment string) ([]*Product, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByID(ctx context.Context, id ProductID) (bool, error)
	Delete(ctx context.Context, p *Product) error
	DeleteByID(ctx context.Context, id ProductID) error
}

// EventPublisher hands emitted events to whatever is listening.
type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
	PublishAll(ctx context.Context, events Events) error
}

// EventLog is the durable audit trail of published events.
type EventLog interface {
	Append(ctx context.Context, env EventEnvelope) error
	ForAggregate(ctx context.Context, aggregateID string) ([]EventEnvelope, error)
}
