package service

import (
	"context"

	"go-hospital-directory/internal/domain/entity"
)

// EventPublisher hands domain events to the message bus.
// Publishing happens after commit and failures never undo the write.
type EventPublisher interface {
	Publish(ctx context.Context, events ...entity.DomainEvent) error
	Close() error
}
