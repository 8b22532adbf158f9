package contracts

import (
	"context"
	"medbook-service/internal/app/models"
)

// EventPublisher fans out domain events to the message broker. Publishing is
// best effort; callers log failures instead of rolling back the state change.
type EventPublisher interface {
	PublishReservationConfirmed(ctx context.Context, reservation *models.Reservation) error
}
