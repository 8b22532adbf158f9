package contracts

import (
	"context"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/dto/requests"
	"medbook-service/internal/pkg/dto/responses"
)

// PaymentUsecase reconciles the two confirmation channels (client verify
// call, gateway webhook) into one idempotent outcome.
type PaymentUsecase interface {
	CreateOrder(ctx context.Context, principal *models.Principal, reservationID string) (*responses.PaymentOrder, error)
	Finalize(ctx context.Context, principal *models.Principal, reservationID string, request *requests.VerifyPayment) error
	HandleWebhook(ctx context.Context, rawBody []byte, signature string) error
}
