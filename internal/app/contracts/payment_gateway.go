package contracts

import (
	"context"
	"medbook-service/internal/pkg/dto/requests"
	"medbook-service/internal/pkg/dto/responses"
)

type PaymentGatewayService interface {
	CreateOrder(ctx context.Context, request *requests.GatewayCreateOrder) (*responses.GatewayOrder, error)
}
