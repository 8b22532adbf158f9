package gateway

import (
	"bytes"
	"context"
	"fmt"
	"medbook-service/internal/app/config"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/dto/requests"
	"medbook-service/internal/pkg/dto/responses"
	"medbook-service/internal/pkg/exceptions"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	razorpayServiceInstance contracts.PaymentGatewayService
	onceRazorpayService     sync.Once
)

type razorpayService struct {
	httpClient     *http.Client
	internalConfig *config.InternalConfig
	Log            *zap.Logger
}

func NewRazorpayService(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.PaymentGatewayService {
	onceRazorpayService.Do(func() {
		instance := &razorpayService{
			httpClient:     &http.Client{Timeout: 15 * time.Second},
			internalConfig: internalConfig,
			Log:            logger,
		}
		razorpayServiceInstance = instance
	})
	return razorpayServiceInstance
}

func (s *razorpayService) CreateOrder(ctx context.Context, request *requests.GatewayCreateOrder) (*responses.GatewayOrder, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("razorpayService.CreateOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64("amount", request.Amount),
		zap.String("receipt", request.Receipt),
	)

	body, err := json.Marshal(request)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	url := fmt.Sprintf("%s/v1/orders", s.internalConfig.PaymentGateway.BaseUrl)
	httpRequest, err := http.NewRequestWithContext(ctx, constvars.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	httpRequest.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	httpRequest.SetBasicAuth(s.internalConfig.PaymentGateway.KeyID, s.internalConfig.PaymentGateway.KeySecret)

	httpResponse, err := s.httpClient.Do(httpRequest)
	if err != nil {
		s.Log.Error("razorpayService.CreateOrder error sending request to gateway",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrPaymentGatewayUnavailable(err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode < http.StatusOK || httpResponse.StatusCode >= http.StatusMultipleChoices {
		err := fmt.Errorf("gateway responded with status %d", httpResponse.StatusCode)
		s.Log.Error("razorpayService.CreateOrder gateway returned non-2xx status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, httpResponse.StatusCode),
		)
		return nil, exceptions.ErrPaymentGatewayUnavailable(err)
	}

	order := new(responses.GatewayOrder)
	if err := json.NewDecoder(httpResponse.Body).Decode(order); err != nil {
		return nil, exceptions.ErrPaymentGatewayUnavailable(err)
	}

	s.Log.Info("razorpayService.CreateOrder succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOrderIDKey, order.ID),
	)
	return order, nil
}
