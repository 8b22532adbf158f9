package controllers

import (
	"context"
	"io"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/exceptions"
	"medbook-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

type WebhookController struct {
	Log            *zap.Logger
	PaymentUsecase contracts.PaymentUsecase
}

var (
	webhookControllerInstance *WebhookController
	onceWebhookController     sync.Once
)

func NewWebhookController(logger *zap.Logger, paymentUsecase contracts.PaymentUsecase) *WebhookController {
	onceWebhookController.Do(func() {
		instance := &WebhookController{
			Log:            logger,
			PaymentUsecase: paymentUsecase,
		}
		webhookControllerInstance = instance
	})
	return webhookControllerInstance
}

// HandlePaymentWebhook receives gateway events. The body must stay raw until
// the signature over it has been checked, so it is read in full here and
// handed down untouched.
func (ctrl *WebhookController) HandlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("WebhookController.HandlePaymentWebhook requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("WebhookController.HandlePaymentWebhook called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
	)

	signature := r.Header.Get(constvars.HeaderGatewaySignature)
	if signature == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInvalidWebhookSignature(nil))
		return
	}

	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	defer r.Body.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := ctrl.PaymentUsecase.HandleWebhook(ctx, rawBody, signature); err != nil {
		ctrl.Log.Error("WebhookController.HandlePaymentWebhook error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.WebhookSuccessfullyProcessed, nil)
}
