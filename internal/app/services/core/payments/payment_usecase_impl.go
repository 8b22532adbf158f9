package payments

import (
	"context"
	"fmt"
	"medbook-service/internal/app/config"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/dto/requests"
	"medbook-service/internal/pkg/dto/responses"
	"medbook-service/internal/pkg/exceptions"
	"medbook-service/internal/pkg/utils"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	paymentUsecaseInstance contracts.PaymentUsecase
	oncePaymentUsecase     sync.Once
)

const reservationLockTTL = 15 * time.Second

type paymentUsecase struct {
	reservationRepository contracts.ReservationRepository
	paymentGateway        contracts.PaymentGatewayService
	eventPublisher        contracts.EventPublisher
	lockerService         contracts.LockerService
	internalConfig        *config.InternalConfig
	Log                   *zap.Logger
}

func NewPaymentUsecase(
	reservationRepository contracts.ReservationRepository,
	paymentGateway contracts.PaymentGatewayService,
	eventPublisher contracts.EventPublisher,
	lockerService contracts.LockerService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PaymentUsecase {
	oncePaymentUsecase.Do(func() {
		instance := &paymentUsecase{
			reservationRepository: reservationRepository,
			paymentGateway:        paymentGateway,
			eventPublisher:        eventPublisher,
			lockerService:         lockerService,
			internalConfig:        internalConfig,
			Log:                   logger,
		}
		paymentUsecaseInstance = instance
	})
	return paymentUsecaseInstance
}

func (uc *paymentUsecase) CreateOrder(ctx context.Context, principal *models.Principal, reservationID string) (*responses.PaymentOrder, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.CreateOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPrincipalIDKey, principal.ID),
		zap.String(constvars.LoggingReservationIDKey, reservationID),
	)

	reservation, err := uc.reservationRepository.FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, exceptions.ErrReservationNotFound(fmt.Errorf("reservation %s not found", reservationID))
	}
	if reservation.OwnerID != principal.ID {
		return nil, exceptions.ErrNotResourceOwner(fmt.Errorf("reservation %s is not owned by %s", reservationID, principal.ID))
	}
	if reservation.PaymentStatus == constvars.PaymentStatusCompleted {
		return nil, exceptions.ErrAlreadyPaid(fmt.Errorf("reservation %s is already paid", reservationID))
	}
	if reservation.Status != constvars.ReservationStatusBooked {
		return nil, exceptions.ErrInvalidReservationState(fmt.Errorf("reservation %s is %s", reservationID, reservation.Status))
	}

	// An order created earlier but never paid is still good at the gateway;
	// hand it back instead of minting a duplicate.
	if reservation.PaymentOrderID != "" {
		return &responses.PaymentOrder{
			ReservationID: reservation.ID,
			Order: responses.GatewayOrder{
				ID:       reservation.PaymentOrderID,
				Amount:   reservation.Amount,
				Currency: uc.internalConfig.PaymentGateway.Currency,
				Receipt:  reservation.ID,
			},
			KeyID: uc.internalConfig.PaymentGateway.KeyID,
		}, nil
	}

	order, err := uc.paymentGateway.CreateOrder(ctx, &requests.GatewayCreateOrder{
		Amount:   reservation.Amount,
		Currency: uc.internalConfig.PaymentGateway.Currency,
		Receipt:  reservation.ID,
	})
	if err != nil {
		return nil, err
	}

	matched, err := uc.reservationRepository.SetPaymentOrderID(ctx, reservationID, order.ID)
	if err != nil {
		return nil, err
	}
	if !matched {
		// Another order landed first, or the reservation left the payable
		// state. Re-read and answer from what actually stuck.
		current, err := uc.reservationRepository.FindByID(ctx, reservationID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, exceptions.ErrReservationNotFound(fmt.Errorf("reservation %s not found", reservationID))
		}
		if current.PaymentStatus == constvars.PaymentStatusCompleted {
			return nil, exceptions.ErrAlreadyPaid(fmt.Errorf("reservation %s is already paid", reservationID))
		}
		if current.Status != constvars.ReservationStatusBooked {
			return nil, exceptions.ErrInvalidReservationState(fmt.Errorf("reservation %s is %s", reservationID, current.Status))
		}
		order = &responses.GatewayOrder{
			ID:       current.PaymentOrderID,
			Amount:   current.Amount,
			Currency: uc.internalConfig.PaymentGateway.Currency,
			Receipt:  current.ID,
		}
	}

	uc.Log.Info("paymentUsecase.CreateOrder succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingReservationIDKey, reservationID),
		zap.String(constvars.LoggingOrderIDKey, order.ID),
	)
	return &responses.PaymentOrder{
		ReservationID: reservationID,
		Order:         *order,
		KeyID:         uc.internalConfig.PaymentGateway.KeyID,
	}, nil
}

// Finalize is the client-side confirmation path. It authenticates the
// checkout result with the per-payment signature, then funnels into the same
// capture step the webhook uses.
func (uc *paymentUsecase) Finalize(ctx context.Context, principal *models.Principal, reservationID string, request *requests.VerifyPayment) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.Finalize called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPrincipalIDKey, principal.ID),
		zap.String(constvars.LoggingReservationIDKey, reservationID),
		zap.String(constvars.LoggingOrderIDKey, request.GatewayOrderID),
	)

	if !utils.VerifyPaymentSignature(request.GatewayOrderID, request.GatewayPaymentID, request.Signature, uc.internalConfig.PaymentGateway.KeySecret) {
		uc.Log.Warn("paymentUsecase.Finalize signature verification failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingReservationIDKey, reservationID),
		)
		return exceptions.ErrInvalidPaymentSignature(fmt.Errorf("payment signature mismatch"))
	}

	reservation, err := uc.reservationRepository.FindByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if reservation == nil {
		return exceptions.ErrReservationNotFound(fmt.Errorf("reservation %s not found", reservationID))
	}
	if reservation.OwnerID != principal.ID {
		return exceptions.ErrNotResourceOwner(fmt.Errorf("reservation %s is not owned by %s", reservationID, principal.ID))
	}

	return uc.capture(ctx, reservation, request.GatewayOrderID, request.GatewayPaymentID)
}

// HandleWebhook is the asynchronous confirmation path. The transport-level
// signature covers the raw body and uses the webhook secret, not the
// per-payment key secret.
func (uc *paymentUsecase) HandleWebhook(ctx context.Context, rawBody []byte, signature string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.HandleWebhook called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	if !utils.VerifyWebhookSignature(rawBody, signature, uc.internalConfig.PaymentGateway.WebhookSecret) {
		uc.Log.Warn("paymentUsecase.HandleWebhook signature verification failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return exceptions.ErrInvalidWebhookSignature(fmt.Errorf("webhook signature mismatch"))
	}

	event := new(requests.GatewayWebhookEvent)
	if err := json.Unmarshal(rawBody, event); err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}

	if event.Event != constvars.GatewayWebhookEventPaymentCaptured {
		uc.Log.Info("paymentUsecase.HandleWebhook ignoring event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventKey, event.Event),
		)
		return nil
	}

	orderID := event.Payload.Payment.Entity.OrderID
	paymentID := event.Payload.Payment.Entity.ID

	reservation, err := uc.reservationRepository.FindByPaymentOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if reservation == nil {
		// Nothing on our side references this order. Acknowledge so the
		// gateway stops retrying; the payment is visible in its dashboard.
		uc.Log.Warn("paymentUsecase.HandleWebhook no reservation for order",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOrderIDKey, orderID),
		)
		return nil
	}

	return uc.capture(ctx, reservation, orderID, paymentID)
}

// capture is the single choke point both confirmation channels go through.
// The conditional MarkPaid makes it idempotent: the first call wins, any
// repeat with the same payment reports success, and anything else resolves
// against the state it finds.
func (uc *paymentUsecase) capture(ctx context.Context, reservation *models.Reservation, orderID, paymentID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	// A payment already on record wins over every other guard: a repeat
	// delivery of it reports success no matter which order id it rode in
	// on.
	if reservation.PaymentStatus == constvars.PaymentStatusCompleted &&
		reservation.PaymentReferenceID == paymentID {
		return nil
	}

	if reservation.PaymentOrderID == "" || reservation.PaymentOrderID != orderID {
		uc.Log.Warn("paymentUsecase.capture order does not belong to reservation",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingReservationIDKey, reservation.ID),
			zap.String(constvars.LoggingOrderIDKey, orderID),
		)
		return exceptions.ErrPaymentOrderMismatch(fmt.Errorf("order %s does not match reservation %s", orderID, reservation.ID))
	}

	// Contention hygiene only; the MarkPaid filter is what guarantees a
	// single winner.
	lockKey := fmt.Sprintf(constvars.RedisReservationLockKeyFormat, reservation.ID)
	acquired, lockValue, err := uc.lockerService.TryLock(ctx, lockKey, reservationLockTTL)
	if err == nil && acquired {
		defer func() {
			if unlockErr := uc.lockerService.Unlock(ctx, lockKey, lockValue); unlockErr != nil {
				uc.Log.Error("paymentUsecase.capture error releasing lock",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.Error(unlockErr),
				)
			}
		}()
	}

	matched, err := uc.reservationRepository.MarkPaid(ctx, reservation.ID, orderID, paymentID)
	if err != nil {
		return err
	}
	if matched {
		uc.Log.Info("paymentUsecase.capture payment completed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingReservationIDKey, reservation.ID),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
		)

		reservation.Status = constvars.ReservationStatusConfirmed
		reservation.PaymentStatus = constvars.PaymentStatusCompleted
		reservation.PaymentReferenceID = paymentID
		if publishErr := uc.eventPublisher.PublishReservationConfirmed(ctx, reservation); publishErr != nil {
			uc.Log.Error("paymentUsecase.capture error publishing confirmation event",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingReservationIDKey, reservation.ID),
				zap.Error(publishErr),
			)
		}
		return nil
	}

	// Lost the race or arrived late. Decide from the current state.
	current, err := uc.reservationRepository.FindByID(ctx, reservation.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return exceptions.ErrReservationNotFound(fmt.Errorf("reservation %s not found", reservation.ID))
	}
	if current.PaymentStatus == constvars.PaymentStatusCompleted {
		if current.PaymentReferenceID == paymentID {
			// The other channel already recorded this very payment.
			return nil
		}
		return exceptions.ErrAlreadyPaid(fmt.Errorf("reservation %s was paid through another payment", reservation.ID))
	}
	return exceptions.ErrInvalidReservationState(fmt.Errorf("reservation %s is %s", reservation.ID, current.Status))
}
