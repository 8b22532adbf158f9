package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"medbook-service/internal/app/config"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/dto/requests"
	"medbook-service/internal/pkg/dto/responses"
	"medbook-service/internal/pkg/exceptions"
	"medbook-service/internal/pkg/utils"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testKeySecret     = "test-key-secret"
	testWebhookSecret = "test-webhook-secret"
)

type fakeReservationRepository struct {
	mu           sync.Mutex
	reservations map[string]*models.Reservation
}

func newFakeReservationRepository() *fakeReservationRepository {
	return &fakeReservationRepository{reservations: make(map[string]*models.Reservation)}
}

func (f *fakeReservationRepository) put(reservation *models.Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *reservation
	f.reservations[reservation.ID] = &clone
}

func (f *fakeReservationRepository) Insert(ctx context.Context, reservation *models.Reservation) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := fmt.Sprintf("res-%d", len(f.reservations)+1)
	clone := *reservation
	clone.ID = id
	f.reservations[id] = &clone
	return id, nil
}

func (f *fakeReservationRepository) FindByID(ctx context.Context, reservationID string) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reservation, ok := f.reservations[reservationID]
	if !ok {
		return nil, nil
	}
	clone := *reservation
	return &clone, nil
}

func (f *fakeReservationRepository) FindByPaymentOrderID(ctx context.Context, paymentOrderID string) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, reservation := range f.reservations {
		if reservation.PaymentOrderID == paymentOrderID {
			clone := *reservation
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeReservationRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, reservation := range f.reservations {
		if reservation.OwnerID == ownerID {
			out = append(out, *reservation)
		}
	}
	return out, nil
}

func (f *fakeReservationRepository) ListAll(ctx context.Context) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, reservation := range f.reservations {
		out = append(out, *reservation)
	}
	return out, nil
}

func (f *fakeReservationRepository) MarkCancelled(ctx context.Context, reservationID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reservation, ok := f.reservations[reservationID]
	if !ok {
		return false, nil
	}
	if reservation.Status == constvars.ReservationStatusCancelled || reservation.PaymentStatus == constvars.PaymentStatusCompleted {
		return false, nil
	}
	reservation.Status = constvars.ReservationStatusCancelled
	reservation.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (f *fakeReservationRepository) SetPaymentOrderID(ctx context.Context, reservationID, paymentOrderID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reservation, ok := f.reservations[reservationID]
	if !ok {
		return false, nil
	}
	if reservation.Status != constvars.ReservationStatusBooked ||
		reservation.PaymentStatus != constvars.PaymentStatusPending ||
		reservation.PaymentOrderID != "" {
		return false, nil
	}
	reservation.PaymentOrderID = paymentOrderID
	return true, nil
}

func (f *fakeReservationRepository) MarkPaid(ctx context.Context, reservationID, paymentOrderID, paymentReferenceID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reservation, ok := f.reservations[reservationID]
	if !ok {
		return false, nil
	}
	if reservation.Status != constvars.ReservationStatusBooked ||
		reservation.PaymentStatus != constvars.PaymentStatusPending ||
		reservation.PaymentOrderID != paymentOrderID {
		return false, nil
	}
	reservation.Status = constvars.ReservationStatusConfirmed
	reservation.PaymentStatus = constvars.PaymentStatusCompleted
	reservation.PaymentReferenceID = paymentReferenceID
	return true, nil
}

func (f *fakeReservationRepository) MarkSlotReleased(ctx context.Context, reservationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if reservation, ok := f.reservations[reservationID]; ok {
		reservation.SlotReleased = true
	}
	return nil
}

type fakePaymentGateway struct {
	mu      sync.Mutex
	created int
	fail    bool
}

func (f *fakePaymentGateway) CreateOrder(ctx context.Context, request *requests.GatewayCreateOrder) (*responses.GatewayOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, exceptions.ErrPaymentGatewayUnavailable(fmt.Errorf("gateway down"))
	}
	f.created++
	return &responses.GatewayOrder{
		ID:       fmt.Sprintf("order_%d", f.created),
		Amount:   request.Amount,
		Currency: request.Currency,
		Receipt:  request.Receipt,
	}, nil
}

type fakeEventPublisher struct {
	mu        sync.Mutex
	published []string
}

func (f *fakeEventPublisher) PublishReservationConfirmed(ctx context.Context, reservation *models.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, reservation.ID)
	return nil
}

type fakeLocker struct{}

func (f *fakeLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	return true, "lock-value", nil
}

func (f *fakeLocker) Unlock(ctx context.Context, key, lockValue string) error {
	return nil
}

func testInternalConfig() *config.InternalConfig {
	return &config.InternalConfig{
		PaymentGateway: config.PaymentGateway{
			KeyID:         "rzp_test_key",
			KeySecret:     testKeySecret,
			WebhookSecret: testWebhookSecret,
			Currency:      "INR",
		},
	}
}

func newTestPaymentUsecase(repo *fakeReservationRepository) (*paymentUsecase, *fakeEventPublisher, *fakePaymentGateway) {
	publisher := &fakeEventPublisher{}
	gateway := &fakePaymentGateway{}
	uc := &paymentUsecase{
		reservationRepository: repo,
		paymentGateway:        gateway,
		eventPublisher:        publisher,
		lockerService:         &fakeLocker{},
		internalConfig:        testInternalConfig(),
		Log:                   zap.NewNop(),
	}
	return uc, publisher, gateway
}

func bookedReservation(id, ownerID, orderID string) *models.Reservation {
	return &models.Reservation{
		ID:             id,
		Kind:           constvars.ReservationKindDoctorAppointment,
		OwnerID:        ownerID,
		ResourceID:     "doc-1",
		SlotDate:       "2026-09-01",
		SlotTime:       "10:00",
		Amount:         50000,
		Status:         constvars.ReservationStatusBooked,
		PaymentStatus:  constvars.PaymentStatusPending,
		PaymentOrderID: orderID,
	}
}

func signedVerifyRequest(orderID, paymentID string) *requests.VerifyPayment {
	return &requests.VerifyPayment{
		GatewayOrderID:   orderID,
		GatewayPaymentID: paymentID,
		Signature:        utils.ComputePaymentSignature(orderID, paymentID, testKeySecret),
	}
}

func TestCreateOrder(t *testing.T) {
	principal := &models.Principal{ID: "user-1", Role: constvars.RoleUser}

	t.Run("creates a gateway order for a booked reservation", func(t *testing.T) {
		repo := newFakeReservationRepository()
		repo.put(bookedReservation("res-1", "user-1", ""))
		uc, _, gateway := newTestPaymentUsecase(repo)

		order, err := uc.CreateOrder(context.Background(), principal, "res-1")
		require.NoError(t, err)
		assert.Equal(t, "order_1", order.Order.ID)
		assert.Equal(t, int64(50000), order.Order.Amount)
		assert.Equal(t, "rzp_test_key", order.KeyID)
		assert.Equal(t, 1, gateway.created)

		stored, _ := repo.FindByID(context.Background(), "res-1")
		assert.Equal(t, "order_1", stored.PaymentOrderID)
	})

	t.Run("reuses an existing pending order", func(t *testing.T) {
		repo := newFakeReservationRepository()
		repo.put(bookedReservation("res-1", "user-1", "order_existing"))
		uc, _, gateway := newTestPaymentUsecase(repo)

		order, err := uc.CreateOrder(context.Background(), principal, "res-1")
		require.NoError(t, err)
		assert.Equal(t, "order_existing", order.Order.ID)
		assert.Equal(t, 0, gateway.created)
	})

	t.Run("rejects an unknown reservation", func(t *testing.T) {
		repo := newFakeReservationRepository()
		uc, _, _ := newTestPaymentUsecase(repo)

		_, err := uc.CreateOrder(context.Background(), principal, "missing")
		require.Error(t, err)
		customErr, ok := err.(*exceptions.CustomError)
		require.True(t, ok)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})

	t.Run("rejects another user's reservation", func(t *testing.T) {
		repo := newFakeReservationRepository()
		repo.put(bookedReservation("res-1", "someone-else", ""))
		uc, _, _ := newTestPaymentUsecase(repo)

		_, err := uc.CreateOrder(context.Background(), principal, "res-1")
		require.Error(t, err)
		customErr, ok := err.(*exceptions.CustomError)
		require.True(t, ok)
		assert.Equal(t, constvars.StatusForbidden, customErr.StatusCode)
	})

	t.Run("rejects a paid reservation", func(t *testing.T) {
		repo := newFakeReservationRepository()
		reservation := bookedReservation("res-1", "user-1", "order_1")
		reservation.Status = constvars.ReservationStatusConfirmed
		reservation.PaymentStatus = constvars.PaymentStatusCompleted
		repo.put(reservation)
		uc, _, _ := newTestPaymentUsecase(repo)

		_, err := uc.CreateOrder(context.Background(), principal, "res-1")
		require.Error(t, err)
		customErr, ok := err.(*exceptions.CustomError)
		require.True(t, ok)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	})

	t.Run("rejects a cancelled reservation", func(t *testing.T) {
		repo := newFakeReservationRepository()
		reservation := bookedReservation("res-1", "user-1", "")
		reservation.Status = constvars.ReservationStatusCancelled
		repo.put(reservation)
		uc, _, _ := newTestPaymentUsecase(repo)

		_, err := uc.CreateOrder(context.Background(), principal, "res-1")
		require.Error(t, err)
	})

	t.Run("propagates gateway unavailability", func(t *testing.T) {
		repo := newFakeReservationRepository()
		repo.put(bookedReservation("res-1", "user-1", ""))
		uc, _, gateway := newTestPaymentUsecase(repo)
		gateway.fail = true

		_, err := uc.CreateOrder(context.Background(), principal, "res-1")
		require.Error(t, err)
		customErr, ok := err.(*exceptions.CustomError)
		require.True(t, ok)
		assert.Equal(t, constvars.StatusServiceUnavailable, customErr.StatusCode)

		// The failed call must leave the reservation payable.
		stored, _ := repo.FindByID(context.Background(), "res-1")
		assert.Equal(t, constvars.PaymentStatusPending, stored.PaymentStatus)
		assert.Empty(t, stored.PaymentOrderID)
	})
}

func TestFinalize(t *testing.T) {
	principal := &models.Principal{ID: "user-1", Role: constvars.RoleUser}

	t.Run("confirms the reservation and publishes an event", func(t *testing.T) {
		repo := newFakeReservationRepository()
		repo.put(bookedReservation("res-1", "user-1", "order_1"))
		uc, publisher, _ := newTestPaymentUsecase(repo)

		err := uc.Finalize(context.Background(), principal, "res-1", signedVerifyRequest("order_1", "pay_1"))
		require.NoError(t, err)

		stored, _ := repo.FindByID(context.Background(), "res-1")
		assert.Equal(t, constvars.ReservationStatusConfirmed, stored.Status)
		assert.Equal(t, constvars.PaymentStatusCompleted, stored.PaymentStatus)
		assert.Equal(t, "pay_1", stored.PaymentReferenceID)
		assert.Equal(t, []string{"res-1"}, publisher.published)
	})

	t.Run("repeating the same finalize succeeds without a second event", func(t *testing.T) {
		repo := newFakeReservationRepository()
		repo.put(bookedReservation("res-1", "user-1", "order_1"))
		uc, publisher, _ := newTestPaymentUsecase(repo)

		request := signedVerifyRequest("order_1", "pay_1")
		require.NoError(t, uc.Finalize(context.Background(), principal, "res-1", request))
		require.NoError(t, uc.Finalize(context.Background(), principal, "res-1", request))

		assert.Len(t, publisher.published, 1)
	})

	t.Run("rejects a tampered signature before touching state", func(t *testing.T) {
		repo := newFakeReservationRepository()
		repo.put(bookedReservation("res-1", "user-1", "order_1"))
		uc, publisher, _ := newTestPaymentUsecase(repo)

		request := signedVerifyRequest("order_1", "pay_1")
		request.Signature = utils.ComputePaymentSignature("order_1", "pay_1", "attacker-secret")

		err := uc.Finalize(context.Background(), principal, "res-1", request)
		require.Error(t, err)
		customErr, ok := err.(*exceptions.CustomError)
		require.True(t, ok)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)

		stored, _ := repo.FindByID(context.Background(), "res-1")
		assert.Equal(t, constvars.PaymentStatusPending, stored.PaymentStatus)
		assert.Empty(t, publisher.published)
	})

	t.Run("a recorded payment repeats successfully under any order id", func(t *testing.T) {
		repo := newFakeReservationRepository()
		repo.put(bookedReservation("res-1", "user-1", "order_1"))
		uc, publisher, _ := newTestPaymentUsecase(repo)

		require.NoError(t, uc.Finalize(context.Background(), principal, "res-1", signedVerifyRequest("order_1", "pay_1")))

		// Same payment, different (validly signed) order id: idempotent
		// success, not a mismatch.
		err := uc.Finalize(context.Background(), principal, "res-1", signedVerifyRequest("order_2", "pay_1"))
		require.NoError(t, err)
		assert.Len(t, publisher.published, 1)
	})

	t.Run("rejects a valid signature for a different order", func(t *testing.T) {
		repo := newFakeReservationRepository()
		repo.put(bookedReservation("res-1", "user-1", "order_1"))
		repo.put(bookedReservation("res-2", "user-1", "order_2"))
		uc, _, _ := newTestPaymentUsecase(repo)

		// Correctly signed for order_2, aimed at the reservation holding
		// order_1.
		err := uc.Finalize(context.Background(), principal, "res-1", signedVerifyRequest("order_2", "pay_1"))
		require.Error(t, err)

		stored, _ := repo.FindByID(context.Background(), "res-1")
		assert.Equal(t, constvars.PaymentStatusPending, stored.PaymentStatus)
	})

	t.Run("rejects finalize on a cancelled reservation", func(t *testing.T) {
		repo := newFakeReservationRepository()
		reservation := bookedReservation("res-1", "user-1", "order_1")
		reservation.Status = constvars.ReservationStatusCancelled
		repo.put(reservation)
		uc, _, _ := newTestPaymentUsecase(repo)

		err := uc.Finalize(context.Background(), principal, "res-1", signedVerifyRequest("order_1", "pay_1"))
		require.Error(t, err)
		customErr, ok := err.(*exceptions.CustomError)
		require.True(t, ok)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	})

	t.Run("rejects finalize by a non-owner", func(t *testing.T) {
		repo := newFakeReservationRepository()
		repo.put(bookedReservation("res-1", "someone-else", "order_1"))
		uc, _, _ := newTestPaymentUsecase(repo)

		err := uc.Finalize(context.Background(), principal, "res-1", signedVerifyRequest("order_1", "pay_1"))
		require.Error(t, err)
		customErr, ok := err.(*exceptions.CustomError)
		require.True(t, ok)
		assert.Equal(t, constvars.StatusForbidden, customErr.StatusCode)
	})
}

func webhookBody(t *testing.T, event, orderID, paymentID string) []byte {
	t.Helper()
	payload := requests.GatewayWebhookEvent{Event: event}
	payload.Payload.Payment.Entity.ID = paymentID
	payload.Payload.Payment.Entity.OrderID = orderID
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return body
}

func TestHandleWebhook(t *testing.T) {
	t.Run("captures the payment on payment.captured", func(t *testing.T) {
		repo := newFakeReservationRepository()
		repo.put(bookedReservation("res-1", "user-1", "order_1"))
		uc, publisher, _ := newTestPaymentUsecase(repo)

		body := webhookBody(t, constvars.GatewayWebhookEventPaymentCaptured, "order_1", "pay_1")
		err := uc.HandleWebhook(context.Background(), body, webhookSign(body))
		require.NoError(t, err)

		stored, _ := repo.FindByID(context.Background(), "res-1")
		assert.Equal(t, constvars.PaymentStatusCompleted, stored.PaymentStatus)
		assert.Equal(t, []string{"res-1"}, publisher.published)
	})

	t.Run("rejects a bad body signature before reading state", func(t *testing.T) {
		repo := newFakeReservationRepository()
		repo.put(bookedReservation("res-1", "user-1", "order_1"))
		uc, publisher, _ := newTestPaymentUsecase(repo)

		body := webhookBody(t, constvars.GatewayWebhookEventPaymentCaptured, "order_1", "pay_1")
		err := uc.HandleWebhook(context.Background(), body, "deadbeef")
		require.Error(t, err)

		stored, _ := repo.FindByID(context.Background(), "res-1")
		assert.Equal(t, constvars.PaymentStatusPending, stored.PaymentStatus)
		assert.Empty(t, publisher.published)
	})

	t.Run("ignores events other than payment.captured", func(t *testing.T) {
		repo := newFakeReservationRepository()
		repo.put(bookedReservation("res-1", "user-1", "order_1"))
		uc, publisher, _ := newTestPaymentUsecase(repo)

		body := webhookBody(t, "payment.failed", "order_1", "pay_1")
		err := uc.HandleWebhook(context.Background(), body, webhookSign(body))
		require.NoError(t, err)

		stored, _ := repo.FindByID(context.Background(), "res-1")
		assert.Equal(t, constvars.PaymentStatusPending, stored.PaymentStatus)
		assert.Empty(t, publisher.published)
	})

	t.Run("acknowledges an order no reservation references", func(t *testing.T) {
		repo := newFakeReservationRepository()
		uc, _, _ := newTestPaymentUsecase(repo)

		body := webhookBody(t, constvars.GatewayWebhookEventPaymentCaptured, "order_unknown", "pay_1")
		err := uc.HandleWebhook(context.Background(), body, webhookSign(body))
		require.NoError(t, err)
	})

	t.Run("webhook after client verify is a no-op", func(t *testing.T) {
		repo := newFakeReservationRepository()
		repo.put(bookedReservation("res-1", "user-1", "order_1"))
		uc, publisher, _ := newTestPaymentUsecase(repo)

		principal := &models.Principal{ID: "user-1", Role: constvars.RoleUser}
		require.NoError(t, uc.Finalize(context.Background(), principal, "res-1", signedVerifyRequest("order_1", "pay_1")))

		body := webhookBody(t, constvars.GatewayWebhookEventPaymentCaptured, "order_1", "pay_1")
		require.NoError(t, uc.HandleWebhook(context.Background(), body, webhookSign(body)))

		assert.Len(t, publisher.published, 1)
	})
}

func TestConcurrentCaptureSingleWinner(t *testing.T) {
	repo := newFakeReservationRepository()
	repo.put(bookedReservation("res-1", "user-1", "order_1"))
	uc, publisher, _ := newTestPaymentUsecase(repo)

	principal := &models.Principal{ID: "user-1", Role: constvars.RoleUser}
	request := signedVerifyRequest("order_1", "pay_1")
	body := webhookBody(t, constvars.GatewayWebhookEventPaymentCaptured, "order_1", "pay_1")
	signature := webhookSign(body)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 5; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			errs <- uc.Finalize(context.Background(), principal, "res-1", request)
		}()
		go func() {
			defer wg.Done()
			errs <- uc.HandleWebhook(context.Background(), body, signature)
		}()
	}
	wg.Wait()
	close(errs)

	// Same payment through both channels: everyone reports success, the
	// event fires exactly once.
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Len(t, publisher.published, 1)

	stored, _ := repo.FindByID(context.Background(), "res-1")
	assert.Equal(t, constvars.ReservationStatusConfirmed, stored.Status)
	assert.Equal(t, "pay_1", stored.PaymentReferenceID)
}

func webhookSign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
