package contracts

import (
	"context"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/dto/requests"
)

// ReservationRepository persists reservations. The Mark/Set methods are
// conditional single-document updates keyed on the prior state; they report
// matched=false when the precondition no longer holds, and callers re-read
// to resolve the race deterministically.
type ReservationRepository interface {
	Insert(ctx context.Context, reservation *models.Reservation) (string, error)
	FindByID(ctx context.Context, reservationID string) (*models.Reservation, error)
	FindByPaymentOrderID(ctx context.Context, paymentOrderID string) (*models.Reservation, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Reservation, error)
	ListAll(ctx context.Context) ([]models.Reservation, error)

	// MarkCancelled matches only while status != cancelled and
	// paymentStatus != completed.
	MarkCancelled(ctx context.Context, reservationID string) (matched bool, err error)
	// SetPaymentOrderID matches only while booked/pending with no order id
	// stored yet.
	SetPaymentOrderID(ctx context.Context, reservationID, paymentOrderID string) (matched bool, err error)
	// MarkPaid matches only while booked/pending; it records the gateway
	// payment reference and moves the reservation to confirmed/completed
	// payment in one update.
	MarkPaid(ctx context.Context, reservationID, paymentOrderID, paymentReferenceID string) (matched bool, err error)
	// MarkSlotReleased records that the ledger claim backing a cancelled
	// reservation has been freed, so cancel retries do not release a slot
	// someone else may have claimed since.
	MarkSlotReleased(ctx context.Context, reservationID string) error
}

type ReservationUsecase interface {
	CreateDoctorAppointment(ctx context.Context, principal *models.Principal, request *requests.CreateDoctorAppointment) (*models.Reservation, error)
	CreateLabAppointment(ctx context.Context, principal *models.Principal, request *requests.CreateLabAppointment) (*models.Reservation, error)
	CreateMedicineOrder(ctx context.Context, principal *models.Principal, request *requests.CreateMedicineOrder) (*models.Reservation, error)
	Cancel(ctx context.Context, principal *models.Principal, reservationID string) error
	GetByID(ctx context.Context, principal *models.Principal, reservationID string) (*models.Reservation, error)
	ListOwn(ctx context.Context, principal *models.Principal) ([]models.Reservation, error)
	ListAll(ctx context.Context, principal *models.Principal) ([]models.Reservation, error)
}
