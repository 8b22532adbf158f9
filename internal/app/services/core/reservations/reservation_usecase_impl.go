package reservations

import (
	"context"
	"fmt"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/dto/requests"
	"medbook-service/internal/pkg/exceptions"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	reservationUsecaseInstance contracts.ReservationUsecase
	onceReservationUsecase     sync.Once
)

type reservationUsecase struct {
	reservationRepository contracts.ReservationRepository
	resourceRepository    contracts.ResourceRepository
	slotLedger            contracts.SlotLedger
	Log                   *zap.Logger
}

func NewReservationUsecase(
	reservationRepository contracts.ReservationRepository,
	resourceRepository contracts.ResourceRepository,
	slotLedger contracts.SlotLedger,
	logger *zap.Logger,
) contracts.ReservationUsecase {
	onceReservationUsecase.Do(func() {
		instance := &reservationUsecase{
			reservationRepository: reservationRepository,
			resourceRepository:    resourceRepository,
			slotLedger:            slotLedger,
			Log:                   logger,
		}
		reservationUsecaseInstance = instance
	})
	return reservationUsecaseInstance
}

func (uc *reservationUsecase) CreateDoctorAppointment(ctx context.Context, principal *models.Principal, request *requests.CreateDoctorAppointment) (*models.Reservation, error) {
	return uc.createAppointment(ctx, principal, constvars.ReservationKindDoctorAppointment, constvars.ResourceKindDoctor, request.DoctorID, request.SlotDate, request.SlotTime)
}

func (uc *reservationUsecase) CreateLabAppointment(ctx context.Context, principal *models.Principal, request *requests.CreateLabAppointment) (*models.Reservation, error) {
	return uc.createAppointment(ctx, principal, constvars.ReservationKindLabAppointment, constvars.ResourceKindLab, request.LabID, request.SlotDate, request.SlotTime)
}

// createAppointment claims the slot first and inserts the reservation after.
// The claim is the only contended step; if the insert fails the claim is
// released so the slot is not burned.
func (uc *reservationUsecase) createAppointment(ctx context.Context, principal *models.Principal, kind, resourceKind, resourceID, slotDate, slotTime string) (*models.Reservation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("reservationUsecase.createAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPrincipalIDKey, principal.ID),
		zap.String(constvars.LoggingResourceIDKey, resourceID),
		zap.String(constvars.LoggingSlotDateKey, slotDate),
		zap.String(constvars.LoggingSlotTimeKey, slotTime),
	)

	if _, err := time.Parse(constvars.SlotDateLayout, slotDate); err != nil {
		return nil, exceptions.ErrInvalidDateFormat(err)
	}

	resource, err := uc.resourceRepository.FindByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if resource == nil || resource.Kind != resourceKind {
		return nil, exceptions.ErrResourceNotFound(fmt.Errorf("resource %s not found", resourceID))
	}
	if !resource.Available {
		return nil, exceptions.ErrResourceNotAvailable(fmt.Errorf("resource %s is not accepting bookings", resourceID))
	}

	if err := uc.slotLedger.TryClaim(ctx, resourceID, slotDate, slotTime); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reservation := &models.Reservation{
		Kind:          kind,
		OwnerID:       principal.ID,
		ResourceID:    resourceID,
		ResourceName:  resource.Name,
		SlotDate:      slotDate,
		SlotTime:      slotTime,
		Amount:        resource.Price,
		Status:        constvars.ReservationStatusBooked,
		PaymentStatus: constvars.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	reservationID, err := uc.reservationRepository.Insert(ctx, reservation)
	if err != nil {
		if releaseErr := uc.slotLedger.Release(ctx, resourceID, slotDate, slotTime); releaseErr != nil {
			uc.Log.Error("reservationUsecase.createAppointment error releasing claim after failed insert",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingResourceIDKey, resourceID),
				zap.Error(releaseErr),
			)
		}
		return nil, err
	}
	reservation.ID = reservationID

	uc.Log.Info("reservationUsecase.createAppointment booked",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingReservationIDKey, reservationID),
	)
	return reservation, nil
}

func (uc *reservationUsecase) CreateMedicineOrder(ctx context.Context, principal *models.Principal, request *requests.CreateMedicineOrder) (*models.Reservation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("reservationUsecase.CreateMedicineOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPrincipalIDKey, principal.ID),
		zap.Int("item_count", len(request.Items)),
	)

	var items []models.OrderItem
	var amount int64
	for _, requestItem := range request.Items {
		medicine, err := uc.resourceRepository.FindByID(ctx, requestItem.MedicineID)
		if err != nil {
			return nil, err
		}
		if medicine == nil || medicine.Kind != constvars.ResourceKindMedicine {
			return nil, exceptions.ErrResourceNotFound(fmt.Errorf("medicine %s not found", requestItem.MedicineID))
		}
		if !medicine.Available {
			return nil, exceptions.ErrResourceNotAvailable(fmt.Errorf("medicine %s is not for sale", requestItem.MedicineID))
		}

		items = append(items, models.OrderItem{
			MedicineID: medicine.ID,
			Name:       medicine.Name,
			Quantity:   requestItem.Quantity,
			UnitPrice:  medicine.Price,
		})
		amount += medicine.Price * requestItem.Quantity
	}

	now := time.Now().UTC()
	reservation := &models.Reservation{
		Kind:          constvars.ReservationKindMedicineOrder,
		OwnerID:       principal.ID,
		Items:         items,
		Amount:        amount,
		Status:        constvars.ReservationStatusBooked,
		PaymentStatus: constvars.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	reservationID, err := uc.reservationRepository.Insert(ctx, reservation)
	if err != nil {
		return nil, err
	}
	reservation.ID = reservationID
	return reservation, nil
}

// Cancel is idempotent: cancelling an already-cancelled reservation reports
// success without touching the ledger again. A paid reservation can never be
// cancelled through this path.
func (uc *reservationUsecase) Cancel(ctx context.Context, principal *models.Principal, reservationID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("reservationUsecase.Cancel called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPrincipalIDKey, principal.ID),
		zap.String(constvars.LoggingReservationIDKey, reservationID),
	)

	reservation, err := uc.loadOwned(ctx, principal, reservationID)
	if err != nil {
		return err
	}

	if reservation.Status == constvars.ReservationStatusCancelled {
		// Idempotent repeat. The claim may still be held if an earlier
		// cancel flipped the status but failed to release; finish that
		// before reporting success.
		return uc.releaseCancelledSlot(ctx, reservation, requestID)
	}
	if reservation.PaymentStatus == constvars.PaymentStatusCompleted {
		return exceptions.ErrAlreadyPaid(fmt.Errorf("reservation %s is paid", reservationID))
	}

	matched, err := uc.reservationRepository.MarkCancelled(ctx, reservationID)
	if err != nil {
		return err
	}
	if !matched {
		// Lost a race. Re-read to tell an idempotent repeat apart from a
		// payment that landed in between.
		current, err := uc.reservationRepository.FindByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if current != nil && current.Status == constvars.ReservationStatusCancelled {
			return uc.releaseCancelledSlot(ctx, current, requestID)
		}
		return exceptions.ErrAlreadyPaid(fmt.Errorf("reservation %s was paid concurrently", reservationID))
	}

	if err := uc.releaseCancelledSlot(ctx, reservation, requestID); err != nil {
		return err
	}

	uc.Log.Info("reservationUsecase.Cancel cancelled",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingReservationIDKey, reservationID),
	)
	return nil
}

// GetByID is readable by the owner, an admin, or the doctor the appointment
// is booked with; cancelling stays owner-or-admin only.
func (uc *reservationUsecase) GetByID(ctx context.Context, principal *models.Principal, reservationID string) (*models.Reservation, error) {
	reservation, err := uc.reservationRepository.FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, exceptions.ErrReservationNotFound(fmt.Errorf("reservation %s not found", reservationID))
	}
	treatingDoctor := principal.Role == constvars.RoleDoctor &&
		principal.ResourceID != "" && reservation.ResourceID == principal.ResourceID
	if reservation.OwnerID != principal.ID && !principal.IsAdmin() && !treatingDoctor {
		return nil, exceptions.ErrNotResourceOwner(fmt.Errorf("reservation %s is not visible to %s", reservationID, principal.ID))
	}
	return reservation, nil
}

func (uc *reservationUsecase) ListOwn(ctx context.Context, principal *models.Principal) ([]models.Reservation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("reservationUsecase.ListOwn called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPrincipalIDKey, principal.ID),
	)

	return uc.reservationRepository.ListByOwner(ctx, principal.ID)
}

func (uc *reservationUsecase) ListAll(ctx context.Context, principal *models.Principal) ([]models.Reservation, error) {
	if !principal.IsAdmin() {
		return nil, exceptions.ErrRoleNotAllowed(fmt.Errorf("role %s cannot list all reservations", principal.Role))
	}
	return uc.reservationRepository.ListAll(ctx)
}

// releaseCancelledSlot frees the ledger claim behind a cancelled reservation
// exactly once. The slotReleased flag stays unset until the release lands,
// so a cancel whose release failed gets finished by the retry; once set,
// retries leave the ledger alone because the slot may have been claimed
// again by someone else.
func (uc *reservationUsecase) releaseCancelledSlot(ctx context.Context, reservation *models.Reservation, requestID string) error {
	if !reservation.HasSlot() || reservation.SlotReleased {
		return nil
	}

	if err := uc.slotLedger.Release(ctx, reservation.ResourceID, reservation.SlotDate, reservation.SlotTime); err != nil {
		uc.Log.Error("reservationUsecase.releaseCancelledSlot error releasing slot",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingReservationIDKey, reservation.ID),
			zap.Error(err),
		)
		return err
	}

	if err := uc.reservationRepository.MarkSlotReleased(ctx, reservation.ID); err != nil {
		// The slot is free; only the bookkeeping failed. Log and report
		// success.
		uc.Log.Error("reservationUsecase.releaseCancelledSlot error recording release",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingReservationIDKey, reservation.ID),
			zap.Error(err),
		)
	}
	reservation.SlotReleased = true
	return nil
}

// loadOwned fetches a reservation and enforces ownership. Admins may read
// and cancel anyone's reservation; everyone else only their own.
func (uc *reservationUsecase) loadOwned(ctx context.Context, principal *models.Principal, reservationID string) (*models.Reservation, error) {
	reservation, err := uc.reservationRepository.FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, exceptions.ErrReservationNotFound(fmt.Errorf("reservation %s not found", reservationID))
	}
	if reservation.OwnerID != principal.ID && !principal.IsAdmin() {
		return nil, exceptions.ErrNotResourceOwner(fmt.Errorf("reservation %s is not owned by %s", reservationID, principal.ID))
	}
	return reservation, nil
}
