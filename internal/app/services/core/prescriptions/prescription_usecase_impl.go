package prescriptions

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
	prescriptionUsecaseInstance contracts.PrescriptionUsecase
	oncePrescriptionUsecase     sync.Once
)

type prescriptionUsecase struct {
	prescriptionRepository contracts.PrescriptionRepository
	reservationRepository  contracts.ReservationRepository
	Log                    *zap.Logger
}

func NewPrescriptionUsecase(
	prescriptionRepository contracts.PrescriptionRepository,
	reservationRepository contracts.ReservationRepository,
	logger *zap.Logger,
) contracts.PrescriptionUsecase {
	oncePrescriptionUsecase.Do(func() {
		instance := &prescriptionUsecase{
			prescriptionRepository: prescriptionRepository,
			reservationRepository:  reservationRepository,
			Log:                    logger,
		}
		prescriptionUsecaseInstance = instance
	})
	return prescriptionUsecaseInstance
}

// Create lets a doctor write a prescription against a confirmed doctor
// appointment. The appointment binds the doctor to the patient, so the
// prescription inherits its ownership pair.
func (uc *prescriptionUsecase) Create(ctx context.Context, principal *models.Principal, request *requests.CreatePrescription) (*models.Prescription, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("prescriptionUsecase.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPrincipalIDKey, principal.ID),
	)

	if principal.Role != constvars.RoleDoctor {
		return nil, exceptions.ErrRoleNotAllowed(fmt.Errorf("role %s cannot write prescriptions", principal.Role))
	}

	appointment, err := uc.reservationRepository.FindByID(ctx, request.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil || appointment.Kind != constvars.ReservationKindDoctorAppointment {
		return nil, exceptions.ErrReservationNotFound(fmt.Errorf("appointment %s not found", request.AppointmentID))
	}
	// The caller's catalog linkage, not the account id, ties a doctor to
	// the appointments booked with them.
	if principal.ResourceID == "" || appointment.ResourceID != principal.ResourceID {
		return nil, exceptions.ErrNotResourceOwner(fmt.Errorf("appointment %s does not belong to doctor %s", request.AppointmentID, principal.ID))
	}
	if appointment.Status != constvars.ReservationStatusConfirmed && appointment.Status != constvars.ReservationStatusCompleted {
		return nil, exceptions.ErrInvalidReservationState(fmt.Errorf("appointment %s is %s", request.AppointmentID, appointment.Status))
	}

	prescription := &models.Prescription{
		AppointmentID: appointment.ID,
		DoctorID:      principal.ID,
		PatientID:     appointment.OwnerID,
		Diagnosis:     request.Diagnosis,
		Medications:   request.Medications,
		Notes:         request.Notes,
		CreatedAt:     time.Now().UTC(),
	}
	prescriptionID, err := uc.prescriptionRepository.CreatePrescription(ctx, prescription)
	if err != nil {
		return nil, err
	}
	prescription.ID = prescriptionID
	return prescription, nil
}

func (uc *prescriptionUsecase) GetByID(ctx context.Context, principal *models.Principal, prescriptionID string) (*models.Prescription, error) {
	prescription, err := uc.prescriptionRepository.FindByID(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}
	if prescription == nil {
		return nil, exceptions.ErrReservationNotFound(fmt.Errorf("prescription %s not found", prescriptionID))
	}
	if prescription.PatientID != principal.ID && prescription.DoctorID != principal.ID && !principal.IsAdmin() {
		return nil, exceptions.ErrNotResourceOwner(fmt.Errorf("prescription %s is not visible to %s", prescriptionID, principal.ID))
	}
	return prescription, nil
}

// ListOwn answers from the caller's side of the relationship: doctors see
// what they authored, everyone else what was prescribed to them.
func (uc *prescriptionUsecase) ListOwn(ctx context.Context, principal *models.Principal) ([]models.Prescription, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("prescriptionUsecase.ListOwn called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPrincipalIDKey, principal.ID),
	)

	if principal.Role == constvars.RoleDoctor {
		return uc.prescriptionRepository.ListByDoctor(ctx, principal.ID)
	}
	return uc.prescriptionRepository.ListByPatient(ctx, principal.ID)
}
