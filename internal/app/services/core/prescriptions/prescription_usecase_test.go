package prescriptions

import (
	"context"
	"fmt"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/dto/requests"
	"medbook-service/internal/pkg/exceptions"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePrescriptionRepository struct {
	prescriptions map[string]*models.Prescription
}

func newFakePrescriptionRepository() *fakePrescriptionRepository {
	return &fakePrescriptionRepository{prescriptions: make(map[string]*models.Prescription)}
}

func (f *fakePrescriptionRepository) CreatePrescription(ctx context.Context, prescription *models.Prescription) (string, error) {
	id := fmt.Sprintf("rx-%d", len(f.prescriptions)+1)
	clone := *prescription
	clone.ID = id
	f.prescriptions[id] = &clone
	return id, nil
}

func (f *fakePrescriptionRepository) FindByID(ctx context.Context, prescriptionID string) (*models.Prescription, error) {
	prescription, ok := f.prescriptions[prescriptionID]
	if !ok {
		return nil, nil
	}
	clone := *prescription
	return &clone, nil
}

func (f *fakePrescriptionRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Prescription, error) {
	var out []models.Prescription
	for _, prescription := range f.prescriptions {
		if prescription.PatientID == patientID {
			out = append(out, *prescription)
		}
	}
	return out, nil
}

func (f *fakePrescriptionRepository) ListByDoctor(ctx context.Context, doctorID string) ([]models.Prescription, error) {
	var out []models.Prescription
	for _, prescription := range f.prescriptions {
		if prescription.DoctorID == doctorID {
			out = append(out, *prescription)
		}
	}
	return out, nil
}

type stubReservationRepository struct {
	reservations map[string]*models.Reservation
}

func newStubReservationRepository() *stubReservationRepository {
	return &stubReservationRepository{reservations: make(map[string]*models.Reservation)}
}

func (s *stubReservationRepository) put(reservation *models.Reservation) {
	clone := *reservation
	s.reservations[reservation.ID] = &clone
}

func (s *stubReservationRepository) Insert(ctx context.Context, reservation *models.Reservation) (string, error) {
	return "", nil
}

func (s *stubReservationRepository) FindByID(ctx context.Context, reservationID string) (*models.Reservation, error) {
	reservation, ok := s.reservations[reservationID]
	if !ok {
		return nil, nil
	}
	clone := *reservation
	return &clone, nil
}

func (s *stubReservationRepository) FindByPaymentOrderID(ctx context.Context, paymentOrderID string) (*models.Reservation, error) {
	return nil, nil
}

func (s *stubReservationRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Reservation, error) {
	return nil, nil
}

func (s *stubReservationRepository) ListAll(ctx context.Context) ([]models.Reservation, error) {
	return nil, nil
}

func (s *stubReservationRepository) MarkCancelled(ctx context.Context, reservationID string) (bool, error) {
	return false, nil
}

func (s *stubReservationRepository) SetPaymentOrderID(ctx context.Context, reservationID, paymentOrderID string) (bool, error) {
	return false, nil
}

func (s *stubReservationRepository) MarkPaid(ctx context.Context, reservationID, paymentOrderID, paymentReferenceID string) (bool, error) {
	return false, nil
}

func (s *stubReservationRepository) MarkSlotReleased(ctx context.Context, reservationID string) error {
	return nil
}

func newTestPrescriptionUsecase() (*prescriptionUsecase, *fakePrescriptionRepository, *stubReservationRepository) {
	prescriptionRepository := newFakePrescriptionRepository()
	reservationRepository := newStubReservationRepository()
	uc := &prescriptionUsecase{
		prescriptionRepository: prescriptionRepository,
		reservationRepository:  reservationRepository,
		Log:                    zap.NewNop(),
	}
	return uc, prescriptionRepository, reservationRepository
}

func confirmedAppointment() *models.Reservation {
	return &models.Reservation{
		ID:            "res-1",
		Kind:          constvars.ReservationKindDoctorAppointment,
		OwnerID:       "patient-1",
		ResourceID:    "doc-1",
		SlotDate:      "2026-09-01",
		SlotTime:      "10:00",
		Status:        constvars.ReservationStatusConfirmed,
		PaymentStatus: constvars.PaymentStatusCompleted,
	}
}

func prescriptionRequest() *requests.CreatePrescription {
	return &requests.CreatePrescription{
		AppointmentID: "res-1",
		Diagnosis:     "Hypertension",
		Medications:   []string{"Amlodipine 5mg"},
	}
}

func TestCreatePrescription(t *testing.T) {
	linkedDoctor := &models.Principal{ID: "doctor-user-1", Role: constvars.RoleDoctor, ResourceID: "doc-1"}

	t.Run("the appointment's doctor writes against it", func(t *testing.T) {
		uc, _, reservationRepository := newTestPrescriptionUsecase()
		reservationRepository.put(confirmedAppointment())

		prescription, err := uc.Create(context.Background(), linkedDoctor, prescriptionRequest())
		require.NoError(t, err)
		assert.Equal(t, "doctor-user-1", prescription.DoctorID)
		assert.Equal(t, "patient-1", prescription.PatientID)
		assert.Equal(t, "res-1", prescription.AppointmentID)
	})

	t.Run("a doctor linked to another catalog entry is rejected", func(t *testing.T) {
		uc, _, reservationRepository := newTestPrescriptionUsecase()
		reservationRepository.put(confirmedAppointment())

		other := &models.Principal{ID: "doctor-user-2", Role: constvars.RoleDoctor, ResourceID: "doc-2"}
		_, err := uc.Create(context.Background(), other, prescriptionRequest())
		require.Error(t, err)
		customErr, ok := err.(*exceptions.CustomError)
		require.True(t, ok)
		assert.Equal(t, constvars.StatusForbidden, customErr.StatusCode)
	})

	t.Run("a doctor account without a catalog linkage is rejected", func(t *testing.T) {
		uc, _, reservationRepository := newTestPrescriptionUsecase()
		reservationRepository.put(confirmedAppointment())

		unlinked := &models.Principal{ID: "doctor-user-3", Role: constvars.RoleDoctor}
		_, err := uc.Create(context.Background(), unlinked, prescriptionRequest())
		require.Error(t, err)
	})

	t.Run("a non-doctor is rejected", func(t *testing.T) {
		uc, _, reservationRepository := newTestPrescriptionUsecase()
		reservationRepository.put(confirmedAppointment())

		patient := &models.Principal{ID: "patient-1", Role: constvars.RoleUser}
		_, err := uc.Create(context.Background(), patient, prescriptionRequest())
		require.Error(t, err)
	})

	t.Run("an unpaid appointment cannot be prescribed against", func(t *testing.T) {
		uc, _, reservationRepository := newTestPrescriptionUsecase()
		appointment := confirmedAppointment()
		appointment.Status = constvars.ReservationStatusBooked
		appointment.PaymentStatus = constvars.PaymentStatusPending
		reservationRepository.put(appointment)

		_, err := uc.Create(context.Background(), linkedDoctor, prescriptionRequest())
		require.Error(t, err)
		customErr, ok := err.(*exceptions.CustomError)
		require.True(t, ok)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	})
}

func TestPrescriptionVisibility(t *testing.T) {
	linkedDoctor := &models.Principal{ID: "doctor-user-1", Role: constvars.RoleDoctor, ResourceID: "doc-1"}

	seed := func(t *testing.T) (*prescriptionUsecase, *models.Prescription) {
		t.Helper()
		uc, _, reservationRepository := newTestPrescriptionUsecase()
		reservationRepository.put(confirmedAppointment())
		prescription, err := uc.Create(context.Background(), linkedDoctor, prescriptionRequest())
		require.NoError(t, err)
		return uc, prescription
	}

	t.Run("patient and author can read, strangers cannot", func(t *testing.T) {
		uc, prescription := seed(t)

		_, err := uc.GetByID(context.Background(), &models.Principal{ID: "patient-1", Role: constvars.RoleUser}, prescription.ID)
		assert.NoError(t, err)

		_, err = uc.GetByID(context.Background(), linkedDoctor, prescription.ID)
		assert.NoError(t, err)

		_, err = uc.GetByID(context.Background(), &models.Principal{ID: "patient-2", Role: constvars.RoleUser}, prescription.ID)
		assert.Error(t, err)
	})

	t.Run("doctors list authored, patients list received", func(t *testing.T) {
		uc, _ := seed(t)

		authored, err := uc.ListOwn(context.Background(), linkedDoctor)
		require.NoError(t, err)
		assert.Len(t, authored, 1)

		received, err := uc.ListOwn(context.Background(), &models.Principal{ID: "patient-1", Role: constvars.RoleUser})
		require.NoError(t, err)
		assert.Len(t, received, 1)

		none, err := uc.ListOwn(context.Background(), &models.Principal{ID: "patient-2", Role: constvars.RoleUser})
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}
