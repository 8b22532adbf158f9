package contracts

import (
	"context"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/dto/requests"
)

type PrescriptionRepository interface {
	CreatePrescription(ctx context.Context, prescription *models.Prescription) (string, error)
	FindByID(ctx context.Context, prescriptionID string) (*models.Prescription, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Prescription, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Prescription, error)
}

type PrescriptionUsecase interface {
	Create(ctx context.Context, principal *models.Principal, request *requests.CreatePrescription) (*models.Prescription, error)
	GetByID(ctx context.Context, principal *models.Principal, prescriptionID string) (*models.Prescription, error)
	ListOwn(ctx context.Context, principal *models.Principal) ([]models.Prescription, error)
}
