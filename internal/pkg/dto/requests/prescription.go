package requests

type CreatePrescription struct {
	AppointmentID string   `json:"appointment_id" validate:"required"`
	Diagnosis     string   `json:"diagnosis" validate:"required,max=2000"`
	Medications   []string `json:"medications" validate:"required,min=1"`
	Notes         string   `json:"notes" validate:"omitempty,max=2000"`
}
