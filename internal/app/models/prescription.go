package models

import "time"

// Prescription is authored by a doctor against one of their confirmed
// appointments. The doctor id is the professional-capacity owner; the
// patient id is the reading owner.
type Prescription struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	AppointmentID string    `bson:"appointmentId" json:"appointment_id"`
	DoctorID      string    `bson:"doctorId" json:"doctor_id"`
	PatientID     string    `bson:"patientId" json:"patient_id"`
	Diagnosis     string    `bson:"diagnosis" json:"diagnosis"`
	Medications   []string  `bson:"medications" json:"medications"`
	Notes         string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"created_at"`
}
