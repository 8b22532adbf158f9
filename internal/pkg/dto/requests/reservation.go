package requests

type CreateDoctorAppointment struct {
	DoctorID string `json:"doctor_id" validate:"required"`
	SlotDate string `json:"slot_date" validate:"required,datetime=2006-01-02"`
	SlotTime string `json:"slot_time" validate:"required,max=16"`
}

type CreateLabAppointment struct {
	LabID    string `json:"lab_id" validate:"required"`
	SlotDate string `json:"slot_date" validate:"required,datetime=2006-01-02"`
	SlotTime string `json:"slot_time" validate:"required,max=16"`
}

type OrderItem struct {
	MedicineID string `json:"medicine_id" validate:"required"`
	Quantity   int64  `json:"quantity" validate:"required,gt=0"`
}

type CreateMedicineOrder struct {
	Items []OrderItem `json:"items" validate:"required,min=1,dive"`
}
