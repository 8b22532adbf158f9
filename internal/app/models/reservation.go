package models

import (
	"medbook-service/internal/pkg/constvars"
	"time"
)

// OrderItem is one medicine line on a medicine-order reservation. Unit
// prices are copied from the catalog at creation time; the order amount is
// never recomputed afterwards.
type OrderItem struct {
	MedicineID string `bson:"medicineId" json:"medicine_id"`
	Name       string `bson:"name" json:"name"`
	Quantity   int64  `bson:"quantity" json:"quantity"`
	UnitPrice  int64  `bson:"unitPrice" json:"unit_price"`
}

// Reservation is the single booking entity: doctor appointment, lab
// appointment or medicine order, discriminated by Kind. Appointments carry a
// claimed slot; orders do not. Amounts are currency minor units.
type Reservation struct {
	ID                 string      `bson:"_id,omitempty" json:"id"`
	Kind               string      `bson:"kind" json:"kind"`
	OwnerID            string      `bson:"ownerId" json:"owner_id"`
	ResourceID         string      `bson:"resourceId,omitempty" json:"resource_id,omitempty"`
	ResourceName       string      `bson:"resourceName,omitempty" json:"resource_name,omitempty"`
	SlotDate           string      `bson:"slotDate,omitempty" json:"slot_date,omitempty"`
	SlotTime           string      `bson:"slotTime,omitempty" json:"slot_time,omitempty"`
	Items              []OrderItem `bson:"items,omitempty" json:"items,omitempty"`
	Amount             int64       `bson:"amount" json:"amount"`
	Status             string      `bson:"status" json:"status"`
	PaymentStatus      string      `bson:"paymentStatus" json:"payment_status"`
	PaymentOrderID     string      `bson:"paymentOrderId,omitempty" json:"payment_order_id,omitempty"`
	PaymentReferenceID string      `bson:"paymentReferenceId,omitempty" json:"payment_reference_id,omitempty"`
	SlotReleased       bool        `bson:"slotReleased,omitempty" json:"-"`
	CreatedAt          time.Time   `bson:"createdAt" json:"created_at"`
	UpdatedAt          time.Time   `bson:"updatedAt" json:"updated_at"`
}

func (r *Reservation) HasSlot() bool {
	return r.Kind != constvars.ReservationKindMedicineOrder && r.ResourceID != ""
}
