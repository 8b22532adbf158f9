package models

import "time"

// Resource is one catalog entry: a doctor, a lab or a medicine. Doctors and
// labs own bookable slots; medicines are purchasable goods. Price is in
// currency minor units (a doctor's consultation fee, a lab test price, a
// medicine unit price).
type Resource struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Kind        string    `bson:"kind" json:"kind"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Speciality  string    `bson:"speciality,omitempty" json:"speciality,omitempty"`
	Price       int64     `bson:"price" json:"price"`
	Available   bool      `bson:"available" json:"available"`
	CreatedAt   time.Time `bson:"createdAt" json:"created_at"`
}
