package models

import "time"

// SlotClaim is one row of the slot ledger. The (resourceId, date, time)
// triple is covered by a unique index, so inserting a claim is the atomic
// compare-and-set the booking flow relies on.
type SlotClaim struct {
	ID         string    `bson:"_id,omitempty"`
	ResourceID string    `bson:"resourceId"`
	Date       string    `bson:"date"`
	Time       string    `bson:"time"`
	ClaimedAt  time.Time `bson:"claimedAt"`
}
