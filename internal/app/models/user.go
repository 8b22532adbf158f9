package models

import "time"

// User is an account in the users collection. Doctor accounts carry
// ResourceID, the catalog entry they practice as; the professional-capacity
// checks compare against that linkage, never against the account id itself.
type User struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	Name       string    `bson:"name" json:"name"`
	Email      string    `bson:"email" json:"email"`
	Password   string    `bson:"password" json:"-"`
	Role       string    `bson:"role" json:"role"`
	ResourceID string    `bson:"resourceId,omitempty" json:"resource_id,omitempty"`
	Phone      string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Address    string    `bson:"address,omitempty" json:"address,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updated_at"`
}

// Principal is the authenticated actor attached to the request context by
// the Authenticate middleware and re-checked on every mutating call.
type Principal struct {
	ID         string `json:"id"`
	Role       string `json:"role"`
	ResourceID string `json:"resource_id,omitempty"`
	SessionID  string `json:"session_id"`
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == "admin"
}
