package models

import "time"

// User roles. Role is fixed at signup.
const (
	RoleFarmer = "FARMER"
	RoleBuyer  = "BUYER"
)

func ValidRole(r string) bool {
	return r == RoleFarmer || r == RoleBuyer
}

type User struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"` // bcrypt hash, never serialized
	Role      string    `json:"role" bson:"role"`
	Image     string    `json:"image,omitempty" bson:"image,omitempty"`
	Location  string    `json:"location,omitempty" bson:"location,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ProfileUpdate carries the self-editable profile fields.
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Image    *string `json:"image,omitempty"`
	Location *string `json:"location,omitempty"`
}
