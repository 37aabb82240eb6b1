package models

import "time"

// Role is the permission level of an account.
type Role string

// Status is the moderation state of an account.
type Status string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"

	StatusActive Status = "ACTIVE"
	StatusBanned Status = "BANNED"
)

// UserProfile represents one account in the system.
// @Description Full user profile
type UserProfile struct {
	ID       string    `json:"id" example:"2f4d8a1c-9b0e-4f3a-8c7d-1e5b6a9f0c2d"`
	Name     string    `json:"name" example:"王小明"`
	Email    string    `json:"email" example:"user@example.com"`
	Picture  string    `json:"picture" example:"https://lh3.googleusercontent.com/a/photo"`
	Role     Role      `json:"role" enums:"USER,ADMIN"`
	Status   Status    `json:"status" enums:"ACTIVE,BANNED"`
	Points   int       `json:"points" example:"100"`
	JoinedAt time.Time `json:"joined_at"`
}

// Identity is the tuple decoded from an external identity assertion. It is
// the only thing the core consumes from the authentication collaborator.
type Identity struct {
	Subject string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// StatusUpdate is the admin request body for changing an account status.
type StatusUpdate struct {
	Status Status `json:"status" binding:"required,oneof=ACTIVE BANNED"`
}

// RoleUpdate is the admin request body for changing an account role.
type RoleUpdate struct {
	Role Role `json:"role" binding:"required,oneof=USER ADMIN"`
}
