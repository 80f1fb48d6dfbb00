package types

import "time"

// User represents a learner account.
type User struct {
	// ID is the store-assigned identifier (hex ObjectID for Mongo, UUID for Postgres).
	ID string `json:"_id"`

	// Email is the unique login address.
	Email string `json:"email"`

	// Name is the user's display name.
	Name string `json:"name,omitempty"`

	// PasswordHash stores the bcrypt hash, or a legacy plain-text credential that is
	// upgraded on the next successful login. Never exposed in API responses.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the timestamp of the most recent change to the account.
	UpdatedAt time.Time `json:"updatedAt"`
}
