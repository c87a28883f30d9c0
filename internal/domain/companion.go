package domain

import (
	"time"

	"github.com/google/uuid"
)

// TravelCompanion is a contact record representing a person who may
// participate in trips and items. A companion may or may not correspond to a
// registered account: LinkedUserID is set once the contact is matched to a
// User, and stays nil for purely address-book entries.
//
// A companion with no linked account can only be the *target* of a grant;
// it can never act, because permission checks take a user id.
type TravelCompanion struct {
	ID           uuid.UUID  `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	LinkedUserID *uuid.UUID `json:"linked_user_id,omitempty"`
	CreatedBy    uuid.UUID  `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
