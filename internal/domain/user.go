package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Account lifecycle (registration, login)
// lives in the auth package; the sharing engine only needs the identifier.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
