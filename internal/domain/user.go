package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuthProvider identifies how a user signs in.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

type User struct {
	ID           uuid.UUID    `json:"id"`
	FirstName    string       `json:"firstname"`
	LastName     string       `json:"lastname"`
	Email        string       `json:"email"`
	PasswordHash *string      `json:"-"`
	GoogleID     *string      `json:"-"`
	AvatarURL    *string      `json:"avatar,omitempty"`
	Provider     AuthProvider `json:"provider"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type UserRepository interface {
	Create(user *User) (*User, error)
	GetByID(id uuid.UUID) (*User, error)
	GetByEmail(email string) (*User, error)
	GetByGoogleID(googleID string) (*User, error)
	LinkGoogleID(id uuid.UUID, googleID string) (*User, error)
}
