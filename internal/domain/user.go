package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	Email      string     `db:"email" json:"email"`
	Role       string     `db:"role" json:"role"`
	Banned     bool       `db:"banned" json:"banned"`
	BanReason  *string    `db:"ban_reason" json:"banReason"`
	BanExpires *time.Time `db:"ban_expires" json:"banExpires"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Session struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Token     string    `db:"token" json:"-"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	IPAddress string    `db:"ip_address" json:"-"`
	UserAgent string    `db:"user_agent" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Account holds the credential material for a user. Only the
// email/password provider is implemented.
type Account struct {
	ID           uuid.UUID `db:"id"`
	UserID       uuid.UUID `db:"user_id"`
	ProviderID   string    `db:"provider_id"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Identity is the resolved authentication state of a request. A nil
// Identity (or nil fields) means the request is anonymous.
type Identity struct {
	User    *User
	Session *Session
}
