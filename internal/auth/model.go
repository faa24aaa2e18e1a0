package auth

import (
	"time"

	"github.com/gofrs/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Session is an authenticated identity held server-side behind an opaque
// token. AdminHint is computed once when the session is issued and is a
// display hint only; privileged operations go through Guard, which
// re-derives admin membership on every call and never reads the hint.
type Session struct {
	Token     string    `json:"-" db:"token"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Email     string    `json:"email" db:"email"`
	AdminHint bool      `json:"is_admin" db:"admin_hint"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}
