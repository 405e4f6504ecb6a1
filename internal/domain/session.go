package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionClosed indicates an operation on a logged out or deactivated session.
	ErrSessionClosed = errors.New("session is closed")
	// ErrConfirmationMismatch indicates a deactivation confirmation token
	// that does not match the account email.
	ErrConfirmationMismatch = errors.New("confirmation token mismatch")
)

// Session caches the authenticated account for one interactive login.
//
// The cached balance is advanced in lock-step with successful mutations and
// is stale the moment any operation fails; the store stays authoritative.
// A Session is owned by a single caller and must not be shared.
type Session struct {
	ID        uuid.UUID `json:"id"`
	AccountID int64     `json:"account_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}
