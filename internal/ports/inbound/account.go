package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountService signs administrators in to the back office
type AccountService interface {
	Login(ctx context.Context, email, password string) (*Session, error)
}

// Session is the result of a successful login
type Session struct {
	UserID    uuid.UUID
	Email     string
	Roles     []string
	Token     string
	ExpiresAt time.Time
}
