package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homemadefood/backoffice/internal/domain/user"
	"github.com/homemadefood/backoffice/internal/ports/outbound"
)

// UserRepository keeps back office accounts in process memory. Accounts are
// copied on the way in and out, so callers never share an instance.
type UserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*user.User
}

var _ outbound.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates an empty account repository
func NewUserRepository() *UserRepository {
	return &UserRepository{byEmail: make(map[string]*user.User)}
}

// Create stores u. A taken email yields user.ErrEmailTaken.
func (r *UserRepository) Create(_ context.Context, u *user.User) error {
	key := strings.ToLower(u.Email())

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[key]; taken {
		return user.ErrEmailTaken
	}
	r.byEmail[key] = copyUser(u, u.LastLoginAt(), u.UpdatedAt())
	return nil
}

// FindByEmail returns (nil, nil) when no account uses email
func (r *UserRepository) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return copyUser(u, u.LastLoginAt(), u.UpdatedAt()), nil
}

// UpdateLastLogin stamps the account's last successful sign in
func (r *UserRepository) UpdateLastLogin(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, u := range r.byEmail {
		if u.ID() == id {
			now := time.Now()
			r.byEmail[key] = copyUser(u, &now, now)
			return nil
		}
	}
	return ErrRecordNotFound
}

func copyUser(u *user.User, lastLoginAt *time.Time, updatedAt time.Time) *user.User {
	if lastLoginAt != nil {
		at := *lastLoginAt
		lastLoginAt = &at
	}
	return user.Reconstitute(u.ID(), u.Email(), u.PasswordHash(), u.Roles(), u.CreatedAt(), updatedAt, lastLoginAt)
}
