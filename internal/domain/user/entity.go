// Package user defines the back office account entity
package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role grants access to an area of the back office
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("password too long")
	ErrEmailTaken       = errors.New("user with this email already exists")
)

// User is an account that can sign in to the back office
type User struct {
	id           uuid.UUID
	email        string
	passwordHash string
	roles        []Role
	createdAt    time.Time
	updatedAt    time.Time
	lastLoginAt  *time.Time
}

// NewUser creates a new account, hashing password with the given bcrypt cost
func NewUser(email, password string, cost int, roles ...Role) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	if err := validatePassword(password); err != nil {
		return nil, err
	}

	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	now := time.Now()
	return &User{
		id:           uuid.New(),
		email:        strings.ToLower(email),
		passwordHash: string(hashedPassword),
		roles:        roles,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstitute rebuilds a stored account without re-hashing its password
func Reconstitute(id uuid.UUID, email, passwordHash string, roles []Role, createdAt, updatedAt time.Time, lastLoginAt *time.Time) *User {
	return &User{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		roles:        roles,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		lastLoginAt:  lastLoginAt,
	}
}

// ID returns the user's ID
func (u *User) ID() uuid.UUID {
	return u.id
}

// Email returns the user's email
func (u *User) Email() string {
	return u.email
}

// PasswordHash returns the bcrypt hash of the password
func (u *User) PasswordHash() string {
	return u.passwordHash
}

// Roles returns the user's roles
func (u *User) Roles() []Role {
	return u.roles
}

// CreatedAt returns when the user was created
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// UpdatedAt returns when the user was last updated
func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// LastLoginAt returns when the user last logged in
func (u *User) LastLoginAt() *time.Time {
	return u.lastLoginAt
}

// HasRole reports whether the user holds role
func (u *User) HasRole(role Role) bool {
	for _, r := range u.roles {
		if r == role {
			return true
		}
	}
	return false
}

// CheckPassword verifies if the provided password matches
func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password))
}

// RecordLogin records a login timestamp
func (u *User) RecordLogin() {
	now := time.Now()
	u.lastLoginAt = &now
	u.updatedAt = now
}

func validateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}

	if !strings.Contains(email, "@") || len(email) > 255 {
		return ErrInvalidEmail
	}

	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	if len(password) > 72 {
		return ErrPasswordTooLong
	}

	return nil
}
