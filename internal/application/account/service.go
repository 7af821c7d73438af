// Package account provides the sign-in use case of the back office
package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/domain/user"
	"github.com/homemadefood/backoffice/internal/ports/inbound"
	"github.com/homemadefood/backoffice/internal/ports/outbound"
	apperrors "github.com/homemadefood/backoffice/pkg/errors"
)

// TokenIssuer signs session tokens
type TokenIssuer interface {
	Issue(userID uuid.UUID, email string, roles []string) (string, time.Time, error)
}

// Service implements inbound.AccountService
type Service struct {
	users  outbound.UserRepository
	tokens TokenIssuer
	logger *zap.Logger
}

var _ inbound.AccountService = (*Service)(nil)

// NewService creates a new account service
func NewService(users outbound.UserRepository, tokens TokenIssuer, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		logger: logger.Named("account-service"),
	}
}

// Login authenticates a user and issues a session token
func (s *Service) Login(ctx context.Context, email, password string) (*inbound.Session, error) {
	s.logger.Info("User login attempt", zap.String("email", email))

	account, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewDatabaseError("find user", err)
	}
	if account == nil {
		s.logger.Warn("Login for unknown email", zap.String("email", email))
		return nil, apperrors.NewInvalidCredentialsError()
	}

	if err := account.CheckPassword(password); err != nil {
		s.logger.Warn("Invalid password attempt", zap.String("email", email))
		return nil, apperrors.NewInvalidCredentialsError()
	}

	roles := make([]string, len(account.Roles()))
	for i, role := range account.Roles() {
		roles[i] = string(role)
	}

	token, expiresAt, err := s.tokens.Issue(account.ID(), account.Email(), roles)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue session token").WithCause(err)
	}

	if err := s.users.UpdateLastLogin(ctx, account.ID()); err != nil {
		s.logger.Warn("Failed to update last login", zap.String("user_id", account.ID().String()), zap.Error(err))
	}

	s.logger.Info("User logged in successfully",
		zap.String("user_id", account.ID().String()),
		zap.String("email", account.Email()),
	)

	return &inbound.Session{
		UserID:    account.ID(),
		Email:     account.Email(),
		Roles:     roles,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// EnsureAdmin creates the administrator account unless one with email exists
func (s *Service) EnsureAdmin(ctx context.Context, email, password string, cost int) error {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return apperrors.NewDatabaseError("find user", err)
	}
	if existing != nil {
		return nil
	}

	admin, err := user.NewUser(email, password, cost, user.RoleAdmin)
	if err != nil {
		return apperrors.NewInvalidArgumentError("admin account", err.Error())
	}

	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil
		}
		return apperrors.NewDatabaseError("create admin account", err)
	}

	s.logger.Info("Administrator account created", zap.String("email", admin.Email()))
	return nil
}
