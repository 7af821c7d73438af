// Package security provides token based authentication for the back office
package security

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/infrastructure/config"
)

const issuer = "homemadefood"

// Claims represents JWT claims structure
type Claims struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claims grant role
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TokenService issues and validates signed session tokens
type TokenService struct {
	secret     []byte
	expiration time.Duration
	revoked    RevocationList
	logger     *zap.Logger
}

// NewTokenService creates a token service. Without a configured secret a
// random one is generated, so tokens do not survive a restart.
func NewTokenService(cfg config.AuthConfig, revoked RevocationList, logger *zap.Logger) (*TokenService, error) {
	logger = logger.Named("tokens")

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate signing secret: %w", err)
		}
		logger.Warn("auth.jwt_secret is not set, using an ephemeral signing secret")
	}

	if revoked == nil {
		revoked = NewMemoryRevocationList()
	}

	return &TokenService{
		secret:     secret,
		expiration: cfg.JWTExpiration,
		revoked:    revoked,
		logger:     logger,
	}, nil
}

// Issue signs a token for the user and returns it with its expiry
func (s *TokenService) Issue(userID uuid.UUID, email string, roles []string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiration)
	claims := &Claims{
		UserID: userID.String(),
		Email:  email,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Validate parses tokenString and rejects expired, foreign or revoked tokens
func (s *TokenService) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		// fail open while the revocation list is unreachable
		s.logger.Warn("Failed to check token revocation", zap.Error(err))
	} else if revoked {
		return nil, fmt.Errorf("token has been revoked")
	}

	return claims, nil
}

// Revoke invalidates the token described by claims until it would have expired
func (s *TokenService) Revoke(ctx context.Context, claims *Claims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, ttl)
}
