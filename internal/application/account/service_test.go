package account_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/application/account"
	"github.com/homemadefood/backoffice/internal/domain/user"
	"github.com/homemadefood/backoffice/internal/testutil"
	apperrors "github.com/homemadefood/backoffice/pkg/errors"
)

type stubIssuer struct {
	err error
}

func (s stubIssuer) Issue(userID uuid.UUID, email string, roles []string) (string, time.Time, error) {
	if s.err != nil {
		return "", time.Time{}, s.err
	}
	return "token-for-" + email, time.Unix(1700000000, 0), nil
}

type AccountServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	users   *testutil.MockUserRepository
	service *account.Service
	chef    *user.User
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.users = new(testutil.MockUserRepository)
	s.service = account.NewService(s.users, stubIssuer{}, zap.NewNop())

	chef, err := user.NewUser("chef@homemadefood.local", "correct-horse", 4, user.RoleAdmin)
	s.Require().NoError(err)
	s.chef = chef
}

func (s *AccountServiceTestSuite) TearDownTest() {
	s.users.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestLoginIssuesSession() {
	s.users.On("FindByEmail", s.ctx, "chef@homemadefood.local").Return(s.chef, nil)
	s.users.On("UpdateLastLogin", s.ctx, s.chef.ID()).Return(nil)

	session, err := s.service.Login(s.ctx, "chef@homemadefood.local", "correct-horse")
	s.Require().NoError(err)
	s.Equal(s.chef.ID(), session.UserID)
	s.Equal([]string{"admin"}, session.Roles)
	s.Equal("token-for-chef@homemadefood.local", session.Token)
	s.Equal(time.Unix(1700000000, 0), session.ExpiresAt)
}

func (s *AccountServiceTestSuite) TestLoginRejectsBadCredentials() {
	s.Run("unknown email", func() {
		s.users.On("FindByEmail", s.ctx, "nobody@homemadefood.local").Return(nil, nil).Once()

		_, err := s.service.Login(s.ctx, "nobody@homemadefood.local", "whatever1")
		s.True(apperrors.Is(err, apperrors.CodeInvalidCredentials))
	})

	s.Run("wrong password", func() {
		s.users.On("FindByEmail", s.ctx, "chef@homemadefood.local").Return(s.chef, nil).Once()

		_, err := s.service.Login(s.ctx, "chef@homemadefood.local", "wrong-password")
		s.True(apperrors.Is(err, apperrors.CodeInvalidCredentials))
	})

	s.users.AssertNotCalled(s.T(), "UpdateLastLogin", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestLoginSurvivesLastLoginFailure() {
	s.users.On("FindByEmail", s.ctx, "chef@homemadefood.local").Return(s.chef, nil)
	s.users.On("UpdateLastLogin", s.ctx, s.chef.ID()).Return(errors.New("disk full"))

	session, err := s.service.Login(s.ctx, "chef@homemadefood.local", "correct-horse")
	s.Require().NoError(err)
	s.NotEmpty(session.Token)
}

func (s *AccountServiceTestSuite) TestLoginSurfacesLookupFailure() {
	s.users.On("FindByEmail", s.ctx, "chef@homemadefood.local").Return(nil, errors.New("connection reset"))

	_, err := s.service.Login(s.ctx, "chef@homemadefood.local", "correct-horse")
	s.True(apperrors.Is(err, apperrors.CodeDatabaseError))
}

func (s *AccountServiceTestSuite) TestLoginSurfacesSigningFailure() {
	service := account.NewService(s.users, stubIssuer{err: errors.New("no key")}, zap.NewNop())
	s.users.On("FindByEmail", s.ctx, "chef@homemadefood.local").Return(s.chef, nil)

	_, err := service.Login(s.ctx, "chef@homemadefood.local", "correct-horse")
	s.True(apperrors.Is(err, apperrors.CodeInternal))
}

func (s *AccountServiceTestSuite) TestEnsureAdminCreatesOnce() {
	s.users.On("FindByEmail", s.ctx, "admin@homemadefood.local").Return(nil, nil).Once()
	s.users.On("Create", s.ctx, mock.MatchedBy(func(u *user.User) bool {
		return u.Email() == "admin@homemadefood.local" && u.HasRole(user.RoleAdmin)
	})).Return(nil).Once()

	s.Require().NoError(s.service.EnsureAdmin(s.ctx, "admin@homemadefood.local", "bootstrap-pass", 4))

	s.users.On("FindByEmail", s.ctx, "admin@homemadefood.local").Return(s.chef, nil).Once()
	s.Require().NoError(s.service.EnsureAdmin(s.ctx, "admin@homemadefood.local", "bootstrap-pass", 4))
}

func (s *AccountServiceTestSuite) TestEnsureAdminRejectsWeakPassword() {
	s.users.On("FindByEmail", s.ctx, "admin@homemadefood.local").Return(nil, nil)

	err := s.service.EnsureAdmin(s.ctx, "admin@homemadefood.local", "short", 4)
	s.True(apperrors.IsInvalidArgument(err))
}

func (s *AccountServiceTestSuite) TestEnsureAdminToleratesConcurrentCreate() {
	s.users.On("FindByEmail", s.ctx, "admin@homemadefood.local").Return(nil, nil)
	s.users.On("Create", s.ctx, mock.Anything).Return(user.ErrEmailTaken)

	s.NoError(s.service.EnsureAdmin(s.ctx, "admin@homemadefood.local", "bootstrap-pass", 4))
}
