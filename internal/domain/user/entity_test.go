package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewUser(t *testing.T) {
	t.Run("ValidAccount_ShouldHashPassword", func(t *testing.T) {
		u, err := NewUser("Chef@HomeMadeFood.test", "s3cret-pass", bcrypt.MinCost, RoleAdmin)

		require.NoError(t, err)
		assert.Equal(t, "chef@homemadefood.test", u.Email())
		assert.NotEqual(t, "s3cret-pass", u.PasswordHash())
		assert.NoError(t, u.CheckPassword("s3cret-pass"))
		assert.Error(t, u.CheckPassword("wrong-pass"))
		assert.True(t, u.HasRole(RoleAdmin))
		assert.False(t, u.HasRole(RoleStaff))
		assert.Nil(t, u.LastLoginAt())
	})

	t.Run("InvalidInput_ShouldFail", func(t *testing.T) {
		_, err := NewUser("", "s3cret-pass", bcrypt.MinCost)
		assert.ErrorIs(t, err, ErrEmailRequired)

		_, err = NewUser("not-an-email", "s3cret-pass", bcrypt.MinCost)
		assert.ErrorIs(t, err, ErrInvalidEmail)

		_, err = NewUser("a@b.c", "short", bcrypt.MinCost)
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})
}

func TestRecordLogin(t *testing.T) {
	u, err := NewUser("a@b.c", "long-enough", bcrypt.MinCost)
	require.NoError(t, err)

	u.RecordLogin()

	require.NotNil(t, u.LastLoginAt())
	assert.Equal(t, *u.LastLoginAt(), u.UpdatedAt())
}
