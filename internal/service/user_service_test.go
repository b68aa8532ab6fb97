package service

import (
	"context"
	"errors"
	"testing"

	"github.com/kotoba/study-api/internal/domain"
	"github.com/kotoba/study-api/internal/service/auth"
	"github.com/kotoba/study-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(t *testing.T) (UserService, *fakeUserStore) {
	t.Helper()
	users := newFakeUserStore()
	svc, err := NewUserService(users, auth.NewBcryptVerifier(bcrypt.MinCost), nil)
	require.NoError(t, err)
	return svc, users
}

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	t.Parallel()

	svc, users := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, " Learner@Example.com ", "long-enough-password")
	require.NoError(t, err)
	assert.Equal(t, "learner@example.com", user.Email)
	assert.NotEqual(t, "long-enough-password", users.byEmail["learner@example.com"].HashedPassword)

	got, err := svc.Authenticate(ctx, "learner@example.com", "long-enough-password")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	byID, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)

	_, err = svc.Authenticate(ctx, "learner@example.com", "wrong-password-here")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "long-enough-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Register(ctx, "learner@example.com", "another-long-password")
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestUserService_RegisterValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestUserService(t)

	_, err := svc.Register(context.Background(), "learner@example.com", "short")
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)

	_, err = svc.Register(context.Background(), "not-an-email", "long-enough-password")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestUserService_AuthenticateStoreFailure(t *testing.T) {
	t.Parallel()

	svc, users := newTestUserService(t)
	dbErr := errors.New("db down")
	users.getErr = dbErr

	_, err := svc.Authenticate(context.Background(), "learner@example.com", "long-enough-password")
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
