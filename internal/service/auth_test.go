package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/repository/memory"
	"carrent-backend/internal/security"
	"carrent-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	store := memory.NewStore()
	tokens := security.NewTokenManager("test-secret", time.Hour)
	svc := service.NewAuthService(store, &store.Repos, tokens)
	ctx := context.Background()

	user, customer, err := svc.Register(ctx, "  maria ", "secret123", "")
	require.NoError(t, err)
	assert.Equal(t, "maria", user.Username)
	assert.Equal(t, []domain.Role{domain.RoleClient}, user.Roles)
	assert.Equal(t, "maria", customer.FullName)
	assert.Equal(t, user.ID, customer.UserID)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	session, err := svc.Login(ctx, "maria", "secret123")
	require.NoError(t, err)
	assert.Equal(t, customer.ID, session.CustomerID)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	claims, err := tokens.ValidateToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, customer.ID, claims.CustomerID)

	t.Run("Duplicate username", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "maria", "another1", "Maria B")
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "maria", "wrong-password")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("Unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", "secret123")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})
}

func TestAuthService_RegisterValidation(t *testing.T) {
	store := memory.NewStore()
	svc := service.NewAuthService(store, &store.Repos, security.NewTokenManager("s", time.Hour))
	ctx := context.Background()

	_, _, err := svc.Register(ctx, " ", "secret123", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = svc.Register(ctx, "jon", "123", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthService_Login_StaffWithoutCustomer(t *testing.T) {
	m := newMockRepos()
	tokens := new(MockTokenManager)
	svc := service.NewAuthService(m.tx(), m.repos, tokens)
	ctx := context.Background()

	hash, err := security.HashPassword("manager1")
	require.NoError(t, err)
	manager := &domain.User{ID: 9, Username: "boss", PasswordHash: hash, Roles: []domain.Role{domain.RoleManager}}
	expires := time.Now().Add(time.Hour)

	m.users.On("GetByUsername", ctx, "boss").Return(manager, nil)
	m.customers.On("GetByUserID", ctx, int32(9)).Return(nil, domain.NotFoundf("customer for user 9"))
	tokens.On("GenerateAccessToken", manager, int32(0)).Return("tok", expires, nil)

	session, err := svc.Login(ctx, "boss", "manager1")
	require.NoError(t, err)
	assert.Equal(t, "tok", session.AccessToken)
	assert.Zero(t, session.CustomerID)
	tokens.AssertExpectations(t)
}

func TestAuthService_Login_TokenFailure(t *testing.T) {
	m := newMockRepos()
	tokens := new(MockTokenManager)
	svc := service.NewAuthService(m.tx(), m.repos, tokens)
	ctx := context.Background()

	hash, _ := security.HashPassword("secret123")
	user := &domain.User{ID: 1, Username: "maria", PasswordHash: hash}
	m.users.On("GetByUsername", ctx, "maria").Return(user, nil)
	m.customers.On("GetByUserID", ctx, int32(1)).Return(&domain.Customer{ID: 4, UserID: 1}, nil)
	tokens.On("GenerateAccessToken", mock.Anything, int32(4)).Return("", time.Time{}, errors.New("signing failed"))

	_, err := svc.Login(ctx, "maria", "secret123")
	assert.EqualError(t, err, "signing failed")
}
