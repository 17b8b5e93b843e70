package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numanubhani/finance2/internal/dto"
	"github.com/numanubhani/finance2/internal/repository/memory"
	"github.com/numanubhani/finance2/internal/service"
	"github.com/numanubhani/finance2/internal/utils"
)

func newAuthService() *service.AuthService {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	return service.NewAuthService(memory.NewStore(), tokens)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, &dto.RegisterRequest{
		Username: "faiz",
		Email:    "faiz@example.com",
		Password: "secret123",
		FullName: "Faiz N",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "faiz", reg.User.Username)

	login, err := svc.Login(ctx, &dto.LoginRequest{Username: "faiz", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	profile, err := svc.Profile(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "faiz@example.com", profile.Email)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "", Email: "a@b.c", Password: "secret123"})
	assert.Error(t, err)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "faiz", Email: "a@b.c", Password: "short"})
	assert.Error(t, err)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "faiz", Email: "a@b.c", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "faiz", Email: "other@b.c", Password: "secret123"})
	assert.EqualError(t, err, "username or email already exists")
}

func TestLoginBadCredentials(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "faiz", Email: "a@b.c", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "faiz", Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}
