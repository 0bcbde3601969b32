package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking_ops/internal/domain"
	"parking_ops/internal/repository/memory"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	store := memory.NewStore()
	return NewAuthService(memory.NewUserRepository(store), "test-secret", time.Hour)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, domain.RegisterUserDTO{Username: "gatekeeper", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "employee", user.Role)
	assert.Empty(t, user.Password, "hash must not leak")

	resp, err := svc.Login(ctx, domain.LoginUserDTO{Username: "gatekeeper", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "employee", resp.Role)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims["sub"])
	assert.Equal(t, "employee", claims["role"])
	assert.Equal(t, "gatekeeper", claims["username"])
}

func TestAuthService_DuplicateUsername(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterUserDTO{Username: "gatekeeper", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, domain.RegisterUserDTO{Username: "gatekeeper", Password: "other456"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_BadCredentials(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterUserDTO{Username: "gatekeeper", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginUserDTO{Username: "gatekeeper", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginUserDTO{Username: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RejectsGarbageToken(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAuthService_RejectsTokenFromOtherSecret(t *testing.T) {
	svc := newAuthService(t)
	other := NewAuthService(memory.NewUserRepository(memory.NewStore()), "other-secret", time.Hour)

	_, err := other.Register(context.Background(), domain.RegisterUserDTO{Username: "gatekeeper", Password: "secret123"})
	require.NoError(t, err)
	resp, err := other.Login(context.Background(), domain.LoginUserDTO{Username: "gatekeeper", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
