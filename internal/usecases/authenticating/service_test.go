package authenticating

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/boutique-manager-api/infrastructure/repository"
	"github.com/vfg2006/boutique-manager-api/internal/config"
	"github.com/vfg2006/boutique-manager-api/pkg/apiErrors"
)

const adminPassword = "Segura@123"

func newTestService(t *testing.T) *Service {
	t.Helper()

	cfg := &config.Config{
		SecretKey: "test-secret",
		Auth: config.Auth{
			TokenTTL:      time.Hour,
			AdminEmail:    " Admin@Boutique.com ",
			AdminPassword: adminPassword,
			AdminName:     "Administrador",
		},
	}

	service := NewService(repository.NewUserRepository(repository.NewMemoryStore()), cfg)
	require.NoError(t, service.EnsureAdmin(context.Background()))
	return service
}

func TestService_EnsureAdmin_Idempotente(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	cfg := &config.Config{Auth: config.Auth{AdminEmail: "admin@boutique.com", AdminPassword: adminPassword}}
	service := NewService(repository.NewUserRepository(store), cfg)

	require.NoError(t, service.EnsureAdmin(ctx))
	require.NoError(t, service.EnsureAdmin(ctx))

	users, err := store.ListAll(ctx, repository.UsersCollection)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestService_LoginUser(t *testing.T) {
	service := newTestService(t)

	tests := []struct {
		name         string
		email        string
		password     string
		expectedErr  error
		expectedCode string
	}{
		{
			name:     "Login com email em outra caixa",
			email:    "ADMIN@boutique.com",
			password: adminPassword,
		},
		{
			name:         "Senha incorreta",
			email:        "admin@boutique.com",
			password:     "errada",
			expectedErr:  ErrInvalidCredentials,
			expectedCode: apiErrors.ErrInvalidCredentials,
		},
		{
			name:         "Usuário inexistente",
			email:        "outro@boutique.com",
			password:     adminPassword,
			expectedErr:  ErrUserNotFound,
			expectedCode: apiErrors.ErrUserNotFound,
		},
		{
			name:         "Campos vazios",
			expectedErr:  ErrMissingRequiredData,
			expectedCode: apiErrors.ErrMissingRequiredData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := service.LoginUser(context.Background(), tt.email, tt.password)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedErr))

				var authErr *AuthError
				require.True(t, errors.As(err, &authErr))
				assert.Equal(t, tt.expectedCode, authErr.Code)
				return
			}

			require.NoError(t, err)
			claims, err := service.ValidateToken(token)
			require.NoError(t, err)
			assert.Equal(t, "admin@boutique.com", claims.UserEmail)
			assert.NotEmpty(t, claims.UserID)
		})
	}
}

func TestService_ValidateToken(t *testing.T) {
	service := newTestService(t)

	token, err := service.LoginUser(context.Background(), "admin@boutique.com", adminPassword)
	require.NoError(t, err)

	_, err = service.ValidateToken(token + "x")
	assert.True(t, errors.Is(err, ErrInvalidToken))

	service.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := service.LoginUser(context.Background(), "admin@boutique.com", adminPassword)
	require.NoError(t, err)

	_, err = service.ValidateToken(expired)
	assert.True(t, errors.Is(err, ErrExpiredToken))
}

func TestService_GetUserProfile(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	token, err := service.LoginUser(ctx, "admin@boutique.com", adminPassword)
	require.NoError(t, err)
	claims, err := service.ValidateToken(token)
	require.NoError(t, err)

	user, err := service.GetUserProfile(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Administrador", user.Name)
	assert.Empty(t, user.PasswordHash)

	_, err = service.GetUserProfile(ctx, "nao-existe")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestService_ChangePassword(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	token, err := service.LoginUser(ctx, "admin@boutique.com", adminPassword)
	require.NoError(t, err)
	claims, err := service.ValidateToken(token)
	require.NoError(t, err)

	err = service.ChangePassword(ctx, claims.UserID, "errada", "Nova@Senha1")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	err = service.ChangePassword(ctx, claims.UserID, adminPassword, "fraca")
	assert.True(t, errors.Is(err, ErrWeakPassword))

	require.NoError(t, service.ChangePassword(ctx, claims.UserID, adminPassword, "Nova@Senha1"))

	_, err = service.LoginUser(ctx, "admin@boutique.com", "Nova@Senha1")
	assert.NoError(t, err)
}

func TestService_ValidatePasswordStrength(t *testing.T) {
	service := newTestService(t)

	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{name: "Senha forte", password: "Segura@123", valid: true},
		{name: "Curta demais", password: "S@1a"},
		{name: "Sem maiúscula", password: "segura@123"},
		{name: "Sem número", password: "Segura@abc"},
		{name: "Sem caractere especial", password: "Segura1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidatePasswordStrength(tt.password)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrWeakPassword))
			}
		})
	}
}
