package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/modelmeter/modelmeter/internal/auth"
	"github.com/modelmeter/modelmeter/internal/config"
	apperrors "github.com/modelmeter/modelmeter/internal/errors"
	"github.com/modelmeter/modelmeter/internal/model"
)

func newTestTokenManager() *auth.TokenManager {
	return auth.NewTokenManager("test-secret", time.Hour)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account with starting grant and normalized email", func(t *testing.T) {
		repo := new(mockAccountRepo)
		svc := NewUserService(repo, newTestTokenManager())

		repo.On("Create", ctx, mock.MatchedBy(func(params model.CreateAccountParams) bool {
			return params.Email == "a@x.com" &&
				params.Tokens == config.RegistrationGrant &&
				auth.CheckPassword("pw", params.PasswordHash)
		})).Return(&model.Account{Email: "a@x.com", Tokens: config.RegistrationGrant}, nil)

		account, err := svc.Register(ctx, "  A@X.com ", "pw")
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", account.Email)
		assert.Equal(t, int64(config.RegistrationGrant), account.Tokens)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate registration surfaces already exists", func(t *testing.T) {
		repo := new(mockAccountRepo)
		svc := NewUserService(repo, newTestTokenManager())

		repo.On("Create", ctx, mock.Anything).Return(nil, apperrors.AlreadyExists("Account"))

		_, err := svc.Register(ctx, "a@x.com", "pw")
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeAlreadyExists))
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		svc := NewUserService(new(mockAccountRepo), newTestTokenManager())
		_, err := svc.Register(ctx, "not-an-email", "pw")
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidInput))
	})

	t.Run("rejects empty password", func(t *testing.T) {
		svc := NewUserService(new(mockAccountRepo), newTestTokenManager())
		_, err := svc.Register(ctx, "a@x.com", "")
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMissingRequired))
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("pw")
	require.NoError(t, err)

	t.Run("verifies credential, credits bonus and issues verifiable token", func(t *testing.T) {
		repo := new(mockAccountRepo)
		tm := newTestTokenManager()
		svc := NewUserService(repo, tm)

		repo.On("FindByEmail", ctx, "a@x.com").Return(&model.Account{
			Email:        "a@x.com",
			PasswordHash: hash,
			Tokens:       15,
		}, nil)
		repo.On("Credit", ctx, "a@x.com", int64(config.LoginBonus)).Return(int64(20), nil)

		token, balance, err := svc.Login(ctx, "A@x.com", "pw")
		require.NoError(t, err)
		assert.Equal(t, int64(20), balance)

		subject, err := tm.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", subject)
		repo.AssertExpectations(t)
	})

	t.Run("wrong password is a generic rejection without bonus", func(t *testing.T) {
		repo := new(mockAccountRepo)
		svc := NewUserService(repo, newTestTokenManager())

		repo.On("FindByEmail", ctx, "a@x.com").Return(&model.Account{
			Email:        "a@x.com",
			PasswordHash: hash,
		}, nil)

		_, _, err := svc.Login(ctx, "a@x.com", "wrong")
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUnauthorized))
		repo.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown account is indistinguishable from wrong password", func(t *testing.T) {
		repo := new(mockAccountRepo)
		svc := NewUserService(repo, newTestTokenManager())

		repo.On("FindByEmail", ctx, "ghost@x.com").Return(nil, nil)

		_, _, err := svc.Login(ctx, "ghost@x.com", "pw")
		require.Error(t, err)

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeUnauthorized, appErr.Code)
		assert.Equal(t, "Invalid email or password", appErr.Message)
	})
}
