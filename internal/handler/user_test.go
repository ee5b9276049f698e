package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/modelmeter/modelmeter/internal/auth"
	"github.com/modelmeter/modelmeter/internal/config"
	apperrors "github.com/modelmeter/modelmeter/internal/errors"
	"github.com/modelmeter/modelmeter/internal/model"
	"github.com/modelmeter/modelmeter/internal/service"
)

func newUserHandler(repo *mockAccountRepo) (*UserHandler, *auth.TokenManager) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	return NewUserHandler(service.NewUserService(repo, tm)), tm
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestUserHandler_Create(t *testing.T) {
	t.Run("registers account with starting grant", func(t *testing.T) {
		repo := new(mockAccountRepo)
		h, _ := newUserHandler(repo)

		repo.On("Create", mock.Anything, mock.Anything).Return(&model.Account{
			Email:  "a@x.com",
			Tokens: config.RegistrationGrant,
		}, nil)

		rec := postJSON(t, h.Create, "/user/create", map[string]string{
			"email":    "a@x.com",
			"password": "pw",
		})

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "OK", resp["status"])
		assert.Equal(t, float64(config.RegistrationGrant), resp["tokens"])
	})

	t.Run("duplicate registration is 409", func(t *testing.T) {
		repo := new(mockAccountRepo)
		h, _ := newUserHandler(repo)

		repo.On("Create", mock.Anything, mock.Anything).Return(nil, apperrors.AlreadyExists("Account"))

		rec := postJSON(t, h.Create, "/user/create", map[string]string{
			"email":    "a@x.com",
			"password": "pw",
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "ALREADY_EXISTS")
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		repo := new(mockAccountRepo)
		h, _ := newUserHandler(repo)

		req := httptest.NewRequest(http.MethodPost, "/user/create", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserHandler_Login(t *testing.T) {
	hash, err := auth.HashPassword("pw")
	require.NoError(t, err)

	t.Run("issues verifiable token and credits bonus", func(t *testing.T) {
		repo := new(mockAccountRepo)
		h, tm := newUserHandler(repo)

		repo.On("FindByEmail", mock.Anything, "a@x.com").Return(&model.Account{
			Email:        "a@x.com",
			PasswordHash: hash,
			Tokens:       15,
		}, nil)
		repo.On("Credit", mock.Anything, "a@x.com", int64(config.LoginBonus)).Return(int64(20), nil)

		rec := postJSON(t, h.Login, "/user/login", map[string]string{
			"email":    "a@x.com",
			"password": "pw",
		})

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Status string `json:"status"`
			Token  string `json:"token"`
			Tokens int64  `json:"tokens"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "OK", resp.Status)
		assert.Equal(t, int64(20), resp.Tokens)

		subject, err := tm.Verify(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", subject)
	})

	t.Run("bad credential is a generic 401", func(t *testing.T) {
		repo := new(mockAccountRepo)
		h, _ := newUserHandler(repo)

		repo.On("FindByEmail", mock.Anything, "a@x.com").Return(&model.Account{
			Email:        "a@x.com",
			PasswordHash: hash,
		}, nil)

		rec := postJSON(t, h.Login, "/user/login", map[string]string{
			"email":    "a@x.com",
			"password": "wrong",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid email or password")
	})
}
