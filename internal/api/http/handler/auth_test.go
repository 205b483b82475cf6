package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mento-app/mento-server/internal/apperr"
	"github.com/mento-app/mento-server/internal/model"
	"github.com/mento-app/mento-server/internal/service"
	"github.com/mento-app/mento-server/internal/testutil"
)

func newAuthHandler() (*Auth, *authServiceMock) {
	svc := &authServiceMock{}
	log := testutil.MakeNoopLogger()
	return NewAuth(svc, NewResponder(log, false), log), svc
}

func TestAuth_Register(t *testing.T) {
	h, svc := newAuthHandler()
	created := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	svc.On("Register", mock.Anything, "ana@example.com", "secret1").
		Return(model.User{ID: 7, Email: "ana@example.com", CreatedAt: created}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/users/register",
		strings.NewReader(`{"email": "ana@example.com", "password": "secret1"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "7", user["id"])
	assert.Equal(t, "ana@example.com", user["email"])
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAuth_Register_Conflict(t *testing.T) {
	h, svc := newAuthHandler()
	svc.On("Register", mock.Anything, mock.Anything, mock.Anything).
		Return(model.User{}, apperr.NewErrEmailIsTaken("ana@example.com"))

	req := httptest.NewRequest(http.MethodPost, "/api/users/register",
		strings.NewReader(`{"email": "ana@example.com", "password": "secret1"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "email", decodeBody(t, rec)["field"])
}

func TestAuth_Login(t *testing.T) {
	h, svc := newAuthHandler()
	svc.On("Login", mock.Anything, "ana@example.com", "secret1").
		Return(service.Session{User: model.User{ID: 7, Email: "ana@example.com"}, AccessToken: "tok"}, nil)
	svc.On("Login", mock.Anything, "ana@example.com", "wrong").
		Return(service.Session{}, apperr.NewErrInvalidCredentials())

	req := httptest.NewRequest(http.MethodPost, "/api/users/login",
		strings.NewReader(`{"email": "ana@example.com", "password": "secret1"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok", decodeBody(t, rec)["token"])

	req = httptest.NewRequest(http.MethodPost, "/api/users/login",
		strings.NewReader(`{"email": "ana@example.com", "password": "wrong"}`))
	rec = httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apperr.CodeInvalidCredentials, decodeBody(t, rec)["code"])
}

func TestAuth_Login_WrongFieldType(t *testing.T) {
	h, svc := newAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/users/login",
		strings.NewReader(`{"email": 12, "password": "secret1"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}
