package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripshare/backend/internal/middleware"
)

// staticValidator accepts exactly one token string and returns a fixed user id.
type staticValidator struct {
	token string
	id    uuid.UUID
}

func (v staticValidator) Validate(token string) (uuid.UUID, error) {
	if token != v.token {
		return uuid.Nil, errors.New("invalid or expired token")
	}
	return v.id, nil
}

func TestAuthHandler_ValidToken_PlacesUserIDInContext(t *testing.T) {
	want := uuid.New()
	var got uuid.UUID
	var ok bool

	h := middleware.NewAuthHandler(staticValidator{token: "good-token", id: want})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok = middleware.UserID(r.Context())
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestAuthHandler_MissingHeader_Returns401(t *testing.T) {
	h := middleware.NewAuthHandler(staticValidator{token: "good-token", id: uuid.New()})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run without a token")
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_NonBearerScheme_Returns401(t *testing.T) {
	h := middleware.NewAuthHandler(staticValidator{token: "good-token", id: uuid.New()})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run without a bearer token")
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_InvalidToken_Returns401(t *testing.T) {
	h := middleware.NewAuthHandler(staticValidator{token: "good-token", id: uuid.New()})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run with a bad token")
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer forged-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
