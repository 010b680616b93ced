package authsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.Email == "dup@example.com" {
			ErrEmailTaken.WriteError(w)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(AuthResponse{
			Success: true,
			Message: MsgUserCreated,
			Token:   "signed-token",
			User:    User{ID: "u1", Name: req.Name, Email: req.Email},
		})
	})

	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.Password != "senha123" {
			ErrInvalidCredentials.WriteError(w)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(AuthResponse{
			Success: true,
			Message: MsgLoginOK,
			Token:   "signed-token",
			User:    User{ID: "u1", Name: "Carlos", Email: req.Email},
		})
	})

	mux.HandleFunc("GET /api/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer signed-token" {
			ErrInvalidToken.WriteError(w)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ProfileResponse{
			Success: true,
			User:    User{ID: "u1", Name: "Carlos", Email: "carlos@example.com"},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientRegister(t *testing.T) {
	t.Parallel()
	srv := newFakeAPI(t)

	client := NewClient(srv.URL)
	cache, err := NewSessionCache(t.TempDir())
	require.NoError(t, err)
	client.Cache = cache

	resp, err := client.Register(context.Background(), RegisterRequest{
		Name: "Carlos", Email: "carlos@example.com", Password: "senha123",
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, MsgUserCreated, resp.Message)

	// A successful registration signs the client in.
	require.True(t, cache.IsAuthenticated())
	require.Equal(t, "signed-token", cache.Token())
	require.Equal(t, "Carlos", cache.User().Name)
}

func TestClientRegisterConflict(t *testing.T) {
	t.Parallel()
	srv := newFakeAPI(t)

	client := NewClient(srv.URL)
	_, err := client.Register(context.Background(), RegisterRequest{
		Name: "Dup", Email: "dup@example.com", Password: "senha123",
	})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)
	require.Equal(t, "E-mail já cadastrado", apiErr.Message)
}

func TestClientLoginAndProfile(t *testing.T) {
	t.Parallel()
	srv := newFakeAPI(t)

	client := NewClient(srv.URL)
	cache, err := NewSessionCache(t.TempDir())
	require.NoError(t, err)
	client.Cache = cache

	_, err = client.Login(context.Background(), "carlos@example.com", "senha123")
	require.NoError(t, err)
	require.True(t, cache.IsAuthenticated())

	profile, err := client.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "carlos@example.com", profile.Email)

	require.NoError(t, client.Logout())
	require.False(t, cache.IsAuthenticated())

	// Signed out, the profile call fails with the server's 401 envelope.
	_, err = client.Profile(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestClientLoginBadPassword(t *testing.T) {
	t.Parallel()
	srv := newFakeAPI(t)

	client := NewClient(srv.URL)
	_, err := client.Login(context.Background(), "carlos@example.com", "errada")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "E-mail ou senha incorretos", apiErr.Message)
}
