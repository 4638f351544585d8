package fiber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lborres/marquee"
	"github.com/lborres/marquee/pkg/crypto"
	"github.com/lborres/marquee/services"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	app := fiber.New()
	_, err := marquee.New(marquee.Config{
		Database: services.NewFakeStore(),
		HTTP:     New(app),
		PasswordHasher: &crypto.Argon2{
			Memory:      8 * 1024,
			Iterations:  1,
			Parallelism: 1,
			SaltLength:  16,
			KeyLength:   32,
		},
	})
	require.NoError(t, err)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func signup(t *testing.T, app *fiber.App, identity, email, password string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/accounts", "", fiber.Map{
		"identity": identity,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &result)
	require.NotEmpty(t, result.Token)
	return result.Token
}

func TestCreateAccount(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/accounts", "", fiber.Map{
		"identity": "alice",
		"email":    "alice@x.com",
		"password": "hunter2",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Account struct {
			ID       string `json:"id"`
			Identity string `json:"identity"`
		} `json:"account"`
		Token string `json:"token"`
	}
	decodeBody(t, resp, &result)
	assert.Equal(t, "alice", result.Account.Identity)
	assert.NotEmpty(t, result.Account.ID)
	assert.NotEmpty(t, result.Token)

	// Hash and session state never leave the server.
	resp = doJSON(t, app, http.MethodGet, "/api/me", result.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var raw map[string]any
	decodeBody(t, resp, &raw)
	assert.NotContains(t, raw, "password")
	assert.NotContains(t, raw, "session")
}

func TestCreateAccount_Errors(t *testing.T) {
	app := newTestApp(t)
	signup(t, app, "alice", "alice@x.com", "hunter2")

	tests := []struct {
		name       string
		body       fiber.Map
		wantStatus int
	}{
		{
			name:       "identity too short",
			body:       fiber.Map{"identity": "a", "email": "a@x.com", "password": "pw"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing password",
			body:       fiber.Map{"identity": "carol", "email": "carol@x.com"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "duplicate identity",
			body:       fiber.Map{"identity": "alice", "email": "other@x.com", "password": "pw"},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "duplicate email",
			body:       fiber.Map{"identity": "bob", "email": "alice@x.com", "password": "pw"},
			wantStatus: http.StatusConflict,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/accounts", "", test.body)
			assert.Equal(t, test.wantStatus, resp.StatusCode)
		})
	}
}

// Scenario: signup issues T1, re-login rotates to T2 invalidating T1,
// logout invalidates T2.
func TestSessionLifecycle(t *testing.T) {
	app := newTestApp(t)

	tokenOne := signup(t, app, "alice", "alice@x.com", "hunter2")

	resp := doJSON(t, app, http.MethodPost, "/api/sessions", "", fiber.Map{
		"identity": "alice",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &login)
	require.NotEmpty(t, login.Token)
	assert.NotEqual(t, tokenOne, login.Token)

	// Old token no longer authenticates.
	resp = doJSON(t, app, http.MethodGet, "/api/watchlist", tokenOne, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Current token does.
	resp = doJSON(t, app, http.MethodGet, "/api/watchlist", login.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Logout, then the token is dead too.
	resp = doJSON(t, app, http.MethodDelete, "/api/sessions", login.Token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/watchlist", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_UniformFailure(t *testing.T) {
	app := newTestApp(t)
	signup(t, app, "alice", "alice@x.com", "hunter2")

	var bodies []string
	for _, creds := range []fiber.Map{
		{"identity": "mallory", "password": "hunter2"},
		{"identity": "alice", "password": "wrong"},
	} {
		resp := doJSON(t, app, http.MethodPost, "/api/sessions", "", creds)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		resp.Body.Close()
		bodies = append(bodies, string(raw))
	}

	// Unknown identity and wrong password are indistinguishable.
	assert.Equal(t, bodies[0], bodies[1])
}

func TestWatchlistEndpoints(t *testing.T) {
	app := newTestApp(t)
	token := signup(t, app, "alice", "alice@x.com", "hunter2")

	// Unauthenticated writes are rejected before any mutation.
	resp := doJSON(t, app, http.MethodPut, "/api/watchlist/42", "", fiber.Map{"wanted": true})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// First write creates.
	resp = doJSON(t, app, http.MethodPut, "/api/watchlist/42", token, fiber.Map{"wanted": true})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/watchlist", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []struct {
		MovieID string `json:"movieId"`
		Wanted  bool   `json:"wanted"`
	}
	decodeBody(t, resp, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "42", entries[0].MovieID)
	assert.True(t, entries[0].Wanted)

	// Second write toggles in place.
	resp = doJSON(t, app, http.MethodPut, "/api/watchlist/42", token, fiber.Map{"wanted": false})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/watchlist", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entries = nil
	decodeBody(t, resp, &entries)
	assert.Empty(t, entries)
}

func TestCommentEndpoints(t *testing.T) {
	app := newTestApp(t)
	aliceToken := signup(t, app, "alice", "alice@x.com", "hunter2")
	bobToken := signup(t, app, "bob", "bob@x.com", "sekrit")

	// Reads are public.
	resp := doJSON(t, app, http.MethodGet, "/api/movies/42/comments", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var comments []struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
		Body        string `json:"body"`
	}
	decodeBody(t, resp, &comments)
	assert.Empty(t, comments)

	// Writes are not.
	resp = doJSON(t, app, http.MethodPost, "/api/movies/42/comments", "", fiber.Map{"body": "great film"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/movies/42/comments", aliceToken, fiber.Map{"body": "great film"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var aliceComment struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	}
	decodeBody(t, resp, &aliceComment)
	// Display name falls back to the identity.
	assert.Equal(t, "alice", aliceComment.DisplayName)

	resp = doJSON(t, app, http.MethodPost, "/api/movies/42/comments", bobToken, fiber.Map{"body": "meh", "displayName": "bob"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/movies/42/comments", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	comments = nil
	decodeBody(t, resp, &comments)
	require.Len(t, comments, 2)

	// Bob cannot remove alice's comment: reported as no-op success,
	// nothing deleted.
	resp = doJSON(t, app, http.MethodDelete, "/api/movies/42/comments/"+aliceComment.ID, bobToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/movies/42/comments", "", nil)
	comments = nil
	decodeBody(t, resp, &comments)
	assert.Len(t, comments, 2)

	// Alice can.
	resp = doJSON(t, app, http.MethodDelete, "/api/movies/42/comments/"+aliceComment.ID, aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/movies/42/comments", "", nil)
	comments = nil
	decodeBody(t, resp, &comments)
	require.Len(t, comments, 1)
	assert.Equal(t, "meh", comments[0].Body)
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	return f.err
}

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		pinger     Pinger
		wantStatus int
	}{
		{name: "no pinger configured", pinger: nil, wantStatus: http.StatusOK},
		{name: "store reachable", pinger: &fakePinger{}, wantStatus: http.StatusOK},
		{name: "store down", pinger: &fakePinger{err: errors.New("conn refused")}, wantStatus: http.StatusServiceUnavailable},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			app := fiber.New()
			adapter := New(app)
			if test.pinger != nil {
				adapter.WithHealthCheck(test.pinger)
			}
			_, err := marquee.New(marquee.Config{
				Database: services.NewFakeStore(),
				HTTP:     adapter,
			})
			require.NoError(t, err)

			resp := doJSON(t, app, http.MethodGet, "/healthz", "", nil)
			assert.Equal(t, test.wantStatus, resp.StatusCode)
		})
	}
}
