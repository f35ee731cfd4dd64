package users

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-api/internals/storage"
)

var testCounter atomic.Int64

func newTestServer(t *testing.T) (*httptest.Server, *storage.Store) {
	t.Helper()
	dsn := fmt.Sprintf("file:users_handler_test_%d?mode=memory&cache=shared", testCounter.Add(1))
	store, err := storage.Open(dsn)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /users", RegisterHandler(store))
	mux.HandleFunc("POST /login", LoginHandler(store))
	mux.HandleFunc("POST /logout", LogoutHandler(store))
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		store.Close()
	})
	return srv, store
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRegister(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/users", `{"email":"alice@example.com","password":"secret"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var user struct {
		Id    int64  `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, int64(1), user.Id)
	assert.Equal(t, "alice@example.com", user.Email)

	t.Run("duplicate email", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/users", `{"email":"alice@example.com","password":"other"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing fields", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/users", `{"email":"","password":""}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	srv, _ := newTestServer(t)
	postJSON(t, srv.URL+"/users", `{"email":"alice@example.com","password":"secret"}`)

	t.Run("token is the user id", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/login", `{"email":"alice@example.com","password":"secret"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "1", body.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/login", `{"email":"alice@example.com","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown email", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/login", `{"email":"nobody@example.com","password":"secret"}`)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogout(t *testing.T) {
	srv, _ := newTestServer(t)
	postJSON(t, srv.URL+"/users", `{"email":"alice@example.com","password":"secret"}`)

	resp := postJSON(t, srv.URL+"/logout", `{"email":"alice@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cleared bool
	for _, c := range resp.Cookies() {
		if c.Name == "user_id" && c.Value == "" && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "user_id cookie should be cleared")

	t.Run("bad credentials", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/logout", `{"email":"alice@example.com","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
