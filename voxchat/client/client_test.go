package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voxchat/voxchat/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// method restricts h to a single HTTP method (Go 1.21 ServeMux has no
// method-qualified patterns).
func method(m string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != m {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func newFakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", method(http.MethodPost, func(w http.ResponseWriter, r *http.Request) {
		var req types.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		if req.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid credentials"}`))
			return
		}
		w.Write([]byte(`{"token":"tok-123"}`))
	}))
	mux.HandleFunc("/api/chat", method(http.MethodPost, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"access denied"}`))
			return
		}
		var req types.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(types.ChatResponse{Response: "re: " + req.Prompt})
	}))
	mux.HandleFunc("/api/messages", method(http.MethodGet, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messages":[{"id":1,"role":"user","content":"hi"},{"id":2,"role":"assistant","content":"re: hi"}]}`))
	}))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_LoginAndChat(t *testing.T) {
	srv := newFakeServer(t)
	c := New(srv.URL, 5*time.Second)
	ctx := context.Background()

	require.NoError(t, c.Login(ctx, "a@x.com", "pw"))
	assert.Equal(t, "tok-123", c.Token())

	reply, err := c.Chat(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "re: hello", reply)

	msgs, err := c.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "assistant", msgs[1].Role)
}

func TestClient_APIErrors(t *testing.T) {
	srv := newFakeServer(t)
	c := New(srv.URL, 5*time.Second)
	ctx := context.Background()

	err := c.Login(ctx, "a@x.com", "wrong")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid credentials", apiErr.Message)
	assert.Empty(t, c.Token())

	_, err = c.Chat(ctx, "hello")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "access denied", apiErr.Message)
}
