package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdesk/civicdesk/internal/errors"
	"github.com/civicdesk/civicdesk/internal/log"
	"github.com/civicdesk/civicdesk/internal/secstore"
)

// memStore is an in-memory TokenStore for tests
type memStore struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]string)}
}

func (s *memStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok
}

func (s *memStore) set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
}

func (s *memStore) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, secstore.KeyToken)
	delete(s.entries, secstore.KeyUser)
}

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func newTestClient(t *testing.T, handler http.Handler, store *memStore) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, store, log.Development())
	require.NoError(t, err)
	return client, server
}

func envelopeBody(t *testing.T, data any) []byte {
	t.Helper()
	payload, err := json.Marshal(data)
	require.NoError(t, err)
	body, err := json.Marshal(map[string]json.RawMessage{"data": payload})
	require.NoError(t, err)
	return body
}

func TestNewClient_EmptyBaseURL(t *testing.T) {
	_, err := NewClient("", newMemStore(), log.Development())
	require.Error(t, err)
}

func TestClient_BearerInjection(t *testing.T) {
	store := newMemStore()
	store.set(secstore.KeyToken, "abc")

	var gotAuth, gotRequestID string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write(envelopeBody(t, map[string]any{"ok": true}))
	}), store)

	var out map[string]any
	require.NoError(t, client.doJSON(context.Background(), http.MethodGet, "/ping", nil, nil, &out))

	assert.Equal(t, "Bearer abc", gotAuth)
	assert.NotEmpty(t, gotRequestID, "every request carries a correlation ID")
}

func TestClient_NoTokenSendsUnauthenticated(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write(envelopeBody(t, map[string]any{}))
	}), newMemStore())

	require.NoError(t, client.doJSON(context.Background(), http.MethodGet, "/ping", nil, nil, nil))
	assert.Empty(t, gotAuth)
}

func TestClient_401ClearsStore(t *testing.T) {
	// Any endpoint returning 401 must empty the store before the caller
	// sees the error, regardless of which call site triggered it.
	store := newMemStore()
	store.set(secstore.KeyToken, "stale")
	store.set(secstore.KeyUser, `{"id":1}`)

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), store)

	_, err := client.ListMine(context.Background(), "", 0, 10)
	require.Error(t, err)

	var deskErr *errors.CivicdeskError
	require.ErrorAs(t, err, &deskErr)
	assert.Equal(t, errors.ErrCodeAuthUnauthorized, deskErr.Code)

	assert.Equal(t, 0, store.len(), "token and user entries must both be gone")
}

func TestClient_ValidationMessagePassthrough(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "title must not be blank"})
	}), newMemStore())

	err := client.doJSON(context.Background(), http.MethodPost, "/citizen/complaints/create", nil, map[string]string{}, nil)
	require.Error(t, err)

	var deskErr *errors.CivicdeskError
	require.ErrorAs(t, err, &deskErr)
	assert.Equal(t, errors.ErrCodeAPIStatus, deskErr.Code)
	assert.Equal(t, "title must not be blank", deskErr.Message, "backend message passes through unchanged")
}

func TestClient_ErrorWithoutEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}), newMemStore())

	err := client.doJSON(context.Background(), http.MethodGet, "/ping", nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "boom")
}

func TestClient_EnvelopeUnwrap(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"token":"abc","userId":1},"message":"welcome"}`))
	}), newMemStore())

	var result AuthResult
	require.NoError(t, client.doJSON(context.Background(), http.MethodGet, "/ping", nil, nil, &result))
	assert.Equal(t, "abc", result.Token)
	assert.Equal(t, int64(1), result.UserID)
}

func TestClient_MissingDataIsAnError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"no payload"}`))
	}), newMemStore())

	var result AuthResult
	err := client.doJSON(context.Background(), http.MethodGet, "/ping", nil, nil, &result)
	require.Error(t, err)

	var deskErr *errors.CivicdeskError
	require.ErrorAs(t, err, &deskErr)
	assert.Equal(t, errors.ErrCodeAPIEnvelope, deskErr.Code)
}

func TestClient_TransportErrorPropagates(t *testing.T) {
	store := newMemStore()
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // connection refused from here on

	client, err := NewClient(server.URL, store, log.Development())
	require.NoError(t, err)

	_, err = client.ListMine(context.Background(), "", 0, 10)
	require.Error(t, err)

	var deskErr *errors.CivicdeskError
	require.ErrorAs(t, err, &deskErr)
	assert.Equal(t, errors.ErrCodeAPIRequest, deskErr.Code)
}
