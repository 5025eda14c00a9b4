// Package session owns the process-wide authentication state. The Manager
// is the sole writer of session state: it composes the auth API callers
// with the secure store and keeps the two in lockstep.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/civicdesk/civicdesk/internal/api"
	"github.com/civicdesk/civicdesk/internal/errors"
	"github.com/civicdesk/civicdesk/internal/log"
	"github.com/civicdesk/civicdesk/internal/secstore"
)

// State is the session lifecycle state
type State int

const (
	// Unauthenticated is the initial state and the result of logout or
	// server-side session rejection
	Unauthenticated State = iota
	// Authenticating is the transient state during an in-flight login or
	// registration call
	Authenticating
	// Authenticated means a token and profile are held in memory and on disk
	Authenticated
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// AuthAPI is the slice of the API client the manager drives
type AuthAPI interface {
	Login(ctx context.Context, identifier, password string, role api.Role) (*api.AuthResult, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResult, error)
}

// Store is the slice of the secure store the manager writes through.
// Cross-key atomicity (token and user set or cleared together) is enforced
// here, not in the store.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string)
	ClearAll()
}

// Manager owns the in-memory session and orchestrates login, registration,
// and logout. At most one authentication attempt is in flight at a time; a
// concurrent second attempt is rejected rather than interleaved, because
// two racing logins could leave the stored token and profile mismatched.
type Manager struct {
	mu sync.Mutex

	api    AuthAPI
	store  Store
	logger *log.Logger

	user          *api.UserProfile
	authenticated bool
	inFlight      bool
}

// NewManager creates a session manager and hydrates it from the store, so
// a process restart resumes an existing session instead of assuming
// Unauthenticated.
func NewManager(authAPI AuthAPI, store Store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.DefaultLogger()
	}

	m := &Manager{
		api:    authAPI,
		store:  store,
		logger: logger.With("component", "session"),
	}
	m.mu.Lock()
	m.rehydrateLocked()
	m.mu.Unlock()
	return m
}

// Login authenticates via the route selected by role. On success the token
// and profile are persisted before the in-memory state flips, so a crash
// between the two steps can never leave memory ahead of disk. On failure
// both store and memory are exactly as they were before the call.
func (m *Manager) Login(ctx context.Context, identifier, password string, role api.Role) (*api.UserProfile, error) {
	return m.authenticate(func() (*api.AuthResult, error) {
		return m.api.Login(ctx, identifier, password, role)
	})
}

// Register creates a citizen account and, like the upstream backend,
// treats a successful registration as a login.
func (m *Manager) Register(ctx context.Context, req api.RegisterRequest) (*api.UserProfile, error) {
	return m.authenticate(func() (*api.AuthResult, error) {
		return m.api.Register(ctx, req)
	})
}

func (m *Manager) authenticate(call func() (*api.AuthResult, error)) (*api.UserProfile, error) {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return nil, errors.NewAuthInFlightError()
	}
	m.inFlight = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight = false
		m.mu.Unlock()
	}()

	result, err := call()
	if err != nil {
		return nil, err
	}

	profile := result.Profile()
	if err := m.persist(result.Token, profile); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.user = &profile
	m.authenticated = true
	m.mu.Unlock()

	m.logger.Info("session established", "user_id", profile.ID, "role", profile.Role)
	return &profile, nil
}

// persist writes token then profile durably; a failed profile write rolls
// the token entry back to its pre-call value so the store never holds half
// a session. A re-login over an existing session must either replace it
// whole or leave it whole.
func (m *Manager) persist(token string, profile api.UserProfile) error {
	encoded, err := json.Marshal(profile)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, "encode user profile", err)
	}

	prevToken, hadToken := m.store.Get(secstore.KeyToken)

	if err := m.store.Set(secstore.KeyToken, token); err != nil {
		return err
	}
	if err := m.store.Set(secstore.KeyUser, string(encoded)); err != nil {
		if hadToken {
			if restoreErr := m.store.Set(secstore.KeyToken, prevToken); restoreErr != nil {
				m.logger.Warn("token restore failed after profile write failure", "error", restoreErr.Error())
			}
		} else {
			m.store.Delete(secstore.KeyToken)
		}
		return err
	}
	return nil
}

// Logout clears durable and in-memory session state. Idempotent.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.ClearAll()
	m.user = nil
	m.authenticated = false
	m.logger.Info("session cleared")
}

// IsAuthenticated re-derives the answer from the store rather than trusting
// the in-memory flag: the transport's 401 safety net may have invalidated
// the store since the last check.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rehydrateLocked()
	return m.authenticated
}

// User returns the current profile, re-derived from the store
func (m *Manager) User() (api.UserProfile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rehydrateLocked()
	if !m.authenticated || m.user == nil {
		return api.UserProfile{}, false
	}
	return *m.user, true
}

// State returns the current lifecycle state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inFlight {
		return Authenticating
	}
	m.rehydrateLocked()
	if m.authenticated {
		return Authenticated
	}
	return Unauthenticated
}

// Refresh re-derives the session from the store on demand
func (m *Manager) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rehydrateLocked()
}

// rehydrateLocked syncs in-memory state with the store. Token and profile
// must be present together; a half-populated store is cleared to restore
// the invariant. Callers must hold mu.
func (m *Manager) rehydrateLocked() {
	token, hasToken := m.store.Get(secstore.KeyToken)
	encoded, hasUser := m.store.Get(secstore.KeyUser)

	// An empty token entry counts as absent for the mismatch check too,
	// so a blank token with a lingering profile is cleaned up.
	hasToken = hasToken && token != ""

	if !hasToken || !hasUser {
		if hasToken != hasUser {
			m.logger.Warn("store held a partial session, clearing")
			m.store.ClearAll()
		}
		m.user = nil
		m.authenticated = false
		return
	}

	var profile api.UserProfile
	if err := json.Unmarshal([]byte(encoded), &profile); err != nil {
		m.logger.Warn("stored profile unreadable, clearing session", "error", err.Error())
		m.store.ClearAll()
		m.user = nil
		m.authenticated = false
		return
	}

	m.user = &profile
	m.authenticated = true
}
