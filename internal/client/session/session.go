// Package session holds the process-wide "current user" state derived from
// the credential store. It is initialized once at startup and afterwards
// mutated only by the auth coordinator and the request gate's failure
// cleanup, so the store and the in-memory state cannot drift apart.
package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/jobtrack/internal/client/credentials"
	"github.com/dmitrijs2005/jobtrack/internal/client/models"
	"github.com/dmitrijs2005/jobtrack/internal/client/tokens"
)

// Manager is the observable session state.
type Manager struct {
	mu        sync.RWMutex
	user      *models.User
	creds     credentials.Store
	listeners []func(*models.User)
}

// NewManager creates an empty session state bound to the credential store.
func NewManager(creds credentials.Store) *Manager {
	return &Manager{creds: creds}
}

// Init loads the cached user from the credential store. Storage errors leave
// the state unauthenticated rather than failing startup.
func (m *Manager) Init(ctx context.Context) {
	u, err := m.creds.User(ctx)
	if err != nil {
		return
	}
	m.mu.Lock()
	m.user = u
	m.mu.Unlock()
}

// Current returns the current user, or nil when nobody is logged in.
func (m *Manager) Current() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// Authenticated reports whether a non-expired access token is stored.
// A token the store cannot read counts as absent.
func (m *Manager) Authenticated(ctx context.Context) bool {
	access, err := m.creds.AccessToken(ctx)
	if err != nil || access == "" {
		return false
	}
	return !tokens.IsExpired(access)
}

// Publish replaces the current user and notifies listeners.
func (m *Manager) Publish(u *models.User) {
	m.mu.Lock()
	m.user = u
	ls := make([]func(*models.User), len(m.listeners))
	copy(ls, m.listeners)
	m.mu.Unlock()

	for _, fn := range ls {
		fn(u)
	}
}

// Clear drops the current user and notifies listeners with nil.
func (m *Manager) Clear() {
	m.Publish(nil)
}

// OnChange registers a listener called after every Publish or Clear.
// Listeners run synchronously on the mutating goroutine and must not call
// back into the Manager.
func (m *Manager) OnChange(fn func(*models.User)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}
