package registry

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/HarshaOnlineJourny/ChatApp/internal/core/contracts"
	"github.com/HarshaOnlineJourny/ChatApp/internal/core/domain"
)

// Registry maps live connections to registered user profiles and enforces
// the one-live-connection-per-username invariant. All mutations are
// serialized behind the mutex so concurrent registrations of the same
// username cannot both pass the liveness check.
type Registry struct {
	mu        sync.RWMutex
	clients   map[string]contracts.Client     // connection id → transport
	profiles  map[string]*domain.UserProfile  // connection id → profile
	usernames map[string]string               // username → connection id
}

func NewRegistry() *Registry {
	return &Registry{
		clients:   make(map[string]contracts.Client),
		profiles:  make(map[string]*domain.UserProfile),
		usernames: make(map[string]string),
	}
}

// Attach adds an unregistered connection. It receives presence broadcasts
// but is ignored by all message and history operations until registered.
func (r *Registry) Attach(c contracts.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.ConnectionID()] = c
}

// Register admits the profile draft for the connection or rejects it with
// ErrUsernameTaken. Stale registrations whose transport has died are purged
// first; a prior registration under the same connection is replaced.
func (r *Registry) Register(connID string, profile domain.UserProfile) (*domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.purgeStaleLocked()

	if owner, ok := r.usernames[profile.Username]; ok && owner != connID {
		if c, live := r.clients[owner]; live && c.Alive() {
			return nil, domain.ErrUsernameTaken
		}
		r.removeLocked(owner)
	}

	// Re-registration on the same connection replaces the old identity.
	if prev, ok := r.profiles[connID]; ok {
		delete(r.usernames, prev.Username)
	}

	profile.ConnectionID = connID
	r.profiles[connID] = &profile
	r.usernames[profile.Username] = connID
	return &profile, nil
}

// Unregister removes the connection and its registration. Idempotent; the
// removed profile is returned so callers can discard dependent state.
func (r *Registry) Unregister(connID string) *domain.UserProfile {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile := r.profiles[connID]
	r.removeLocked(connID)
	return profile
}

func (r *Registry) LookupByConnection(connID string) (domain.UserProfile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[connID]
	if !ok {
		return domain.UserProfile{}, false
	}
	return *p, true
}

func (r *Registry) LookupByUsername(username string) (domain.UserProfile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	connID, ok := r.usernames[username]
	if !ok {
		return domain.UserProfile{}, false
	}
	p, ok := r.profiles[connID]
	if !ok {
		return domain.UserProfile{}, false
	}
	return *p, true
}

// Snapshot returns every registered profile ordered by username. Clients
// filter themselves out on the receiving side.
func (r *Registry) Snapshot() []domain.UserProfile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := lo.Map(lo.Values(r.profiles), func(p *domain.UserProfile, _ int) domain.UserProfile {
		return *p
	})
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}

// Send marshals the event and delivers it to one connection. Unknown or
// closed connections are a silent no-op.
func (r *Registry) Send(ctx context.Context, connID string, event any) error {
	r.mu.RLock()
	c := r.clients[connID]
	r.mu.RUnlock()
	if c == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return c.Send(ctx, data)
}

// Broadcast delivers the event to every attached connection, registered or
// not.
func (r *Registry) Broadcast(ctx context.Context, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clients {
		_ = c.Send(ctx, data)
	}
}

func (r *Registry) purgeStaleLocked() {
	for connID, c := range r.clients {
		if !c.Alive() {
			r.removeLocked(connID)
		}
	}
}

func (r *Registry) removeLocked(connID string) {
	if p, ok := r.profiles[connID]; ok {
		if r.usernames[p.Username] == connID {
			delete(r.usernames, p.Username)
		}
		delete(r.profiles, connID)
	}
	delete(r.clients, connID)
}
