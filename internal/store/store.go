// Package store is the in-memory ticket cache in front of the
// authoritative repository. Writers update it only after the repository
// confirmed a change; the periodic poller replaces entries wholesale.
// The contract is last-write-wins per ticket id.
package store

import (
	"sort"
	"sync"

	"github.com/inucxhu/soporte360/internal/domain"
	"github.com/inucxhu/soporte360/internal/policy"
)

// Store caches the tickets known to this process, keyed by id.
type Store struct {
	mu      sync.RWMutex
	tickets map[string]domain.Ticket
}

// New creates an empty store.
func New() *Store {
	return &Store{tickets: make(map[string]domain.Ticket)}
}

// ApplyServer records a server-confirmed ticket, overwriting any cached
// version regardless of which state arrived first.
func (s *Store) ApplyServer(ticket domain.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[ticket.ID] = ticket
}

// Replace swaps the whole cache for a fresh server listing.
func (s *Store) Replace(tickets []domain.Ticket) {
	next := make(map[string]domain.Ticket, len(tickets))
	for _, t := range tickets {
		next[t.ID] = t
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = next
}

// Get returns the cached ticket for id.
func (s *Store) Get(id string) (domain.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tickets[id]
	return t, ok
}

// Snapshot returns all cached tickets, newest first.
func (s *Store) Snapshot() []domain.Ticket {
	s.mu.RLock()
	out := make([]domain.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		out = append(out, t)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// VisibleTo filters the snapshot down to what the principal may see.
// Role visibility rules live in the policy package.
func (s *Store) VisibleTo(p domain.Principal) []domain.Ticket {
	all := s.Snapshot()
	visible := make([]domain.Ticket, 0, len(all))
	for i := range all {
		if policy.CanView(p, &all[i]) {
			visible = append(visible, all[i])
		}
	}
	return visible
}

// Len reports the number of cached tickets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tickets)
}
