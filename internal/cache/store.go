// Package cache provides the in-memory key-value collaborator the engine
// consults for company identifiers. Data is lost on service restart - for
// persistence, back the CompanyCache interface with a real store.
package cache

import (
	"context"
	"strings"
	"sync"
)

// Store is an in-memory company cache, safe for concurrent use. Keys are
// company names, compared case-insensitively.
type Store struct {
	mu        sync.RWMutex
	companies map[string]string
}

// NewStore creates an empty cache.
func NewStore() *Store {
	return &Store{
		companies: make(map[string]string),
	}
}

// Get returns the cached company ID for a name, if known.
func (s *Store) Get(ctx context.Context, companyName string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.companies[normalize(companyName)]
	return id, ok
}

// Put remembers a company ID under its name.
func (s *Store) Put(ctx context.Context, companyName, companyID string) {
	if companyName == "" || companyID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.companies[normalize(companyName)] = companyID
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
