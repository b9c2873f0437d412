package memory

import (
	"context"
	"strings"
	"sync"

	"admiral/contexts/identity-access/principal-resolver/domain/entities"
	domainerrors "admiral/contexts/identity-access/principal-resolver/domain/errors"
	"admiral/contexts/identity-access/principal-resolver/ports"
)

// Store is an in-memory principal directory for tests and local runs.
type Store struct {
	mu         sync.RWMutex
	principals map[string]entities.Principal
}

func NewStore(seed []entities.Principal) *Store {
	store := &Store{
		principals: make(map[string]entities.Principal, len(seed)),
	}
	for _, principal := range seed {
		store.principals[strings.TrimSpace(principal.UserID)] = principal
	}
	return store
}

func (s *Store) SetPrincipal(principal entities.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.principals[strings.TrimSpace(principal.UserID)] = principal
}

func (s *Store) GetPrincipalByID(_ context.Context, userID string) (entities.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	principal, ok := s.principals[strings.TrimSpace(userID)]
	if !ok {
		return entities.Principal{}, domainerrors.ErrPrincipalNotFound
	}
	return principal, nil
}

var _ ports.PrincipalDirectory = (*Store)(nil)
