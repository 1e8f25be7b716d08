package repository

import (
	"github.com/google/uuid"

	"github.com/ratmirov/tatami/internal/domain/model"
)

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithResultCapacity pre-sizes the result indexes for an expected import
// volume, avoiding rehashing during large uploads.
func WithResultCapacity(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.results = make(map[uuid.UUID]*model.TournamentResult, n)
			s.resultOrder = make([]uuid.UUID, 0, n)
			s.orphanKeys = make(map[string]uuid.UUID, n)
			s.matchedKeys = make(map[string]uuid.UUID, n)
		}
	}
}
