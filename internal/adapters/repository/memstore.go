package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ratmirov/tatami/internal/domain/model"
	"github.com/ratmirov/tatami/pkg/metrics"
)

// MemStore is the in-memory Store implementation. A single mutex is the
// transaction boundary: the orphan scan, the attach writes, and the rating
// credit of one reconcile pass all happen under one critical section, so two
// concurrently registering athletes with similar names cannot both claim the
// same orphan result.
type MemStore struct {
	mu sync.RWMutex

	tournaments map[uuid.UUID]model.Tournament
	athletes    map[uuid.UUID]*model.Athlete
	results     map[uuid.UUID]*model.TournamentResult

	// resultOrder preserves insertion order for deterministic orphan scans.
	resultOrder []uuid.UUID

	// Uniqueness indexes for the two identity forms of a result.
	orphanKeys  map[string]uuid.UUID
	matchedKeys map[string]uuid.UUID

	// ratings orders athletes by points desc for TopRatings.
	ratings *treapNode
}

// NewMemStore constructs an empty in-memory store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		tournaments: make(map[uuid.UUID]model.Tournament),
		athletes:    make(map[uuid.UUID]*model.Athlete),
		results:     make(map[uuid.UUID]*model.TournamentResult),
		orphanKeys:  make(map[string]uuid.UUID),
		matchedKeys: make(map[string]uuid.UUID),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const keySep = "\x1f"

// orphanIdentity is the uniqueness key of an unmatched result.
func orphanIdentity(r *model.TournamentResult) string {
	return strings.Join([]string{
		r.TournamentID.String(), r.WeightCategory, r.AgeCategory, r.RawFullName,
	}, keySep)
}

// matchedIdentity is the uniqueness key of a result linked to an athlete.
func matchedIdentity(r *model.TournamentResult, athleteID uuid.UUID) string {
	return strings.Join([]string{
		r.TournamentID.String(), athleteID.String(), r.WeightCategory, r.AgeCategory,
	}, keySep)
}

// CreateTournament implements Store.
func (s *MemStore) CreateTournament(_ context.Context, t model.Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tournaments[t.ID]; ok {
		return fmt.Errorf("%w: %s", ErrTournamentExists, t.ID)
	}
	s.tournaments[t.ID] = t
	return nil
}

// GetTournament implements Store.
func (s *MemStore) GetTournament(_ context.Context, id uuid.UUID) (model.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tournaments[id]
	if !ok {
		return model.Tournament{}, fmt.Errorf("%w: %s", ErrTournamentUnknown, id)
	}
	return t, nil
}

// InsertResult implements Store.
func (s *MemStore) InsertResult(_ context.Context, r model.TournamentResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tournaments[r.TournamentID]; !ok {
		return fmt.Errorf("%w: %s", ErrTournamentUnknown, r.TournamentID)
	}

	if athleteID, matched := r.Athlete.AthleteID(); matched {
		athlete, ok := s.athletes[athleteID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrAthleteUnknown, athleteID)
		}
		key := matchedIdentity(&r, athleteID)
		if _, exists := s.matchedKeys[key]; exists {
			metrics.RecordDuplicateRow()
			return fmt.Errorf("%w: matched identity", ErrDuplicateResult)
		}
		s.matchedKeys[key] = r.ID
		// A result born matched credits the athlete immediately; it never
		// goes through a reconcile pass.
		if r.RatingPointsEarned > 0 {
			s.ratings = treapDelete(s.ratings, athlete.ID, athlete.RatingPoints)
			athlete.RatingPoints += r.RatingPointsEarned
			s.ratings = treapInsert(s.ratings, athlete.ID, athlete.RatingPoints)
			metrics.RecordPointsCredited(r.RatingPointsEarned)
		}
	} else {
		key := orphanIdentity(&r)
		if _, exists := s.orphanKeys[key]; exists {
			metrics.RecordDuplicateRow()
			return fmt.Errorf("%w: orphan identity", ErrDuplicateResult)
		}
		s.orphanKeys[key] = r.ID
	}

	stored := r
	s.results[r.ID] = &stored
	s.resultOrder = append(s.resultOrder, r.ID)
	metrics.RecordResultPersisted()
	return nil
}

// Orphans implements Store.
func (s *MemStore) Orphans(_ context.Context) ([]model.TournamentResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.TournamentResult
	for _, id := range s.resultOrder {
		r := s.results[id]
		if !r.Athlete.IsMatched() && r.RawFullName != "" {
			out = append(out, *r)
		}
	}
	return out, nil
}

// CreateAthlete implements Store.
func (s *MemStore) CreateAthlete(_ context.Context, a model.Athlete) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.athletes[a.ID]; ok {
		return fmt.Errorf("athlete %s: already exists", a.ID)
	}
	stored := a
	s.athletes[a.ID] = &stored
	s.ratings = treapInsert(s.ratings, a.ID, a.RatingPoints)
	metrics.UpdateTotalAthletes(len(s.athletes))
	return nil
}

// GetAthlete implements Store.
func (s *MemStore) GetAthlete(_ context.Context, id uuid.UUID) (model.Athlete, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.athletes[id]
	if !ok {
		return model.Athlete{}, fmt.Errorf("%w: %s", ErrAthleteUnknown, id)
	}
	return *a, nil
}

// ReconcileOrphans implements Store. The whole pass runs under the write
// lock: candidates that were attached by an earlier pass are simply no longer
// orphans and are skipped, never an error.
func (s *MemStore) ReconcileOrphans(_ context.Context, athleteID uuid.UUID, match func(model.TournamentResult) bool) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	athlete, ok := s.athletes[athleteID]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrAthleteUnknown, athleteID)
	}

	attached := 0
	points := 0
	for _, id := range s.resultOrder {
		r := s.results[id]
		if r.Athlete.IsMatched() || r.RawFullName == "" {
			continue
		}
		if !match(*r) {
			continue
		}
		// Uniqueness backstop: the athlete may already hold a result with
		// this matched identity (overlapping uploads); leave the orphan be.
		matchedKey := matchedIdentity(r, athleteID)
		if _, exists := s.matchedKeys[matchedKey]; exists {
			continue
		}

		delete(s.orphanKeys, orphanIdentity(r))
		s.matchedKeys[matchedKey] = r.ID
		r.Athlete = model.MatchedTo(athleteID)
		attached++
		points += r.RatingPointsEarned
	}

	if attached > 0 {
		metrics.RecordOrphansAttached(attached)
	}
	if points > 0 {
		s.ratings = treapDelete(s.ratings, athlete.ID, athlete.RatingPoints)
		athlete.RatingPoints += points
		s.ratings = treapInsert(s.ratings, athlete.ID, athlete.RatingPoints)
		metrics.RecordPointsCredited(points)
	}
	return attached, points, nil
}

// TopRatings implements Store.
func (s *MemStore) TopRatings(_ context.Context, n int) ([]RatingEntry, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uuid.UUID, 0, n)
	collectTop(s.ratings, n, &ids)

	entries := make([]RatingEntry, len(ids))
	for i, id := range ids {
		a := s.athletes[id]
		entries[i] = RatingEntry{
			Rank:      i + 1,
			AthleteID: id,
			FullName:  a.FullName,
			Points:    a.RatingPoints,
		}
	}
	return entries, nil
}

// CountAthletes implements Store.
func (s *MemStore) CountAthletes(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.athletes)
}

// CountOrphans implements Store.
func (s *MemStore) CountOrphans(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orphanKeys)
}
