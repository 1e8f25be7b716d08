// Package reconcile retroactively links orphan tournament results to newly
// registered athletes. Athletes often register after their results were
// imported; the matcher finds those results by normalized (name, weight) key
// and credits the earned points, exactly once per result.
package reconcile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ratmirov/tatami/internal/domain/model"
	"github.com/ratmirov/tatami/internal/domain/normalize"
	"github.com/ratmirov/tatami/pkg/logger"
)

// Store is the slice of the storage collaborator the matcher needs. The
// implementation must run the whole pass atomically: candidates already
// attached by a concurrent pass are skipped inside it, not surfaced as errors.
type Store interface {
	ReconcileOrphans(ctx context.Context, athleteID uuid.UUID, match func(model.TournamentResult) bool) (int, int, error)
}

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithLogger sets a custom logger for the matcher.
func WithLogger(log logger.Logger) Option {
	return func(m *Matcher) {
		if log != nil {
			m.logger = log
		}
	}
}

// Matcher drives retroactive point awards for one athlete at a time.
type Matcher struct {
	store  Store
	logger logger.Logger
}

// New constructs a Matcher over the given store.
func New(store Store, opts ...Option) *Matcher {
	m := &Matcher{
		store:  store,
		logger: logger.Get().Named("reconcile"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Reconcile scans unattributed results for the athlete and attaches every one
// whose normalized (name, weight) key equals the athlete's. Matching is exact
// equality on the keys, no fuzzy distance; all matches in the pass are
// attached and their points credited in a single adjustment. Returns the
// points awarded; zero means nothing matched, which is not an error — the
// orphans stay eligible for future passes.
func (m *Matcher) Reconcile(ctx context.Context, athlete model.Athlete) (int, error) {
	nameKey := normalize.MatchKey(athlete.FullName)
	weightKey := normalize.WeightKey(athlete.WeightCategory)
	if nameKey == "" {
		return 0, nil
	}

	attached, points, err := m.store.ReconcileOrphans(ctx, athlete.ID, func(r model.TournamentResult) bool {
		if normalize.MatchKey(r.RawFullName) != nameKey {
			return false
		}
		weight := r.RawWeightCategory
		if weight == "" {
			weight = r.WeightCategory
		}
		return normalize.WeightKey(weight) == weightKey
	})
	if err != nil {
		return 0, fmt.Errorf("reconcile athlete %s: %w", athlete.ID, err)
	}

	if attached > 0 {
		m.logger.Info(ctx, "attached historical results",
			logger.String("athleteID", athlete.ID.String()),
			logger.Int("results", attached),
			logger.Int("points", points),
		)
	}
	return points, nil
}
