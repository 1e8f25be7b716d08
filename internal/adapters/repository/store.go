// Package repository is the storage collaborator of the results engine: it
// owns durability, the uniqueness constraints that reject duplicate rows, and
// the transaction boundary of the reconcile pass.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ratmirov/tatami/internal/domain/model"
)

// RatingEntry is one row of the athlete rating board.
type RatingEntry struct {
	Rank      int
	AthleteID uuid.UUID
	FullName  string
	Points    int
}

// Store provides read/write access to tournaments, athletes and results.
type Store interface {
	// CreateTournament registers a tournament for result imports.
	// Returns ErrTournamentExists for a reused id.
	CreateTournament(ctx context.Context, t model.Tournament) error

	// GetTournament returns a tournament by id, or ErrTournamentUnknown.
	GetTournament(ctx context.Context, id uuid.UUID) (model.Tournament, error)

	// InsertResult persists one imported placement. Both identity forms are
	// unique: (tournament, weight, age, rawFullName) while unmatched and
	// (tournament, athlete, weight, age) once matched. A violation of either
	// returns ErrDuplicateResult and persists nothing. A result inserted
	// already matched credits the athlete's rating in the same transaction.
	InsertResult(ctx context.Context, r model.TournamentResult) error

	// Orphans returns every result with no athlete link and a non-empty raw
	// name, in insertion order. Rows created through the manual path always
	// carry an athlete and never appear here.
	Orphans(ctx context.Context) ([]model.TournamentResult, error)

	// CreateAthlete persists a newly registered athlete.
	CreateAthlete(ctx context.Context, a model.Athlete) error

	// GetAthlete returns an athlete by id, or ErrAthleteUnknown.
	GetAthlete(ctx context.Context, id uuid.UUID) (model.Athlete, error)

	// ReconcileOrphans atomically attaches every orphan result accepted by
	// match to the athlete, sums their earned points, and credits the
	// athlete's rating in a single adjustment. Orphans whose matched
	// identity would collide with an existing result are left untouched.
	// Returns the number of results attached and the points credited.
	ReconcileOrphans(ctx context.Context, athleteID uuid.UUID, match func(model.TournamentResult) bool) (int, int, error)

	// TopRatings returns the best-rated athletes ordered by points desc,
	// athlete id asc on ties. Returns ErrInvalidLimit for n < 1.
	TopRatings(ctx context.Context, n int) ([]RatingEntry, error)

	// CountAthletes and CountOrphans report store sizes for monitoring.
	CountAthletes(ctx context.Context) int
	CountOrphans(ctx context.Context) int
}
