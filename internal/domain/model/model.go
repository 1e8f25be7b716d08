// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Gender is the competitor gender inferred from a roster section header.
type Gender string

// Gender values. Unknown means the source file carried no section header
// for the row and the layout had no gender column either.
const (
	GenderMale    Gender = "M"
	GenderFemale  Gender = "F"
	GenderUnknown Gender = ""
)

// PlacementRecord is one competitor placement extracted from an uploaded
// results file. It is ephemeral: the import pass turns it into a persisted
// TournamentResult and discards it.
type PlacementRecord struct {
	MatchKey       string // normalized "surname given-name", matching only, never displayed
	RawFullName    string // full name exactly as read, may include a patronymic
	WeightCategory string // as written in the source, e.g. "54" or "-58"
	Gender         Gender
	Place          int // winning rank, >= 1; ranges like "5-8" collapse to the lower bound
}

// Attribution is the athlete link of a TournamentResult: either unmatched
// (an orphan awaiting reconciliation) or matched to exactly one athlete.
// Once matched it is never cleared or reassigned.
type Attribution struct {
	athleteID uuid.UUID
	matched   bool
}

// Unmatched returns the zero attribution for an orphan result.
func Unmatched() Attribution { return Attribution{} }

// MatchedTo returns an attribution linked to the given athlete.
func MatchedTo(athleteID uuid.UUID) Attribution {
	return Attribution{athleteID: athleteID, matched: true}
}

// AthleteID returns the linked athlete id and whether the result is matched.
func (a Attribution) AthleteID() (uuid.UUID, bool) {
	return a.athleteID, a.matched
}

// IsMatched reports whether the result has been linked to an athlete.
func (a Attribution) IsMatched() bool { return a.matched }

// TournamentResult is a persisted placement. Created at import time, mutated
// at most once when reconciliation attaches an athlete, never deleted.
type TournamentResult struct {
	ID           uuid.UUID
	TournamentID uuid.UUID
	Athlete      Attribution

	RawFullName string // verbatim competitor name from the source row
	// RawWeightCategory preserves the weight exactly as imported so later
	// reconciliation passes keep matching even after WeightCategory has been
	// normalized for display.
	RawWeightCategory string
	WeightCategory    string
	AgeCategory       string
	Gender            Gender
	Place             int

	// RatingPointsEarned is computed once at import time and is immutable:
	// reconciliation only attaches an athlete and credits the total, it never
	// recomputes points.
	RatingPointsEarned int

	CreatedAt time.Time
}

// Athlete is the registered-competitor entity as seen by this engine.
// RatingPoints only ever grows here: reconciliation credits the sum of newly
// attached results and nothing in this engine decreases it.
type Athlete struct {
	ID             uuid.UUID
	FullName       string
	WeightCategory string
	Gender         Gender
	RatingPoints   int
	CreatedAt      time.Time
}

// Tournament identifies an event whose results are being imported. The
// importance level is a 1..3 tier multiplier applied to base placement points.
type Tournament struct {
	ID              uuid.UUID
	Name            string
	ImportanceLevel int
	Date            time.Time
}

// RegistrationEvent flows through the queue from the registration workflow to
// the reconcile workers: one event per durably created athlete.
type RegistrationEvent struct {
	EventID   string // unique id for idempotency
	AthleteID uuid.UUID
	FullName  string
	TS        time.Time
}
