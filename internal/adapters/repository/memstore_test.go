package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	repository "github.com/ratmirov/tatami/internal/adapters/repository"
	model "github.com/ratmirov/tatami/internal/domain/model"
)

func newTournament(store *repository.MemStore, importance int) model.Tournament {
	t := model.Tournament{ID: uuid.New(), Name: "Открытый ковер", ImportanceLevel: importance}
	_ = store.CreateTournament(context.Background(), t)
	return t
}

func orphanResult(tournamentID uuid.UUID, name, weight string, pts int) model.TournamentResult {
	return model.TournamentResult{
		ID:                 uuid.New(),
		TournamentID:       tournamentID,
		Athlete:            model.Unmatched(),
		RawFullName:        name,
		RawWeightCategory:  weight,
		WeightCategory:     weight,
		Place:              1,
		RatingPointsEarned: pts,
	}
}

func TestMemStoreResults(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store with a tournament", t, func() {
		store := repository.NewMemStore()
		tournament := newTournament(store, 1)

		Convey("When inserting an orphan result", func() {
			r := orphanResult(tournament.ID, "Иванов Иван", "54", 12)
			err := store.InsertResult(ctx, r)

			Convey("Then it persists and shows up as an orphan", func() {
				So(err, ShouldBeNil)
				orphans, err := store.Orphans(ctx)
				So(err, ShouldBeNil)
				So(orphans, ShouldHaveLength, 1)
				So(orphans[0].RawFullName, ShouldEqual, "Иванов Иван")
			})

			Convey("And re-importing the same row is rejected", func() {
				dup := orphanResult(tournament.ID, "Иванов Иван", "54", 12)
				err := store.InsertResult(ctx, dup)
				So(errors.Is(err, repository.ErrDuplicateResult), ShouldBeTrue)

				orphans, _ := store.Orphans(ctx)
				So(orphans, ShouldHaveLength, 1)
			})

			Convey("And the same name in another weight is a distinct row", func() {
				other := orphanResult(tournament.ID, "Иванов Иван", "58", 10)
				So(store.InsertResult(ctx, other), ShouldBeNil)
				So(store.CountOrphans(ctx), ShouldEqual, 2)
			})
		})

		Convey("When inserting a result for an unknown tournament", func() {
			r := orphanResult(uuid.New(), "Иванов Иван", "54", 12)
			err := store.InsertResult(ctx, r)

			Convey("Then the insert is refused", func() {
				So(errors.Is(err, repository.ErrTournamentUnknown), ShouldBeTrue)
			})
		})

		Convey("When inserting a matched result twice for one athlete", func() {
			athlete := model.Athlete{ID: uuid.New(), FullName: "Петров Сергей", WeightCategory: "68"}
			So(store.CreateAthlete(ctx, athlete), ShouldBeNil)

			r := orphanResult(tournament.ID, "Петров Сергей", "68", 10)
			r.Athlete = model.MatchedTo(athlete.ID)
			So(store.InsertResult(ctx, r), ShouldBeNil)

			second := orphanResult(tournament.ID, "Петров С.", "68", 10)
			second.Athlete = model.MatchedTo(athlete.ID)

			Convey("Then the matched identity is unique too", func() {
				err := store.InsertResult(ctx, second)
				So(errors.Is(err, repository.ErrDuplicateResult), ShouldBeTrue)
			})

			Convey("And the first insert credited the athlete once", func() {
				a, err := store.GetAthlete(ctx, athlete.ID)
				So(err, ShouldBeNil)
				So(a.RatingPoints, ShouldEqual, 10)
			})

			Convey("And matched rows never appear as orphans", func() {
				orphans, _ := store.Orphans(ctx)
				So(orphans, ShouldBeEmpty)
			})
		})
	})
}

func TestMemStoreReconcile(t *testing.T) {
	ctx := context.Background()

	Convey("Given orphans from two tournaments for the same person", t, func() {
		store := repository.NewMemStore()
		first := newTournament(store, 1)
		second := model.Tournament{ID: uuid.New(), Name: "Кубок области", ImportanceLevel: 2}
		So(store.CreateTournament(ctx, second), ShouldBeNil)

		So(store.InsertResult(ctx, orphanResult(first.ID, "Петров Сергей Иванович", "68", 10)), ShouldBeNil)
		So(store.InsertResult(ctx, orphanResult(second.ID, "Петров Сергей", "68", 24)), ShouldBeNil)
		So(store.InsertResult(ctx, orphanResult(first.ID, "Кузнецова Ольга", "58", 8)), ShouldBeNil)

		athlete := model.Athlete{ID: uuid.New(), FullName: "Петров Сергей", WeightCategory: "68"}
		So(store.CreateAthlete(ctx, athlete), ShouldBeNil)

		matchPetrov := func(r model.TournamentResult) bool {
			return r.WeightCategory == "68"
		}

		Convey("When reconciling", func() {
			attached, points, err := store.ReconcileOrphans(ctx, athlete.ID, matchPetrov)

			Convey("Then all matching orphans attach and points sum once", func() {
				So(err, ShouldBeNil)
				So(attached, ShouldEqual, 2)
				So(points, ShouldEqual, 34)

				a, err := store.GetAthlete(ctx, athlete.ID)
				So(err, ShouldBeNil)
				So(a.RatingPoints, ShouldEqual, 34)
				So(store.CountOrphans(ctx), ShouldEqual, 1)
			})

			Convey("And a second pass finds nothing new", func() {
				attached, points, err := store.ReconcileOrphans(ctx, athlete.ID, matchPetrov)
				So(err, ShouldBeNil)
				So(attached, ShouldEqual, 0)
				So(points, ShouldEqual, 0)

				a, _ := store.GetAthlete(ctx, athlete.ID)
				So(a.RatingPoints, ShouldEqual, 34)
			})
		})

		Convey("When reconciling an unknown athlete", func() {
			_, _, err := store.ReconcileOrphans(ctx, uuid.New(), matchPetrov)

			Convey("Then the pass fails cleanly", func() {
				So(errors.Is(err, repository.ErrAthleteUnknown), ShouldBeTrue)
			})
		})

		Convey("When two same-weight orphans exist in one tournament", func() {
			// Same person imported twice under slightly different raw names.
			So(store.InsertResult(ctx, orphanResult(first.ID, "Петров Сергей И.", "68", 10)), ShouldBeNil)

			attached, points, err := store.ReconcileOrphans(ctx, athlete.ID, matchPetrov)

			Convey("Then the matched-identity backstop credits only one of them", func() {
				So(err, ShouldBeNil)
				// One from each tournament; the near-duplicate in the first
				// tournament collides on (tournament, athlete, weight, age).
				So(attached, ShouldEqual, 2)
				So(points, ShouldEqual, 34)
			})
		})
	})
}

func TestMemStoreTopRatings(t *testing.T) {
	ctx := context.Background()

	Convey("Given athletes with different ratings", t, func() {
		store := repository.NewMemStore()
		tournament := newTournament(store, 1)

		names := []struct {
			name   string
			weight string
			points int
		}{
			{"Иванов Иван", "54", 12},
			{"Петров Сергей", "68", 24},
			{"Смирнова Анна", "58", 8},
		}
		for _, n := range names {
			a := model.Athlete{ID: uuid.New(), FullName: n.name, WeightCategory: n.weight}
			So(store.CreateAthlete(ctx, a), ShouldBeNil)
			So(store.InsertResult(ctx, orphanResult(tournament.ID, n.name, n.weight, n.points)), ShouldBeNil)
			_, _, err := store.ReconcileOrphans(ctx, a.ID, func(r model.TournamentResult) bool {
				return r.RawFullName == n.name
			})
			So(err, ShouldBeNil)
		}

		Convey("When querying the rating board", func() {
			entries, err := store.TopRatings(ctx, 10)

			Convey("Then athletes come back best-first with ranks", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 3)
				So(entries[0].FullName, ShouldEqual, "Петров Сергей")
				So(entries[0].Points, ShouldEqual, 24)
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[1].Points, ShouldEqual, 12)
				So(entries[2].Points, ShouldEqual, 8)
			})
		})

		Convey("When the limit is smaller than the field", func() {
			entries, err := store.TopRatings(ctx, 1)
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 1)
			So(entries[0].Points, ShouldEqual, 24)
		})

		Convey("When the limit is invalid", func() {
			_, err := store.TopRatings(ctx, 0)
			So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
		})
	})
}
