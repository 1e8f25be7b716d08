package reconcile_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	repository "github.com/ratmirov/tatami/internal/adapters/repository"
	model "github.com/ratmirov/tatami/internal/domain/model"
	reconcile "github.com/ratmirov/tatami/internal/domain/reconcile"
	"github.com/ratmirov/tatami/pkg/logger"
)

func TestMain(m *testing.M) {
	_ = logger.Init()
	m.Run()
}

func seedOrphan(store *repository.MemStore, tournamentID uuid.UUID, name, weight string, pts int) {
	_ = store.InsertResult(context.Background(), model.TournamentResult{
		ID:                 uuid.New(),
		TournamentID:       tournamentID,
		Athlete:            model.Unmatched(),
		RawFullName:        name,
		RawWeightCategory:  weight,
		WeightCategory:     weight,
		Place:              2,
		RatingPointsEarned: pts,
	})
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()

	Convey("Given an orphan result awaiting its athlete", t, func() {
		store := repository.NewMemStore()
		tournament := model.Tournament{ID: uuid.New(), Name: "Первенство города", ImportanceLevel: 1}
		So(store.CreateTournament(ctx, tournament), ShouldBeNil)
		seedOrphan(store, tournament.ID, "Петров Сергей Иванович", "68", 10)

		matcher := reconcile.New(store)

		Convey("When the athlete registers with a decorated weight label", func() {
			athlete := model.Athlete{ID: uuid.New(), FullName: "Петров Сергей", WeightCategory: "68kg"}
			So(store.CreateAthlete(ctx, athlete), ShouldBeNil)

			points, err := matcher.Reconcile(ctx, athlete)

			Convey("Then the result attaches and points transfer exactly once", func() {
				So(err, ShouldBeNil)
				So(points, ShouldEqual, 10)

				got, err := store.GetAthlete(ctx, athlete.ID)
				So(err, ShouldBeNil)
				So(got.RatingPoints, ShouldEqual, 10)
				So(store.CountOrphans(ctx), ShouldEqual, 0)
			})

			Convey("And a second pass with no new data awards nothing", func() {
				_, err := matcher.Reconcile(ctx, athlete)
				So(err, ShouldBeNil)

				points, err := matcher.Reconcile(ctx, athlete)
				So(err, ShouldBeNil)
				So(points, ShouldEqual, 0)

				got, _ := store.GetAthlete(ctx, athlete.ID)
				So(got.RatingPoints, ShouldEqual, 10)
			})
		})

		Convey("When a different person registers in the same weight", func() {
			athlete := model.Athlete{ID: uuid.New(), FullName: "Сидоров Павел", WeightCategory: "68"}
			So(store.CreateAthlete(ctx, athlete), ShouldBeNil)

			points, err := matcher.Reconcile(ctx, athlete)

			Convey("Then nothing matches and the orphan stays eligible", func() {
				So(err, ShouldBeNil)
				So(points, ShouldEqual, 0)
				So(store.CountOrphans(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the same name registers in another weight", func() {
			athlete := model.Athlete{ID: uuid.New(), FullName: "Петров Сергей", WeightCategory: "74"}
			So(store.CreateAthlete(ctx, athlete), ShouldBeNil)

			points, err := matcher.Reconcile(ctx, athlete)

			Convey("Then the weight key keeps them apart", func() {
				So(err, ShouldBeNil)
				So(points, ShouldEqual, 0)
			})
		})
	})

	Convey("Given orphans across several tournaments", t, func() {
		store := repository.NewMemStore()
		for _, name := range []string{"Чемпионат края", "Кубок федерации"} {
			tournament := model.Tournament{ID: uuid.New(), Name: name, ImportanceLevel: 2}
			So(store.CreateTournament(ctx, tournament), ShouldBeNil)
			seedOrphan(store, tournament.ID, "Ёлкин Пётр", "-58", 20)
		}
		matcher := reconcile.New(store)

		Convey("When the athlete registers spelled without ё", func() {
			athlete := model.Athlete{ID: uuid.New(), FullName: "Елкин Петр Андреевич", WeightCategory: "58"}
			So(store.CreateAthlete(ctx, athlete), ShouldBeNil)

			points, err := matcher.Reconcile(ctx, athlete)

			Convey("Then every historical result attaches in one pass", func() {
				So(err, ShouldBeNil)
				So(points, ShouldEqual, 40)

				got, _ := store.GetAthlete(ctx, athlete.ID)
				So(got.RatingPoints, ShouldEqual, 40)
				So(store.CountOrphans(ctx), ShouldEqual, 0)
			})
		})
	})
}
