package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartystreets/goconvey/convey"

	worker "github.com/ratmirov/tatami/internal/adapters/mq/worker"
	logging "github.com/ratmirov/tatami/pkg/logger"
)

func TestMain(m *testing.M) {
	_ = logging.Init()
	m.Run()
}

// Mock implementations for testing.
type mockQueue struct {
	events chan worker.Event
}

func newMockQueue() *mockQueue {
	return &mockQueue{events: make(chan worker.Event, 10)}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan worker.Event {
	return mq.events
}

type mockReconciler struct {
	mu      sync.Mutex
	calls   []uuid.UUID
	points  map[uuid.UUID]int
	failFor map[uuid.UUID]error
}

func newMockReconciler() *mockReconciler {
	return &mockReconciler{
		points:  make(map[uuid.UUID]int),
		failFor: make(map[uuid.UUID]error),
	}
}

func (mr *mockReconciler) Reconcile(_ context.Context, athleteID uuid.UUID) (int, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	mr.calls = append(mr.calls, athleteID)
	if err, ok := mr.failFor[athleteID]; ok {
		return 0, err
	}
	return mr.points[athleteID], nil
}

func (mr *mockReconciler) callCount() int {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	return len(mr.calls)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestWorker(t *testing.T) {
	convey.Convey("Given a worker over a mock queue", t, func() {
		q := newMockQueue()
		rec := newMockReconciler()
		w := worker.NewWorker(q, rec, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		go w.Run(ctx)

		convey.Convey("When a registration event arrives", func() {
			athleteID := uuid.New()
			rec.mu.Lock()
			rec.points[athleteID] = 10
			rec.mu.Unlock()

			q.events <- worker.Event{EventID: "e1", AthleteID: athleteID}

			convey.Convey("Then the reconciler runs for that athlete", func() {
				convey.So(waitFor(func() bool { return rec.callCount() == 1 }), convey.ShouldBeTrue)
				cancel()
			})
		})

		convey.Convey("When the reconciler fails", func() {
			athleteID := uuid.New()
			rec.mu.Lock()
			rec.failFor[athleteID] = errors.New("boom")
			rec.mu.Unlock()

			q.events <- worker.Event{EventID: "e2", AthleteID: athleteID}
			q.events <- worker.Event{EventID: "e3", AthleteID: uuid.New()}

			convey.Convey("Then the worker keeps processing later events", func() {
				convey.So(waitFor(func() bool { return rec.callCount() == 2 }), convey.ShouldBeTrue)
				cancel()
			})
		})

		convey.Convey("When the worker is shut down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()

			err := w.Shutdown(shutdownCtx)

			convey.Convey("Then it stops cleanly", func() {
				convey.So(err, convey.ShouldBeNil)
				cancel()
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool of workers", t, func() {
		q := newMockQueue()
		rec := newMockReconciler()
		pool := worker.NewPool(3, q, rec)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When several registrations are queued", func() {
			for i := 0; i < 5; i++ {
				q.events <- worker.Event{EventID: uuid.NewString(), AthleteID: uuid.New()}
			}

			convey.Convey("Then all of them are reconciled", func() {
				convey.So(waitFor(func() bool { return rec.callCount() == 5 }), convey.ShouldBeTrue)
				pool.Stop()
			})
		})
	})
}
