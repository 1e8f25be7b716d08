// Package service wires the import pipeline, storage, and the reconcile
// worker pool into the operations the engine exposes.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	eventqueue "github.com/ratmirov/tatami/internal/adapters/mq/queue"
	workerpool "github.com/ratmirov/tatami/internal/adapters/mq/worker"
	repository "github.com/ratmirov/tatami/internal/adapters/repository"
	"github.com/ratmirov/tatami/internal/domain/decode"
	"github.com/ratmirov/tatami/internal/domain/dedupe"
	"github.com/ratmirov/tatami/internal/domain/model"
	"github.com/ratmirov/tatami/internal/domain/normalize"
	"github.com/ratmirov/tatami/internal/domain/points"
	"github.com/ratmirov/tatami/internal/domain/reconcile"
	"github.com/ratmirov/tatami/internal/domain/roster"
	"github.com/ratmirov/tatami/internal/domain/types"
	"github.com/ratmirov/tatami/pkg/logger"
	"github.com/ratmirov/tatami/pkg/metrics"
)

// Service runs the results engine: tournament registration, file imports,
// athlete registration, and the asynchronous reconciliation behind it.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	eventQueue eventqueue.Queue
	matcher    *reconcile.Matcher
	calculator *points.Calculator
	workerPool *workerpool.Pool

	// Configuration
	workerCount    int
	queueSize      int
	dedupeSize     int
	maxRatingLimit int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of reconcile workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the registration event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the upload digest cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxRatingLimit caps how many entries TopRatings may return.
func WithMaxRatingLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxRatingLimit = limit
		}
	}
}

// WithStore replaces the default in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU() * 2,
		queueSize:      10_000,
		dedupeSize:     10_000,
		maxRatingLimit: 100,
		calculator:     points.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	s.deduper = dedupe.New(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.eventQueue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
	)
	s.matcher = reconcile.New(s.store, reconcile.WithLogger(s.logger.Named("reconcile")))

	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "results engine started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping results engine...")

	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	if q, ok := s.eventQueue.(*eventqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	s.started = false
	s.logger.Info(ctx, "results engine stopped")
}

// CreateTournament registers a tournament so results can be imported for it.
func (s *Service) CreateTournament(ctx context.Context, name string, importanceLevel int, date time.Time) (model.Tournament, error) {
	t := model.Tournament{
		ID:              uuid.New(),
		Name:            name,
		ImportanceLevel: importanceLevel,
		Date:            date,
	}
	if err := s.store.CreateTournament(ctx, t); err != nil {
		return model.Tournament{}, fmt.Errorf("create tournament: %w", err)
	}
	s.logger.Info(ctx, "tournament created",
		logger.String("tournamentID", t.ID.String()),
		logger.String("name", name),
		logger.Int("importance", importanceLevel),
	)
	return t, nil
}

// ImportResults ingests one uploaded results file for a tournament. The whole
// file is either readable or rejected: a blob that cannot be decoded persists
// nothing. Rows already present are counted as duplicates, not errors, so an
// overlapping re-upload is harmless.
func (s *Service) ImportResults(ctx context.Context, tournamentID uuid.UUID, ageCategory string, blob []byte) (types.ImportSummary, error) {
	start := time.Now()
	metrics.RecordImport()

	tournament, err := s.store.GetTournament(ctx, tournamentID)
	if err != nil {
		return types.ImportSummary{}, err
	}
	summary := types.ImportSummary{Tournament: tournament.Name}

	digest := dedupe.UploadDigest(tournamentID, blob)
	if s.deduper.SeenAndRecord(ctx, digest) {
		metrics.RecordDuplicateUpload()
		summary.DuplicateBlob = true
		s.logger.Info(ctx, "identical upload skipped",
			logger.String("tournamentID", tournamentID.String()),
		)
		return summary, nil
	}

	text, delim, err := decode.Detect(blob)
	if err != nil {
		// Let a corrected byte-identical retry through once the file is fixed
		// upstream of us; a failed upload must not poison the digest cache.
		s.deduper.Unrecord(ctx, digest)
		metrics.RecordImportError()
		return summary, fmt.Errorf("import for tournament %s: %w", tournamentID, err)
	}

	records, stats := roster.Extract(text, delim)
	summary.LinesRead = stats.Lines
	summary.RowsExtracted = stats.Records
	summary.LinesSkipped = stats.Skipped
	metrics.RecordRowsExtracted(stats.Records)
	metrics.RecordRowsSkipped(stats.Skipped)

	for _, rec := range records {
		earned := s.calculator.Calculate(rec.Place, tournament.ImportanceLevel)
		result := model.TournamentResult{
			ID:                 uuid.New(),
			TournamentID:       tournamentID,
			Athlete:            model.Unmatched(),
			RawFullName:        rec.RawFullName,
			RawWeightCategory:  rec.WeightCategory,
			WeightCategory:     normalize.WeightKey(rec.WeightCategory),
			AgeCategory:        ageCategory,
			Gender:             rec.Gender,
			Place:              rec.Place,
			RatingPointsEarned: earned,
			CreatedAt:          time.Now(),
		}
		if err := s.store.InsertResult(ctx, result); err != nil {
			if errors.Is(err, repository.ErrDuplicateResult) {
				summary.DuplicateRows++
				continue
			}
			return summary, fmt.Errorf("persist result: %w", err)
		}
		summary.RowsPersisted++
		summary.PointsAwarded += earned
	}

	metrics.UpdateOrphanResults(s.store.CountOrphans(ctx))
	metrics.RecordImportDuration(float64(time.Since(start).Milliseconds()))

	s.logger.Info(ctx, "import finished",
		logger.String("tournamentID", tournamentID.String()),
		logger.Int("linesRead", summary.LinesRead),
		logger.Int("rowsPersisted", summary.RowsPersisted),
		logger.Int("duplicateRows", summary.DuplicateRows),
		logger.Int("linesSkipped", summary.LinesSkipped),
	)
	return summary, nil
}

// AddResult records one placement for a known athlete, bypassing file import.
// The result is born matched, so it credits the rating immediately and never
// enters the orphan pool.
func (s *Service) AddResult(ctx context.Context, tournamentID, athleteID uuid.UUID, weightCategory, ageCategory string, place int) (model.TournamentResult, error) {
	tournament, err := s.store.GetTournament(ctx, tournamentID)
	if err != nil {
		return model.TournamentResult{}, err
	}
	athlete, err := s.store.GetAthlete(ctx, athleteID)
	if err != nil {
		return model.TournamentResult{}, err
	}

	result := model.TournamentResult{
		ID:                 uuid.New(),
		TournamentID:       tournamentID,
		Athlete:            model.MatchedTo(athleteID),
		RawFullName:        athlete.FullName,
		RawWeightCategory:  weightCategory,
		WeightCategory:     normalize.WeightKey(weightCategory),
		AgeCategory:        ageCategory,
		Gender:             athlete.Gender,
		Place:              place,
		RatingPointsEarned: s.calculator.Calculate(place, tournament.ImportanceLevel),
		CreatedAt:          time.Now(),
	}
	if err := s.store.InsertResult(ctx, result); err != nil {
		return model.TournamentResult{}, fmt.Errorf("add result: %w", err)
	}
	return result, nil
}

// RegisterAthlete durably creates the athlete, then hands a registration
// event to the reconcile workers. If the queue is saturated the pass runs
// synchronously instead: registration must never complete without a
// reconcile pass at least being scheduled.
func (s *Service) RegisterAthlete(ctx context.Context, fullName, weightCategory string, gender model.Gender) (model.Athlete, error) {
	athlete := model.Athlete{
		ID:             uuid.New(),
		FullName:       fullName,
		WeightCategory: weightCategory,
		Gender:         gender,
		CreatedAt:      time.Now(),
	}
	if err := s.store.CreateAthlete(ctx, athlete); err != nil {
		return model.Athlete{}, fmt.Errorf("register athlete: %w", err)
	}

	event := model.RegistrationEvent{
		EventID:   uuid.NewString(),
		AthleteID: athlete.ID,
		FullName:  fullName,
		TS:        time.Now(),
	}
	if !s.eventQueue.Enqueue(ctx, event) {
		s.logger.Warn(ctx, "registration queue full, reconciling inline",
			logger.String("athleteID", athlete.ID.String()),
		)
		if _, err := s.Reconcile(ctx, athlete.ID); err != nil {
			return model.Athlete{}, err
		}
	}
	return athlete, nil
}

// Reconcile runs one retroactive matching pass for the athlete. It satisfies
// the worker pool's reconciler contract and is also the inline fallback path.
func (s *Service) Reconcile(ctx context.Context, athleteID uuid.UUID) (int, error) {
	athlete, err := s.store.GetAthlete(ctx, athleteID)
	if err != nil {
		return 0, err
	}
	awarded, err := s.matcher.Reconcile(ctx, athlete)
	if err != nil {
		return 0, err
	}
	metrics.UpdateOrphanResults(s.store.CountOrphans(ctx))
	return awarded, nil
}

// TopRatings returns the best-rated athletes, at most the configured cap.
func (s *Service) TopRatings(ctx context.Context, n int) ([]types.RatingEntry, error) {
	if n > s.maxRatingLimit {
		n = s.maxRatingLimit
	}
	entries, err := s.store.TopRatings(ctx, n)
	if err != nil {
		return nil, err
	}

	out := make([]types.RatingEntry, len(entries))
	for i, e := range entries {
		out[i] = types.RatingEntry{
			Rank:      e.Rank,
			AthleteID: e.AthleteID.String(),
			FullName:  e.FullName,
			Points:    e.Points,
		}
	}
	return out, nil
}

// GetAthlete returns one athlete by id.
func (s *Service) GetAthlete(ctx context.Context, id uuid.UUID) (model.Athlete, error) {
	return s.store.GetAthlete(ctx, id)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.eventQueue.Len(ctx)
		athletes := s.store.CountAthletes(ctx)
		orphans := s.store.CountOrphans(ctx)

		stats["queueLength"] = queueLen
		stats["totalAthletes"] = athletes
		stats["orphanResults"] = orphans

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalAthletes(athletes)
		metrics.UpdateOrphanResults(orphans)
		metrics.UpdateWorkerCount(s.workerCount)
	}
	return stats
}
