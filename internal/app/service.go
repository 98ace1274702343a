// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/okian/talentmatch/internal/adapters/repository"
	"github.com/okian/talentmatch/internal/adapters/source"
	"github.com/okian/talentmatch/internal/domain/model"
	"github.com/okian/talentmatch/internal/domain/types"
	"github.com/okian/talentmatch/pkg/logger"
)

const (
	defaultFetchTimeout = 10 * time.Second
	defaultRetention    = 100
)

// Service runs talent match analyses against a data source and publishes
// the results to a result store.
type Service struct {
	mu sync.RWMutex

	// Collaborators
	source source.Source
	runLog repository.RunLog
	store  repository.ResultStore

	// Configuration
	workerCount    int
	fetchTimeout   time.Duration
	retention      int
	rosterFallback bool
	now            func() time.Time
	newID          func() string
	validate       *validator.Validate

	// State
	started  bool
	runs     atomic.Int64
	failures atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the data source analyses read from.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithRunLog sets where run records are appended. Defaults to an in-memory log.
func WithRunLog(l repository.RunLog) Option {
	return func(s *Service) {
		if l != nil {
			s.runLog = l
		}
	}
}

// WithResultStore sets the result sink. Defaults to an in-memory store.
func WithResultStore(store repository.ResultStore) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithWorkerCount caps concurrent per-employee scoring.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithFetchTimeout bounds the fetch stage of a run.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithResultRetention sets how many results the default store keeps.
func WithResultRetention(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.retention = n
		}
	}
}

// WithRosterFallback toggles deriving the roster from competency records
// when the employee table is empty.
func WithRosterFallback(enabled bool) Option {
	return func(s *Service) {
		s.rosterFallback = enabled
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides run id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU(),
		fetchTimeout:   defaultFetchTimeout,
		retention:      defaultRetention,
		rosterFallback: true,
		now:            time.Now,
		newID:          uuid.NewString,
		validate:       validator.New(),
		logger:         nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start fills in default collaborators and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.source == nil {
		return ErrNoSource
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.runLog == nil {
		s.runLog = repository.NewMemoryRunLog()
	}
	if s.store == nil {
		s.store = repository.NewMemoryResultStore(repository.WithRetention(s.retention))
	}

	s.started = true
	s.logger.Info(ctx, "talent match service started",
		logger.Int("workers", s.workerCount),
		logger.Int("fetchTimeoutMs", int(s.fetchTimeout.Milliseconds())),
		logger.Bool("rosterFallback", s.rosterFallback),
	)
	return nil
}

// Stop marks the service stopped. Stored results stay readable.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "talent match service stopped")
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Result returns a stored analysis result.
func (s *Service) Result(ctx context.Context, runID string) (types.AnalysisResult, error) {
	if !s.isStarted() {
		return types.AnalysisResult{}, ErrNotStarted
	}
	return s.store.Get(ctx, runID)
}

// TopN returns the first n leaderboard entries of a run.
func (s *Service) TopN(ctx context.Context, runID string, n int) ([]types.Entry, error) {
	if !s.isStarted() {
		return nil, ErrNotStarted
	}
	return s.store.TopN(ctx, runID, n)
}

// Rank returns one employee's entry within a run.
func (s *Service) Rank(ctx context.Context, runID, employeeID string) (types.Entry, error) {
	if !s.isStarted() {
		return types.Entry{}, ErrNotStarted
	}
	return s.store.Rank(ctx, runID, employeeID)
}

// Record returns the persisted run record of a run.
func (s *Service) Record(ctx context.Context, runID string) (model.RunRecord, error) {
	if !s.isStarted() {
		return model.RunRecord{}, ErrNotStarted
	}
	return s.runLog.Get(ctx, runID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"workerCount":    s.workerCount,
		"fetchTimeoutMs": s.fetchTimeout.Milliseconds(),
		"rosterFallback": s.rosterFallback,
		"runs":           s.runs.Load(),
		"failures":       s.failures.Load(),
	}
	if s.started {
		stats["storedResults"] = s.store.Count(context.Background())
	}
	return stats
}
