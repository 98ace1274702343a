package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/talentmatch/internal/domain/types"
	"github.com/okian/talentmatch/pkg/metrics"
)

const defaultRetention = 100

// storedResult keeps a result with an index for O(1) rank lookups.
type storedResult struct {
	result   types.AnalysisResult
	position map[string]int
}

// MemoryResultStore is an in-process ResultStore that keeps the most recent
// results. Safe for concurrent use.
type MemoryResultStore struct {
	mu        sync.RWMutex
	retention int
	order     []string
	results   map[string]*storedResult
}

var _ ResultStore = (*MemoryResultStore)(nil)

// NewMemoryResultStore creates an empty store.
func NewMemoryResultStore(opts ...Option) *MemoryResultStore {
	s := &MemoryResultStore{
		retention: defaultRetention,
		results:   make(map[string]*storedResult),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores a deep copy of r.
func (s *MemoryResultStore) Put(_ context.Context, r types.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.results[r.RunID]; ok {
		return fmt.Errorf("%w: %s", ErrRunExists, r.RunID)
	}
	sr := &storedResult{result: r.Clone(), position: make(map[string]int, len(r.Leaderboard))}
	for i, e := range sr.result.Leaderboard {
		sr.position[e.EmployeeID] = i
	}
	s.results[r.RunID] = sr
	s.order = append(s.order, r.RunID)

	for len(s.order) > s.retention {
		delete(s.results, s.order[0])
		s.order = s.order[1:]
	}
	metrics.UpdateStoredResults(len(s.results))
	return nil
}

func (s *MemoryResultStore) lookup(runID string) (*storedResult, error) {
	sr, ok := s.results[runID]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return sr, nil
}

// Get returns a copy of the stored result.
func (s *MemoryResultStore) Get(_ context.Context, runID string) (types.AnalysisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sr, err := s.lookup(runID)
	if err != nil {
		return types.AnalysisResult{}, err
	}
	return sr.result.Clone(), nil
}

// TopN returns up to n entries from the top of the leaderboard.
func (s *MemoryResultStore) TopN(_ context.Context, runID string, n int) ([]types.Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sr, err := s.lookup(runID)
	if err != nil {
		return nil, err
	}
	board := sr.result.Leaderboard
	if n > len(board) {
		n = len(board)
	}
	return append([]types.Entry(nil), board[:n]...), nil
}

// Rank returns the leaderboard entry of employeeID.
func (s *MemoryResultStore) Rank(_ context.Context, runID, employeeID string) (types.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sr, err := s.lookup(runID)
	if err != nil {
		return types.Entry{}, err
	}
	i, ok := sr.position[employeeID]
	if !ok {
		return types.Entry{}, fmt.Errorf("employee %s in run %s: %w", employeeID, runID, ErrNotFound)
	}
	return sr.result.Leaderboard[i], nil
}

// Delete removes runID from the store.
func (s *MemoryResultStore) Delete(_ context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.results[runID]; !ok {
		return nil
	}
	delete(s.results, runID)
	for i, id := range s.order {
		if id == runID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	metrics.UpdateStoredResults(len(s.results))
	return nil
}

// Count returns the number of retained results.
func (s *MemoryResultStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}
