// Package repository holds analysis results for display and the append-only
// log of analysis runs.
package repository

import (
	"context"

	"github.com/okian/talentmatch/internal/domain/model"
	"github.com/okian/talentmatch/internal/domain/types"
)

// ResultStore is the sink analysis results are published to.
type ResultStore interface {
	// Put stores a result. Returns ErrRunExists when the run id is taken.
	Put(ctx context.Context, r types.AnalysisResult) error

	// Get returns the stored result for runID or ErrNotFound.
	Get(ctx context.Context, runID string) (types.AnalysisResult, error)

	// TopN returns the first n leaderboard entries of a run.
	TopN(ctx context.Context, runID string, n int) ([]types.Entry, error)

	// Rank returns one employee's leaderboard entry within a run.
	Rank(ctx context.Context, runID, employeeID string) (types.Entry, error)

	// Delete withdraws a result. Deleting an unknown run is a no-op.
	Delete(ctx context.Context, runID string) error

	// Count returns the number of results currently held.
	Count(ctx context.Context) int
}

// RunLog persists one write-once record per analysis run.
type RunLog interface {
	// Append records a run. Returns ErrRunExists for a duplicate id.
	Append(ctx context.Context, rec model.RunRecord) error

	// Get returns a recorded run or ErrNotFound.
	Get(ctx context.Context, runID string) (model.RunRecord, error)
}
