package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/okian/talentmatch/internal/adapters/sqldb"
	"github.com/okian/talentmatch/internal/domain/model"
)

// MemoryRunLog keeps run records in process memory.
type MemoryRunLog struct {
	mu   sync.RWMutex
	runs map[string]model.RunRecord
}

var _ RunLog = (*MemoryRunLog)(nil)

// NewMemoryRunLog creates an empty run log.
func NewMemoryRunLog() *MemoryRunLog {
	return &MemoryRunLog{runs: make(map[string]model.RunRecord)}
}

// Append records rec once.
func (l *MemoryRunLog) Append(_ context.Context, rec model.RunRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.runs[rec.RunID]; ok {
		return fmt.Errorf("%w: %s", ErrRunExists, rec.RunID)
	}
	rec.BenchmarkIDs = append([]string(nil), rec.BenchmarkIDs...)
	l.runs[rec.RunID] = rec
	return nil
}

// Get returns a recorded run.
func (l *MemoryRunLog) Get(_ context.Context, runID string) (model.RunRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.runs[runID]
	if !ok {
		return model.RunRecord{}, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	rec.BenchmarkIDs = append([]string(nil), rec.BenchmarkIDs...)
	return rec, nil
}

const runLogSchema = `
CREATE TABLE IF NOT EXISTS talent_benchmarks (
	job_vacancy_id         TEXT PRIMARY KEY,
	role_name              TEXT NOT NULL,
	job_level              TEXT NOT NULL,
	purpose                TEXT NOT NULL DEFAULT '',
	benchmark_employee_ids TEXT NOT NULL,
	created_at             TIMESTAMP NOT NULL
)`

// SQLRunLog stores run records in the talent_benchmarks table. Rows are only
// ever inserted.
type SQLRunLog struct {
	db     *sql.DB
	driver string
}

var _ RunLog = (*SQLRunLog)(nil)

// NewSQLRunLog creates the talent_benchmarks table when missing.
func NewSQLRunLog(ctx context.Context, db *sql.DB, driver string) (*SQLRunLog, error) {
	if _, err := db.ExecContext(ctx, runLogSchema); err != nil {
		return nil, fmt.Errorf("ensure run log schema: %w", err)
	}
	return &SQLRunLog{db: db, driver: driver}, nil
}

// Append inserts rec inside a transaction, refusing duplicate run ids.
func (l *SQLRunLog) Append(ctx context.Context, rec model.RunRecord) error {
	ids, err := json.Marshal(rec.BenchmarkIDs)
	if err != nil {
		return fmt.Errorf("encode benchmark ids: %w", err)
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run log tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	q := sqldb.Rebind(l.driver, `SELECT COUNT(*) FROM talent_benchmarks WHERE job_vacancy_id = ?`)
	if err := tx.QueryRowContext(ctx, q, rec.RunID).Scan(&count); err != nil {
		return fmt.Errorf("check run %s: %w", rec.RunID, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ErrRunExists, rec.RunID)
	}

	q = sqldb.Rebind(l.driver, `
INSERT INTO talent_benchmarks (job_vacancy_id, role_name, job_level, purpose, benchmark_employee_ids, created_at)
VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, q, rec.RunID, rec.RoleName, rec.JobLevel, rec.Purpose, string(ids), rec.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("insert run %s: %w", rec.RunID, err)
	}
	return tx.Commit()
}

// Get reads a recorded run.
func (l *SQLRunLog) Get(ctx context.Context, runID string) (model.RunRecord, error) {
	q := sqldb.Rebind(l.driver, `
SELECT job_vacancy_id, role_name, job_level, purpose, benchmark_employee_ids, created_at
FROM talent_benchmarks WHERE job_vacancy_id = ?`)

	var (
		rec model.RunRecord
		ids string
	)
	err := l.db.QueryRowContext(ctx, q, runID).Scan(&rec.RunID, &rec.RoleName, &rec.JobLevel, &rec.Purpose, &ids, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RunRecord{}, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return model.RunRecord{}, fmt.Errorf("read run %s: %w", runID, err)
	}
	if err := json.Unmarshal([]byte(ids), &rec.BenchmarkIDs); err != nil {
		return model.RunRecord{}, fmt.Errorf("decode benchmark ids: %w", err)
	}
	return rec, nil
}
