package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/okian/talentmatch/internal/adapters/repository"
	"github.com/okian/talentmatch/internal/adapters/source"
	"github.com/okian/talentmatch/internal/domain/aggregate"
	"github.com/okian/talentmatch/internal/domain/benchmark"
	"github.com/okian/talentmatch/internal/domain/model"
	"github.com/okian/talentmatch/internal/domain/scoring"
	"github.com/okian/talentmatch/internal/domain/types"
	"github.com/okian/talentmatch/pkg/logger"
	"github.com/okian/talentmatch/pkg/metrics"
)

// RunAnalysis fetches the source data, resolves the cohort baseline, scores
// every rostered employee and ranks them. The result is logged to the run log
// and published to the result store before it is returned.
func (s *Service) RunAnalysis(ctx context.Context, req model.AnalysisRequest) (types.AnalysisResult, error) {
	if !s.isStarted() {
		return types.AnalysisResult{}, ErrNotStarted
	}

	start := time.Now()
	runID := s.newID()
	ctx, span := startSpan(ctx, "Service.RunAnalysis",
		attribute.String("run.id", runID),
		attribute.String("role.name", req.RoleName),
		attribute.String("job.level", req.JobLevel),
	)

	res, err := s.runAnalysis(ctx, runID, req)
	endSpan(span, err)

	elapsed := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		s.failures.Add(1)
		metrics.RecordAnalysisRun(metrics.StatusFailure, elapsed)
		metrics.RecordAnalysisError(errorKind(err))
		s.logger.Warn(ctx, "analysis failed",
			logger.String("run_id", runID),
			logger.Error(err),
		)
		return types.AnalysisResult{}, err
	}

	s.runs.Add(1)
	metrics.RecordAnalysisRun(metrics.StatusSuccess, elapsed)
	metrics.UpdateLeaderboardSize(len(res.Leaderboard))
	if res.BaselineIQ.Valid {
		metrics.UpdateBaselineIQ(res.BaselineIQ.Value)
	}
	s.logger.Info(ctx, "analysis completed",
		logger.String("run_id", runID),
		logger.String("role_name", req.RoleName),
		logger.Int("employees", len(res.Leaderboard)),
		logger.Float64("duration_ms", elapsed),
	)
	return res, nil
}

func (s *Service) runAnalysis(ctx context.Context, runID string, req model.AnalysisRequest) (types.AnalysisResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return types.AnalysisResult{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	cohort := benchmark.Members(req.Benchmark)
	if len(cohort) == 0 {
		return types.AnalysisResult{}, benchmark.ErrEmptyCohort
	}

	raw, err := s.fetch(ctx)
	if err != nil {
		return types.AnalysisResult{}, err
	}

	ds, ok := buildDataset(raw, s.rosterFallback)
	if !ok {
		return types.AnalysisResult{}, source.ErrEmptyResult
	}
	var unknown []string
	for _, id := range cohort {
		if _, ok := ds.roster[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return types.AnalysisResult{}, &UnknownCohortError{EmployeeIDs: unknown}
	}

	median, err := benchmark.NewResolver(raw.profiles).Resolve(cohort, benchmark.MetricIQ)
	if err != nil {
		return types.AnalysisResult{}, err
	}
	baseline := scoring.Match(median)

	rows, err := s.score(ctx, ds.inputs, baseline)
	if err != nil {
		return types.AnalysisResult{}, err
	}

	_, board := aggregate.Aggregate(rows, ds.identities)
	createdAt := s.now().UTC()
	res := types.AnalysisResult{
		RunID:       runID,
		RoleName:    req.RoleName,
		JobLevel:    req.JobLevel,
		Purpose:     req.Purpose,
		Benchmark:   cohort,
		BaselineIQ:  baseline,
		DomainRows:  rows,
		Leaderboard: board,
		Summary:     aggregate.Summarize(rows),
		CreatedAt:   createdAt,
	}

	rec := model.RunRecord{
		RunID:        runID,
		RoleName:     req.RoleName,
		JobLevel:     req.JobLevel,
		Purpose:      req.Purpose,
		BenchmarkIDs: cohort,
		CreatedAt:    createdAt,
	}
	// The run log is write-once: append last, and withdraw the result if the
	// append fails.
	if err := s.store.Put(ctx, res); err != nil {
		return types.AnalysisResult{}, fmt.Errorf("publish result: %w", err)
	}
	if err := s.runLog.Append(ctx, rec); err != nil {
		if derr := s.store.Delete(context.WithoutCancel(ctx), runID); derr != nil {
			s.logger.Error(ctx, "withdraw result failed", logger.String("run_id", runID), logger.Error(derr))
		}
		return types.AnalysisResult{}, fmt.Errorf("append run record: %w", err)
	}
	return res, nil
}

// fetch reads the five datasets concurrently under the fetch timeout. The
// first failure cancels the remaining fetches.
func (s *Service) fetch(ctx context.Context) (raw rawData, err error) {
	ctx, span := startSpan(ctx, "Service.fetch")
	defer func() { endSpan(span, err) }()

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		raw.employees, err = s.source.FetchEmployees(gctx)
		return source.Wrap(source.DatasetEmployees, err)
	})
	g.Go(func() (err error) {
		raw.profiles, err = s.source.FetchPsychProfiles(gctx)
		return source.Wrap(source.DatasetPsychProfiles, err)
	})
	g.Go(func() (err error) {
		raw.competencies, err = s.source.FetchCompetencyRecords(gctx)
		return source.Wrap(source.DatasetCompetencies, err)
	})
	g.Go(func() (err error) {
		raw.strengths, err = s.source.FetchStrengths(gctx)
		return source.Wrap(source.DatasetStrengths, err)
	})
	g.Go(func() (err error) {
		raw.education, err = s.source.FetchEducationContext(gctx)
		return source.Wrap(source.DatasetEducationContext, err)
	})
	if err := g.Wait(); err != nil {
		return rawData{}, err
	}

	span.SetAttributes(
		attribute.Int("rows.employees", len(raw.employees)),
		attribute.Int("rows.competencies", len(raw.competencies)),
	)
	return raw, nil
}

// score runs the domain scorers for every input on at most workerCount
// goroutines. Rows come back in input order.
func (s *Service) score(ctx context.Context, inputs []scoring.Input, baseline scoring.Rate) (rows []scoring.DomainScore, err error) {
	ctx, span := startSpan(ctx, "Service.score", attribute.Int("employees", len(inputs)))
	defer func() { endSpan(span, err) }()

	slots := make([][]scoring.DomainScore, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workerCount)
	for i := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = scoring.Score(inputs[i], baseline)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, slot := range slots {
		for _, r := range slot {
			if r.DomainRate.IsNull() {
				metrics.RecordNullMatch(r.DomainName)
			}
			rows = append(rows, r)
		}
	}
	return rows, nil
}

// errorKind labels err for the analysis error counter.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrUnknownCohortMember):
		return "unknown_cohort_member"
	case errors.Is(err, benchmark.ErrEmptyCohort):
		return "empty_cohort"
	case errors.Is(err, benchmark.ErrMissingProfile):
		return "missing_profile"
	case errors.Is(err, source.ErrEmptyResult):
		return "empty_result"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	case errors.Is(err, source.ErrDataSource):
		return "data_source"
	case errors.Is(err, repository.ErrRunExists):
		return "run_exists"
	default:
		return "internal"
	}
}
