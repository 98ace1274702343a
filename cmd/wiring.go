package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/okian/talentmatch/internal/adapters/repository"
	"github.com/okian/talentmatch/internal/adapters/source"
	"github.com/okian/talentmatch/internal/adapters/source/sqlsource"
	"github.com/okian/talentmatch/internal/adapters/source/yamlsource"
	"github.com/okian/talentmatch/internal/adapters/sqldb"
	app "github.com/okian/talentmatch/internal/app"
	"github.com/okian/talentmatch/internal/config"
	"github.com/okian/talentmatch/pkg/logger"
)

// components are the wired collaborators of one process.
type components struct {
	svc *app.Service
	db  *sql.DB
}

// Close stops the service and releases the database handle, if any.
func (c *components) Close() error {
	c.svc.Stop()
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// buildComponents opens the configured data source and run log and starts
// the service over them.
func buildComponents(ctx context.Context, cfg *config.Config, log logger.Logger) (*components, error) {
	var (
		src    source.Source
		runLog repository.RunLog
		db     *sql.DB
	)

	switch cfg.SourceDriver {
	case config.DriverYAML:
		snap, err := yamlsource.Load(cfg.SnapshotPath)
		if err != nil {
			return nil, err
		}
		src = snap
		runLog = repository.NewMemoryRunLog()
		log.Info(ctx, "using snapshot source", logger.String("path", cfg.SnapshotPath))

	case config.DriverSQLite, config.DriverPostgres:
		var err error
		db, err = sqldb.Open(ctx, cfg.SourceDriver, cfg.SourceDSN)
		if err != nil {
			return nil, err
		}
		if cfg.SourceDriver == config.DriverSQLite {
			if err := sqlsource.EnsureSchema(ctx, db); err != nil {
				return nil, errors.Join(err, db.Close())
			}
		}
		sqlLog, err := repository.NewSQLRunLog(ctx, db, cfg.SourceDriver)
		if err != nil {
			return nil, errors.Join(err, db.Close())
		}
		src = sqlsource.New(db, sqlsource.WithLogger(log.Named("sqlsource")))
		runLog = sqlLog
		log.Info(ctx, "using sql source", logger.String("driver", cfg.SourceDriver))

	default:
		return nil, fmt.Errorf("%w: source_driver %q", config.ErrInvalidConfig, cfg.SourceDriver)
	}

	svc := app.New(
		app.WithSource(src),
		app.WithRunLog(runLog),
		app.WithLogger(log),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithFetchTimeout(cfg.FetchTimeout()),
		app.WithResultRetention(cfg.ResultRetention),
		app.WithRosterFallback(cfg.RosterFallback),
	)
	if err := svc.Start(ctx); err != nil {
		if db != nil {
			err = errors.Join(err, db.Close())
		}
		return nil, fmt.Errorf("start service: %w", err)
	}
	return &components{svc: svc, db: db}, nil
}
