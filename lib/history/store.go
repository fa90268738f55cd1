package history

import (
	"context"
	"database/sql"
	"dirsync/lib/history/db"
	"errors"
	"time"
)

// Run is the summary of one sync run.
type Run struct {
	Id          string
	StartedAt   time.Time
	SourceCount int
	TargetCount int
	Added       int
	Removed     int
	Failures    int
	Success     bool
	DryRun      bool
}

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

// Migrate creates the tables the store needs when they don't exist yet.
func (s Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, db.Schema)
	return err
}

func (s Store) Record(ctx context.Context, run Run) error {
	return s.qry.CreateRun(ctx, db.Run{
		ID:          run.Id,
		StartedAt:   run.StartedAt.Unix(),
		SourceCount: int64(run.SourceCount),
		TargetCount: int64(run.TargetCount),
		Added:       int64(run.Added),
		Removed:     int64(run.Removed),
		Failures:    int64(run.Failures),
		Success:     run.Success,
		DryRun:      run.DryRun,
	})
}

func fromRow(r db.Run) Run {
	return Run{
		Id:          r.ID,
		StartedAt:   time.Unix(r.StartedAt, 0),
		SourceCount: int(r.SourceCount),
		TargetCount: int(r.TargetCount),
		Added:       int(r.Added),
		Removed:     int(r.Removed),
		Failures:    int(r.Failures),
		Success:     r.Success,
		DryRun:      r.DryRun,
	}
}

// LatestSuccessful returns the most recent successful run that wasn't a dry run.
func (s Store) LatestSuccessful(ctx context.Context) (Run, bool, error) {
	row, err := s.qry.GetLatestSuccessfulRun(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, err
	}
	return fromRow(row), true, nil
}

// List returns up to `limit` runs, newest first.
func (s Store) List(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.qry.ListRuns(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	runs := make([]Run, len(rows))
	for i, r := range rows {
		runs[i] = fromRow(r)
	}
	return runs, nil
}
