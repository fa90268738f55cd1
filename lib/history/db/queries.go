package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type Run struct {
	ID          string
	StartedAt   int64
	SourceCount int64
	TargetCount int64
	Added       int64
	Removed     int64
	Failures    int64
	Success     bool
	DryRun      bool
}

const createRun = `insert into runs (
    id, started_at, source_count, target_count, added, removed, failures, success, dry_run
) values (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateRun(ctx context.Context, arg Run) error {
	_, err := q.db.ExecContext(ctx, createRun,
		arg.ID,
		arg.StartedAt,
		arg.SourceCount,
		arg.TargetCount,
		arg.Added,
		arg.Removed,
		arg.Failures,
		arg.Success,
		arg.DryRun,
	)
	return err
}

const runColumns = `id, started_at, source_count, target_count, added, removed, failures, success, dry_run`

func scanRun(row interface{ Scan(...any) error }) (Run, error) {
	var r Run
	err := row.Scan(
		&r.ID,
		&r.StartedAt,
		&r.SourceCount,
		&r.TargetCount,
		&r.Added,
		&r.Removed,
		&r.Failures,
		&r.Success,
		&r.DryRun,
	)
	return r, err
}

const getLatestSuccessfulRun = `select ` + runColumns + ` from runs
where success = 1 and dry_run = 0
order by started_at desc
limit 1`

func (q *Queries) GetLatestSuccessfulRun(ctx context.Context) (Run, error) {
	return scanRun(q.db.QueryRowContext(ctx, getLatestSuccessfulRun))
}

const listRuns = `select ` + runColumns + ` from runs
order by started_at desc
limit ?`

func (q *Queries) ListRuns(ctx context.Context, limit int64) ([]Run, error) {
	rows, err := q.db.QueryContext(ctx, listRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
