package pgtable

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/Artexxx/HR-Employees-CSV/internal/dataset"
)

type PgxPoolIface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store keeps the dataset in two tables: the header in employees_columns and
// the rows, as text arrays in header order, in employees_rows. Save replaces
// both inside one transaction.
type Store struct {
	pool PgxPoolIface
	log  zerolog.Logger
}

func NewStore(pool PgxPoolIface, log zerolog.Logger) *Store {
	return &Store{
		pool: pool,
		log:  log.With().Str("component", "pgStore").Logger(),
	}
}

// Migrate creates the backing tables if they are missing and seeds the header
// with columns when none is stored yet, so a fresh database loads as an empty
// dataset instead of failing.
func (s *Store) Migrate(ctx context.Context, columns ...string) error {
	query := `
create table if not exists employees_columns (
  position int  primary key,
  name     text not null
);
create table if not exists employees_rows (
  position int    primary key,
  cells    text[] not null
);
`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}

	if len(columns) == 0 {
		return nil
	}

	positions := make([]int32, len(columns))
	for i := range columns {
		positions[i] = int32(i)
	}

	seed := `
insert into employees_columns (position, name)
select * from unnest($1::int[], $2::text[])
where not exists (select 1 from employees_columns);
`
	tag, err := s.pool.Exec(ctx, seed, positions, columns)
	if err != nil {
		return fmt.Errorf("pool.Exec seed header: %w", err)
	}

	if tag.RowsAffected() > 0 {
		s.log.Info().Strs("columns", columns).Msg("dataset header seeded")
	}

	return nil
}

func (s *Store) Load(ctx context.Context) (*dataset.Table, error) {
	columns, err := s.columns(ctx)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, dataset.ErrNoHeader
	}

	query := `select cells from employees_rows order by position`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	table := dataset.New(columns...)
	for rows.Next() {
		var cells []string
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		if err := table.AddRow(cells...); err != nil {
			return nil, fmt.Errorf("employees_rows: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return table, nil
}

func (s *Store) columns(ctx context.Context) ([]string, error) {
	query := `select name from employees_columns order by position`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}

	return names, nil
}

func (s *Store) Save(ctx context.Context, table *dataset.Table) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pool.Begin: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			err = errors.Join(err, fmt.Errorf("tx.Rollback: %w", rbErr))
		}
	}()

	if _, err = tx.Exec(ctx, `delete from employees_rows`); err != nil {
		return fmt.Errorf("tx.Exec delete rows: %w", err)
	}
	if _, err = tx.Exec(ctx, `delete from employees_columns`); err != nil {
		return fmt.Errorf("tx.Exec delete columns: %w", err)
	}

	columns := table.Columns()
	columnRows := make([][]any, 0, len(columns))
	for i, name := range columns {
		columnRows = append(columnRows, []any{i, name})
	}

	if _, err = tx.CopyFrom(ctx, pgx.Identifier{"employees_columns"}, []string{"position", "name"}, pgx.CopyFromRows(columnRows)); err != nil {
		return fmt.Errorf("tx.CopyFrom employees_columns: %w", err)
	}

	cells := table.Rows()
	dataRows := make([][]any, 0, len(cells))
	for i, row := range cells {
		dataRows = append(dataRows, []any{i, row})
	}

	if _, err = tx.CopyFrom(ctx, pgx.Identifier{"employees_rows"}, []string{"position", "cells"}, pgx.CopyFromRows(dataRows)); err != nil {
		return fmt.Errorf("tx.CopyFrom employees_rows: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}

	s.log.Debug().Int("rows", table.Len()).Msg("dataset saved")

	return nil
}
