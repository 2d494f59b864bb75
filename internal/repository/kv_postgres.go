package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"phonebook/internal/entity"
	"phonebook/pkg/metric"
	"phonebook/pkg/storage/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const (
	_backendPostgres = "postgres"
	_recordsTable    = "phonebook_records"
)

//go:embed migrations/*.sql
var _migrations embed.FS

var _ KeyValueStore = (*PostgresStore)(nil)

type PostgresStore struct {
	builder squirrel.StatementBuilderType
	exec    postgres.QueryExecuter
	ping    func(ctx context.Context) error
	metrics metric.Store
}

func NewPostgresStore(db *postgres.Postgres, metrics metric.Store) *PostgresStore {
	return &PostgresStore{
		builder: db.Builder,
		exec:    db.Pool,
		ping:    db.Ping,
		metrics: metrics,
	}
}

// Migrate applies the embedded schema files in name order. Every file is
// idempotent, so running it on each start is safe.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	const op = "repository.postgres.Migrate"

	names, err := fs.Glob(_migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("%s: list migrations: %w", op, err)
	}
	sort.Strings(names)

	for _, name := range names {
		body, err := _migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("%s: read %s: %w", op, name, err)
		}
		if _, err := s.exec.Exec(ctx, string(body)); err != nil {
			return fmt.Errorf("%s: apply %s: %w", op, name, err)
		}
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (_ []byte, err error) {
	const op = "repository.postgres.Get"
	defer func(start time.Time) { observe(s.metrics, _backendPostgres, _opGet, start, err) }(time.Now())

	sql, args, err := s.builder.Select("payload").
		From(_recordsTable).
		Where(squirrel.Eq{"phone": key}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	var payload []byte
	if err = s.exec.QueryRow(ctx, sql, args...).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}
	return payload, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) (err error) {
	const op = "repository.postgres.Set"
	defer func(start time.Time) { observe(s.metrics, _backendPostgres, _opSet, start, err) }(time.Now())

	sql, args, err := s.insert(key, value).
		Suffix("ON CONFLICT (phone) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: building query: %w", op, err)
	}

	if _, err = s.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}
	return nil
}

func (s *PostgresStore) SetIfAbsent(ctx context.Context, key string, value []byte) (_ bool, err error) {
	const op = "repository.postgres.SetIfAbsent"
	defer func(start time.Time) { observe(s.metrics, _backendPostgres, _opSetIfAbsent, start, err) }(time.Now())

	sql, args, err := s.insert(key, value).
		Suffix("ON CONFLICT (phone) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: building query: %w", op, err)
	}

	tag, err := s.exec.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("%s: exec: %w", op, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PostgresStore) SetIfPresent(ctx context.Context, key string, value []byte) (_ bool, err error) {
	const op = "repository.postgres.SetIfPresent"
	defer func(start time.Time) { observe(s.metrics, _backendPostgres, _opSetIfPresent, start, err) }(time.Now())

	sql, args, err := s.builder.Update(_recordsTable).
		Set("payload", string(value)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"phone": key}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: building query: %w", op, err)
	}

	tag, err := s.exec.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("%s: exec: %w", op, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) (_ int64, err error) {
	const op = "repository.postgres.Delete"
	defer func(start time.Time) { observe(s.metrics, _backendPostgres, _opDelete, start, err) }(time.Now())

	sql, args, err := s.builder.Delete(_recordsTable).
		Where(squirrel.Eq{"phone": key}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: building query: %w", op, err)
	}

	tag, err := s.exec.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: exec: %w", op, err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.ping(ctx); err != nil {
		return fmt.Errorf("repository.postgres.Ping: %w", err)
	}
	return nil
}

// JSONB accepts the payload as text; a []byte argument would be sent as bytea.
func (s *PostgresStore) insert(key string, value []byte) squirrel.InsertBuilder {
	return s.builder.Insert(_recordsTable).
		Columns("phone", "payload", "updated_at").
		Values(key, string(value), squirrel.Expr("now()"))
}
