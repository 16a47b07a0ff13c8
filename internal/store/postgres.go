package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const collectionsTable = "record_collections"

// PostgresBackend keeps one row per key in a JSONB table. Update locks the
// row with SELECT ... FOR UPDATE inside a transaction.
type PostgresBackend struct {
	drv *entsql.Driver
}

func NewPostgresBackend(drv *entsql.Driver) *PostgresBackend {
	return &PostgresBackend{drv: drv}
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.Postgres)
}

const createCollectionsTable = `CREATE TABLE IF NOT EXISTS ` + collectionsTable + ` (
	name varchar(191) NOT NULL PRIMARY KEY,
	data jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
)`

// Migrate creates the backing table when it does not exist yet.
func (p *PostgresBackend) Migrate(ctx context.Context) error {
	if err := p.drv.Exec(ctx, createCollectionsTable, []any{}, nil); err != nil {
		return fmt.Errorf("create %s: %w", collectionsTable, err)
	}
	return nil
}

func (p *PostgresBackend) Load(ctx context.Context, key string) ([]byte, error) {
	query, args := builder().Select("data").
		From(entsql.Table(collectionsTable)).
		Where(entsql.EQ("name", key)).
		Query()
	return p.selectData(ctx, p.drv, query, args)
}

func (p *PostgresBackend) Save(ctx context.Context, key string, data []byte) error {
	query, args := upsert(key, data)
	if err := p.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (p *PostgresBackend) Update(ctx context.Context, key string, fn UpdateFunc) (err error) {
	tx, err := p.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Make sure a row exists so FOR UPDATE has something to lock.
	query, args := builder().Insert(collectionsTable).
		Columns("name", "data", "updated_at").
		Values(key, "null", time.Now().UTC()).
		OnConflict(entsql.ConflictColumns("name"), entsql.DoNothing()).
		Query()
	if err = tx.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("reserve %s: %w", key, err)
	}

	query, args = builder().Select("data").
		From(entsql.Table(collectionsTable)).
		Where(entsql.EQ("name", key)).
		ForUpdate().
		Query()
	cur, err := p.selectData(ctx, tx, query, args)
	if err != nil {
		return err
	}

	next, err := fn(cur)
	if err != nil {
		return err
	}
	if next != nil {
		query, args = upsert(key, next)
		if err = tx.Exec(ctx, query, args, nil); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (p *PostgresBackend) Delete(ctx context.Context, key string) error {
	query, args := builder().Delete(collectionsTable).
		Where(entsql.EQ("name", key)).
		Query()
	if err := p.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (p *PostgresBackend) Ping(ctx context.Context) error {
	return p.drv.DB().PingContext(ctx)
}

func (p *PostgresBackend) Close() error {
	return p.drv.Close()
}

func (p *PostgresBackend) selectData(ctx context.Context, q dialect.ExecQuerier, query string, args []any) ([]byte, error) {
	rows := &entsql.Rows{}
	if err := q.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var data []byte
	if err := rows.Scan(&data); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if string(data) == "null" {
		return nil, nil
	}
	return data, rows.Err()
}

func upsert(key string, data []byte) (string, []any) {
	return builder().Insert(collectionsTable).
		Columns("name", "data", "updated_at").
		Values(key, string(data), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWithNewValues(),
		).
		Query()
}
