package store

import (
	"context"
	"errors"
	"testing"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockBackend(t *testing.T) (*PostgresBackend, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresBackend(entsql.OpenDB(dialect.Postgres, db)), mock
}

func TestPostgresBackend_Migrate(t *testing.T) {
	b, mock := newMockBackend(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS record_collections \(\s*name varchar\(191\) NOT NULL PRIMARY KEY`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, b.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_MigrateError(t *testing.T) {
	b, mock := newMockBackend(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS record_collections`).
		WillReturnError(errors.New("permission denied"))

	err := b.Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create record_collections")
}

func TestPostgresBackend_Load(t *testing.T) {
	b, mock := newMockBackend(t)

	mock.ExpectQuery(`SELECT "data" FROM "record_collections" WHERE "name" = \$1`).
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`[{"id":"u1"}]`)))

	data, err := b.Load(context.Background(), "users")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"u1"}]`, string(data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_LoadMissing(t *testing.T) {
	b, mock := newMockBackend(t)

	mock.ExpectQuery(`SELECT "data" FROM "record_collections"`).
		WithArgs("rooms").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	data, err := b.Load(context.Background(), "rooms")
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_UpdateCommits(t *testing.T) {
	b, mock := newMockBackend(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "record_collections" .* ON CONFLICT .* DO NOTHING`).
		WithArgs("appointments", "null", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT "data" FROM "record_collections" WHERE "name" = \$1 FOR UPDATE`).
		WithArgs("appointments").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`[]`)))
	mock.ExpectExec(`INSERT INTO "record_collections" .* ON CONFLICT .* DO UPDATE SET`).
		WithArgs("appointments", `[{"id":"a1"}]`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := b.Update(context.Background(), "appointments", func(cur []byte) ([]byte, error) {
		assert.Equal(t, `[]`, string(cur))
		return []byte(`[{"id":"a1"}]`), nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_UpdateRollsBackOnError(t *testing.T) {
	b, mock := newMockBackend(t)
	boom := errors.New("slot taken")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "record_collections"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("appointments").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`null`)))
	mock.ExpectRollback()

	err := b.Update(context.Background(), "appointments", func(cur []byte) ([]byte, error) {
		assert.Nil(t, cur)
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_Delete(t *testing.T) {
	b, mock := newMockBackend(t)

	mock.ExpectExec(`DELETE FROM "record_collections" WHERE "name" = \$1`).
		WithArgs("session:abc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, b.Delete(context.Background(), "session:abc"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
