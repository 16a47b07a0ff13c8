package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDatabaseIfNotExists(t *testing.T) {
	t.Run("skips existing database", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT EXISTS`).WithArgs("stgeorge").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		require.NoError(t, createDatabaseIfNotExists(db, "stgeorge"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("creates missing database with quoted name", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT EXISTS`).WithArgs("st-george").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(`CREATE DATABASE "st-george"`).WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, createDatabaseIfNotExists(db, "st-george"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConfigDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.User, cfg.Password, cfg.DBName = "postgres", "secret", "stgeorge"
	assert.Equal(t, "host=localhost port=5432 user=postgres password=secret dbname=stgeorge sslmode=disable", cfg.DSN())
	assert.Equal(t, "5m0s", cfg.ConnMaxLifetime().String())
}
