package database

import (
	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/Alijeyrad/stgeorge_backend/config"
)

// OpenDriver opens a pooled postgres connection wrapped in an ent SQL driver.
// The record store builds its statements with the driver's dialect builder.
func OpenDriver(cfg config.DatabaseConfig) (*entsql.Driver, error) {
	return OpenDriverFromConfig(FromCentralConfig(cfg))
}

func OpenDriverFromConfig(cfg Config) (*entsql.Driver, error) {
	db, err := openSQLDB(cfg)
	if err != nil {
		return nil, err
	}
	return entsql.OpenDB(dialect.Postgres, db), nil
}
