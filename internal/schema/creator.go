// Package schema creates the hhvac database and its tables.
package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// MaintenanceDB is the database the creator connects to when the target
// database may not exist yet.
const MaintenanceDB = "postgres"

const createEmployers = `
CREATE TABLE IF NOT EXISTS employers (
    id VARCHAR(20) PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    url VARCHAR(100),
    open_vacancies INTEGER
)`

const createVacancies = `
CREATE TABLE IF NOT EXISTS vacancies (
    id VARCHAR(20) PRIMARY KEY,
    employer_id VARCHAR(20) REFERENCES employers(id),
    title VARCHAR(100) NOT NULL,
    salary_from INTEGER,
    salary_to INTEGER,
    currency VARCHAR(10),
    url VARCHAR(100),
    description TEXT,
    city VARCHAR(50)
)`

// DSNFunc returns a connection string for the named database.
type DSNFunc func(dbname string) string

type Creator struct {
	dsn    DSNFunc
	logger zerolog.Logger
}

func NewCreator(dsn DSNFunc, logger zerolog.Logger) *Creator {
	return &Creator{dsn: dsn, logger: logger}
}

// CreateDatabase creates name unless pg_database already lists it. pgx
// sends the statement outside of a transaction block, which CREATE
// DATABASE requires.
func (c *Creator) CreateDatabase(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, errors.New("create database: name is required")
	}

	conn, err := pgx.Connect(ctx, c.dsn(MaintenanceDB))
	if err != nil {
		return false, fmt.Errorf("create database %q: connect: %w", name, err)
	}
	defer conn.Close(context.Background())

	var exists int
	err = conn.QueryRow(ctx, `SELECT 1 FROM pg_catalog.pg_database WHERE datname = $1`, name).Scan(&exists)
	switch {
	case err == nil:
		c.logger.Info().Str("database", name).Msg("database already exists")
		return false, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return false, fmt.Errorf("create database %q: lookup: %w", name, err)
	}

	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize()); err != nil {
		return false, fmt.Errorf("create database %q: %w", name, err)
	}
	c.logger.Info().Str("database", name).Msg("database created")
	return true, nil
}

// CreateTables creates the employers and vacancies tables in name.
func (c *Creator) CreateTables(ctx context.Context, name string) error {
	conn, err := pgx.Connect(ctx, c.dsn(name))
	if err != nil {
		return fmt.Errorf("create tables in %q: connect: %w", name, err)
	}
	defer conn.Close(context.Background())

	for _, stmt := range []string{createEmployers, createVacancies} {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create tables in %q: %w", name, err)
		}
	}
	c.logger.Info().Str("database", name).Msg("tables ready")
	return nil
}

// Setup runs CreateDatabase followed by CreateTables.
func (c *Creator) Setup(ctx context.Context, name string) error {
	if _, err := c.CreateDatabase(ctx, name); err != nil {
		return err
	}
	return c.CreateTables(ctx, name)
}
