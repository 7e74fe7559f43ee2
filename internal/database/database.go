package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const pingTimeout = 5 * time.Second

// Pool sizes the connection pool. Zero fields keep the defaults.
type Pool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

var defaultPool = Pool{
	MaxOpenConns:    25,
	MaxIdleConns:    5,
	ConnMaxLifetime: 5 * time.Minute,
}

func (p Pool) withDefaults() Pool {
	if p.MaxOpenConns <= 0 {
		p.MaxOpenConns = defaultPool.MaxOpenConns
	}

	if p.MaxIdleConns <= 0 {
		p.MaxIdleConns = defaultPool.MaxIdleConns
	}

	if p.ConnMaxLifetime <= 0 {
		p.ConnMaxLifetime = defaultPool.ConnMaxLifetime
	}

	return p
}

// New opens the ledger database through pgx and verifies it is reachable.
func New(connStr string, pool Pool) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := setup(db, pool); err != nil {
		return nil, err
	}

	return db, nil
}

// setup pings db and sizes its pool. db is closed when the ping fails.
func setup(db *sql.DB, pool Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()

		return fmt.Errorf("pinging database: %w", err)
	}

	pool = pool.withDefaults()

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	return nil
}
