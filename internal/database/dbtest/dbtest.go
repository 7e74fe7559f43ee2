// Package dbtest starts a disposable Postgres with the ledger schema applied.
package dbtest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/MrJamesThe3rd/caixa/internal/database"
)

// New runs a postgres container for the duration of t and returns a migrated connection.
func New(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("caixa_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "starting postgres container")

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminating postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.New(dsn, database.Pool{MaxOpenConns: 5})
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))

	return db
}

// InsertSession creates a session and returns its id. CLOSED sessions are closed now.
func InsertSession(t *testing.T, db *sql.DB, orgID, status, opening string) string {
	t.Helper()

	var id string

	closedAt := "NULL"
	if status == "CLOSED" {
		closedAt = "NOW()"
	}

	err := db.QueryRow(
		`INSERT INTO cash_sessions (organization_id, status, opening_amount, closed_at)
		 VALUES ($1, $2, $3, `+closedAt+`) RETURNING id`,
		orgID, status, opening,
	).Scan(&id)
	require.NoError(t, err)

	return id
}

func InsertUser(t *testing.T, db *sql.DB, email, fullName string) string {
	t.Helper()

	var id string

	err := db.QueryRow(
		`INSERT INTO users (email, full_name) VALUES ($1, NULLIF($2, '')) RETURNING id`,
		email, fullName,
	).Scan(&id)
	require.NoError(t, err)

	return id
}

func InsertProfile(t *testing.T, db *sql.DB, id, email, fullName string) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO profiles (id, email, full_name) VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))`,
		id, email, fullName,
	)
	require.NoError(t, err)
}
