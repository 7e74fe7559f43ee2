package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/caixa/internal/user"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindProfiles(ctx context.Context, ids []uuid.UUID) ([]*user.User, error) {
	return s.find(ctx, "profiles", ids)
}

func (s *Store) FindUsers(ctx context.Context, ids []uuid.UUID) ([]*user.User, error) {
	return s.find(ctx, "users", ids)
}

// find reads id, name and email from table for the given ids. table is
// always one of the two constants above, never user input.
func (s *Store) find(ctx context.Context, table string, ids []uuid.UUID) ([]*user.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))

	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, COALESCE(full_name, ''), COALESCE(email, '')
		FROM %s
		WHERE id IN (%s)
	`, table, strings.Join(placeholders, ", "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	var users []*user.User

	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}

		users = append(users, &u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", table, err)
	}

	return users, nil
}
