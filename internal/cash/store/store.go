package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/caixa/internal/cash"
)

// Postgres error codes the ledger reacts to.
const (
	codeUniqueViolation       = "23505"
	codeInsufficientPrivilege = "42501"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectMovementColumns = `
	m.id, m.organization_id, m.session_id, m.type, m.amount, m.reason,
	m.reference_type, m.reference_id, m.created_by, m.created_at
`

// scanMovement reads a movement row in selectMovementColumns order.
func scanMovement(s scanner) (*cash.Movement, error) {
	var m cash.Movement

	var typeStr string

	if err := s.Scan(
		&m.ID, &m.OrganizationID, &m.SessionID, &typeStr, &m.Amount, &m.Reason,
		&m.ReferenceType, &m.ReferenceID, &m.CreatedBy, &m.CreatedAt,
	); err != nil {
		return nil, err
	}

	m.Type = cash.MovementType(typeStr)

	return &m, nil
}

// mapError translates driver errors into ledger errors. Policy rejections
// keep the database message for diagnostics.
func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w", op, cash.ErrDuplicateMovement)
		case codeInsufficientPrivilege:
			return fmt.Errorf("%w: %s", cash.ErrAuthorizationDenied, pgErr.Message)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

func (s *Store) GetSession(ctx context.Context, orgID, sessionID uuid.UUID) (*cash.Session, error) {
	query := `
		SELECT id, organization_id, status, opening_amount, opened_at, closed_at
		FROM cash_sessions
		WHERE id = $1 AND organization_id = $2
	`

	var (
		session   cash.Session
		statusStr string
	)

	err := s.db.QueryRowContext(ctx, query, sessionID, orgID).Scan(
		&session.ID, &session.OrganizationID, &statusStr, &session.OpeningAmount,
		&session.OpenedAt, &session.ClosedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cash.ErrSessionNotFound
		}

		return nil, mapError("getting session", err)
	}

	session.Status = cash.SessionStatus(statusStr)

	return &session, nil
}

func (s *Store) CreateMovement(ctx context.Context, m *cash.Movement) error {
	query := `
		INSERT INTO cash_movements (
			organization_id, session_id, type, amount, reason,
			reference_type, reference_id, created_by, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		m.OrganizationID,
		m.SessionID,
		m.Type,
		m.Amount,
		m.Reason,
		m.ReferenceType,
		m.ReferenceID,
		m.CreatedBy,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return mapError("creating movement", err)
	}

	return nil
}

func (s *Store) GetMovement(ctx context.Context, orgID, id uuid.UUID) (*cash.Movement, error) {
	query := `SELECT ` + selectMovementColumns + `
		FROM cash_movements m
		WHERE m.id = $1 AND m.organization_id = $2`

	m, err := scanMovement(s.db.QueryRowContext(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cash.ErrMovementNotFound
		}

		return nil, mapError("getting movement", err)
	}

	return m, nil
}

func (s *Store) FindByReference(ctx context.Context, orgID, sessionID uuid.UUID, refType, refID string) ([]*cash.Movement, error) {
	query := `SELECT ` + selectMovementColumns + `
		FROM cash_movements m
		WHERE m.organization_id = $1
			AND m.session_id = $2
			AND m.reference_type = $3
			AND m.reference_id = $4
		ORDER BY m.created_at ASC`

	return s.queryMovements(ctx, "finding movement by reference", query, orgID, sessionID, refType, refID)
}

func (s *Store) ListMovements(ctx context.Context, filter cash.ListFilter) ([]*cash.Movement, error) {
	query, args := buildListQuery(filter)

	return s.queryMovements(ctx, "listing movements", query, args...)
}

// buildListQuery composes the listing statement. Every set filter adds one
// AND clause; the tenant clause is always present.
func buildListQuery(filter cash.ListFilter) (string, []any) {
	query := `SELECT ` + selectMovementColumns + `
		FROM cash_movements m
		WHERE m.organization_id = $1`

	args := []any{filter.OrganizationID}

	add := func(clause string, arg any) {
		args = append(args, arg)
		query += fmt.Sprintf(" AND "+clause, len(args))
	}

	if filter.SessionID != nil {
		add("m.session_id = $%d", *filter.SessionID)
	}

	if filter.Type != nil {
		add("m.type = $%d", string(*filter.Type))
	}

	if filter.ReferenceType != nil {
		add("m.reference_type = $%d", *filter.ReferenceType)
	}

	if filter.ReferenceID != nil {
		add("m.reference_id = $%d", *filter.ReferenceID)
	}

	if filter.CreatedBy != nil {
		add("m.created_by = $%d", *filter.CreatedBy)
	}

	if filter.From != nil {
		add("m.created_at >= $%d", *filter.From)
	}

	if filter.To != nil {
		add("m.created_at <= $%d", *filter.To)
	}

	if filter.AmountMin != nil {
		add("m.amount >= $%d", *filter.AmountMin)
	}

	if filter.AmountMax != nil {
		add("m.amount <= $%d", *filter.AmountMax)
	}

	if filter.Search != nil {
		add(`m.reason ILIKE '%%' || $%d || '%%' ESCAPE '\'`, escapeLike(*filter.Search))
	}

	query += " ORDER BY m.created_at DESC, m.id DESC"

	return query, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (s *Store) queryMovements(ctx context.Context, op, query string, args ...any) ([]*cash.Movement, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	var movements []*cash.Movement

	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning movement: %w", err)
		}

		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}

	return movements, nil
}

func (s *Store) SumBySession(ctx context.Context, orgID, sessionID uuid.UUID) ([]cash.TypeTotal, error) {
	query := `
		SELECT type, COALESCE(SUM(amount), 0), COUNT(*)
		FROM cash_movements
		WHERE organization_id = $1 AND session_id = $2
		GROUP BY type
	`

	rows, err := s.db.QueryContext(ctx, query, orgID, sessionID)
	if err != nil {
		return nil, mapError("summing movements", err)
	}
	defer rows.Close()

	var totals []cash.TypeTotal

	for rows.Next() {
		var (
			t       cash.TypeTotal
			typeStr string
		)

		if err := rows.Scan(&typeStr, &t.Total, &t.Count); err != nil {
			return nil, fmt.Errorf("scanning total: %w", err)
		}

		t.Type = cash.MovementType(typeStr)
		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError("summing movements", err)
	}

	return totals, nil
}
