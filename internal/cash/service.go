package cash

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=cash
type Repository interface {
	GetSession(ctx context.Context, orgID, sessionID uuid.UUID) (*Session, error)

	CreateMovement(ctx context.Context, m *Movement) error
	GetMovement(ctx context.Context, orgID, id uuid.UUID) (*Movement, error)
	FindByReference(ctx context.Context, orgID, sessionID uuid.UUID, refType, refID string) ([]*Movement, error)
	ListMovements(ctx context.Context, filter ListFilter) ([]*Movement, error)

	SumBySession(ctx context.Context, orgID, sessionID uuid.UUID) ([]TypeTotal, error)
}

type Service struct {
	repo Repository
	loc  *time.Location
}

// NewService creates a ledger service. Date-only range bounds are read in
// loc; a nil loc means UTC.
func NewService(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{repo: repo, loc: loc}
}

// Reference pairs longer than these are rejected.
const (
	maxReferenceTypeLength = 64
	maxReferenceIDLength   = 128
)

type CreateParams struct {
	SessionID     uuid.UUID
	Type          MovementType
	Amount        float64
	Reason        string
	ReferenceType string
	ReferenceID   string

	// InvalidFields names optional fields the caller sent with a value that
	// could not be read as text. Create rejects the first one once the
	// session has been checked.
	InvalidFields []string
}

// CreateResult is the outcome of Create. Duplicate is set when a movement
// with the same reference pair already existed; Movement is then the
// existing row when it could be loaded.
type CreateResult struct {
	Movement  *Movement
	Duplicate bool
}

// Create records a movement in an open session. The session is checked
// before any other validation. Creating a movement whose reference pair is
// already recorded in the session is a successful no-op.
func (s *Service) Create(ctx context.Context, caller Caller, params CreateParams) (*CreateResult, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}

	if params.SessionID == uuid.Nil {
		return nil, MissingField("sessionId")
	}

	session, err := s.repo.GetSession(ctx, caller.OrganizationID, params.SessionID)
	if err != nil {
		return nil, err
	}

	if session.Status != SessionOpen {
		return nil, ErrSessionNotOpen
	}

	if params.Type == "" {
		return nil, MissingField("type")
	}

	movementType, err := ParseMovementType(string(params.Type))
	if err != nil {
		return nil, err
	}

	amount, err := ValidateAmount(movementType, params.Amount)
	if err != nil {
		return nil, err
	}

	if err := params.validateText(); err != nil {
		return nil, err
	}

	m := &Movement{
		OrganizationID: caller.OrganizationID,
		SessionID:      session.ID,
		Type:           movementType,
		Amount:         amount,
		Reason:         SanitizeReason(params.Reason),
		ReferenceType:  optionalString(params.ReferenceType),
		ReferenceID:    optionalString(params.ReferenceID),
		CreatedBy:      caller.UserID,
	}

	if m.HasReference() {
		existing, err := s.repo.FindByReference(ctx, caller.OrganizationID, m.SessionID, *m.ReferenceType, *m.ReferenceID)
		if err != nil {
			return nil, fmt.Errorf("checking existing movement: %w", err)
		}

		if len(existing) > 0 {
			return &CreateResult{Movement: existing[0], Duplicate: true}, nil
		}
	}

	if err := s.repo.CreateMovement(ctx, m); err != nil {
		// Lost the race against an identical request; the unique
		// constraint kept a single row.
		if errors.Is(err, ErrDuplicateMovement) {
			return &CreateResult{Duplicate: true}, nil
		}

		return nil, err
	}

	return &CreateResult{Movement: m}, nil
}

func (p CreateParams) validateText() error {
	if len(p.InvalidFields) > 0 {
		return InvalidField(p.InvalidFields[0])
	}

	if utf8.RuneCountInString(strings.TrimSpace(p.ReferenceType)) > maxReferenceTypeLength {
		return FieldTooLong("referenceType", maxReferenceTypeLength)
	}

	if utf8.RuneCountInString(strings.TrimSpace(p.ReferenceID)) > maxReferenceIDLength {
		return FieldTooLong("referenceId", maxReferenceIDLength)
	}

	return nil
}

// List returns the caller's movements matching q, most recent first. When
// the query names a session and an upper bound, the bound is clamped to the
// session's closing time.
func (s *Service) List(ctx context.Context, caller Caller, q ListQuery) ([]*Movement, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}

	filter, err := q.Filter(caller, s.loc)
	if err != nil {
		return nil, err
	}

	if filter.SessionID != nil && filter.To != nil {
		session, err := s.repo.GetSession(ctx, caller.OrganizationID, *filter.SessionID)

		switch {
		case errors.Is(err, ErrSessionNotFound):
			// Nothing to clamp against; the listing is empty anyway.
		case err != nil:
			return nil, fmt.Errorf("loading session: %w", err)
		default:
			filter.To = ClampToSession(filter.To, session)
		}
	}

	return s.repo.ListMovements(ctx, filter)
}

func (s *Service) Get(ctx context.Context, caller Caller, id uuid.UUID) (*Movement, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}

	return s.repo.GetMovement(ctx, caller.OrganizationID, id)
}
