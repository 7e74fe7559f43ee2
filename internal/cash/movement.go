package cash

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType is the kind of cash event recorded against a session.
type MovementType string

const (
	TypeIn         MovementType = "IN"
	TypeOut        MovementType = "OUT"
	TypeSale       MovementType = "SALE"
	TypeReturn     MovementType = "RETURN"
	TypeAdjustment MovementType = "ADJUSTMENT"
)

// MovementTypes lists every valid movement type in display order.
var MovementTypes = []MovementType{TypeIn, TypeOut, TypeSale, TypeReturn, TypeAdjustment}

// ParseMovementType returns the MovementType for s or ErrInvalidMovementType.
func ParseMovementType(s string) (MovementType, error) {
	for _, t := range MovementTypes {
		if string(t) == s {
			return t, nil
		}
	}

	return "", ErrInvalidMovementType
}

// SessionStatus represents the lifecycle state of a cash session.
type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// Session is a bounded period during which a drawer accepts movements.
// The ledger only reads sessions; opening and closing happen elsewhere.
type Session struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Status         SessionStatus
	OpeningAmount  decimal.Decimal
	OpenedAt       time.Time
	ClosedAt       *time.Time
}

// Movement is a single signed cash event within a session. It is immutable
// once stored.
type Movement struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	SessionID      uuid.UUID
	Type           MovementType
	Amount         decimal.Decimal // 2 decimal places
	Reason         *string
	ReferenceType  *string
	ReferenceID    *string
	CreatedBy      uuid.UUID
	CreatedAt      time.Time
}

// HasReference reports whether the movement carries a full reference pair.
func (m *Movement) HasReference() bool {
	return m.ReferenceType != nil && m.ReferenceID != nil
}

// Caller identifies who is acting and on behalf of which tenant. It is
// passed explicitly into every ledger operation.
type Caller struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
}

// Validate reports a missing tenant before a missing user.
func (c Caller) Validate() error {
	if c.OrganizationID == uuid.Nil {
		return ErrMissingOrganization
	}

	if c.UserID == uuid.Nil {
		return ErrUnauthenticated
	}

	return nil
}
