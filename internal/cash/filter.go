package cash

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListQuery holds the raw, optional filter values of a movement listing as
// received from a client. An empty field means no constraint.
type ListQuery struct {
	SessionID     string
	Type          string
	From          string
	To            string
	Search        string
	AmountMin     string
	AmountMax     string
	ReferenceType string
	ReferenceID   string
	CreatedByMe   bool
}

// ListFilter is the typed filter handed to the repository. All set fields
// are ANDed; OrganizationID is always applied.
type ListFilter struct {
	OrganizationID uuid.UUID
	SessionID      *uuid.UUID
	Type           *MovementType
	ReferenceType  *string
	ReferenceID    *string
	CreatedBy      *uuid.UUID
	From           *time.Time
	To             *time.Time
	AmountMin      *decimal.Decimal
	AmountMax      *decimal.Decimal
	Search         *string
}

// Filter validates q and converts it into a ListFilter scoped to the
// caller. Non-numeric amount bounds are ignored.
func (q ListQuery) Filter(caller Caller, loc *time.Location) (ListFilter, error) {
	filter := ListFilter{OrganizationID: caller.OrganizationID}

	if s := strings.TrimSpace(q.SessionID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return ListFilter{}, InvalidIdentifier("sessionId")
		}

		filter.SessionID = &id
	}

	if s := strings.TrimSpace(q.Type); s != "" {
		t, err := ParseMovementType(strings.ToUpper(s))
		if err != nil {
			return ListFilter{}, err
		}

		filter.Type = &t
	}

	from, err := ParseBound(q.From, false, loc)
	if err != nil {
		return ListFilter{}, err
	}

	to, err := ParseBound(q.To, true, loc)
	if err != nil {
		return ListFilter{}, err
	}

	filter.From = from
	filter.To = to

	filter.AmountMin = parseAmountBound(q.AmountMin)
	filter.AmountMax = parseAmountBound(q.AmountMax)

	filter.Search = optionalString(q.Search)
	filter.ReferenceType = optionalString(q.ReferenceType)
	filter.ReferenceID = optionalString(q.ReferenceID)

	if q.CreatedByMe {
		filter.CreatedBy = &caller.UserID
	}

	return filter, nil
}

func parseAmountBound(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}

	return &d
}
