package cash

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TypeTotal is the aggregate of one movement type within a session.
type TypeTotal struct {
	Type  MovementType
	Total decimal.Decimal
	Count int
}

// SessionSummary reports the drawer position of a session.
type SessionSummary struct {
	Session *Session
	Totals  []TypeTotal // one entry per movement type, in MovementTypes order
	Net     decimal.Decimal
	// Expected is the cash the drawer should hold: opening amount plus net.
	Expected decimal.Decimal
	Count    int
}

func (s *Service) Summarize(ctx context.Context, caller Caller, sessionID uuid.UUID) (*SessionSummary, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}

	session, err := s.repo.GetSession(ctx, caller.OrganizationID, sessionID)
	if err != nil {
		return nil, err
	}

	totals, err := s.repo.SumBySession(ctx, caller.OrganizationID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("summing movements: %w", err)
	}

	byType := make(map[MovementType]TypeTotal, len(totals))
	for _, t := range totals {
		byType[t.Type] = t
	}

	summary := &SessionSummary{
		Session: session,
		Totals:  make([]TypeTotal, 0, len(MovementTypes)),
		Net:     decimal.Zero,
	}

	for _, mt := range MovementTypes {
		t, ok := byType[mt]
		if !ok {
			t = TypeTotal{Type: mt, Total: decimal.Zero}
		}

		summary.Totals = append(summary.Totals, t)
		summary.Count += t.Count
		summary.Net = summary.Net.Add(signedTotal(t))
	}

	summary.Expected = session.OpeningAmount.Add(summary.Net)

	return summary, nil
}

// signedTotal returns the effect of t on the drawer. OUT is stored
// positive but removes cash; RETURN and ADJUSTMENT carry their own sign.
func signedTotal(t TypeTotal) decimal.Decimal {
	if t.Type == TypeOut {
		return t.Total.Neg()
	}

	return t.Total
}
