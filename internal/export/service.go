package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/MrJamesThe3rd/caixa/internal/cash"
)

var header = []string{
	"id", "session_id", "type", "amount", "reason",
	"reference_type", "reference_id", "created_by", "created_at",
}

// Service exports ledger movements as CSV.
type Service struct {
	movements *cash.Service
}

func NewService(movements *cash.Service) *Service {
	return &Service{movements: movements}
}

// Movements lists what an export of q would contain. It runs the same
// validation as a listing, so callers can report errors before writing.
func (s *Service) Movements(ctx context.Context, caller cash.Caller, q cash.ListQuery) ([]*cash.Movement, error) {
	movements, err := s.movements.List(ctx, caller, q)
	if err != nil {
		return nil, fmt.Errorf("listing movements: %w", err)
	}

	return movements, nil
}

// WriteCSV writes movements with a header row. Amounts keep two decimals
// and timestamps are RFC 3339 in UTC.
func (s *Service) WriteCSV(w io.Writer, movements []*cash.Movement) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, m := range movements {
		record := []string{
			m.ID.String(),
			m.SessionID.String(),
			string(m.Type),
			m.Amount.StringFixed(2),
			deref(m.Reason),
			deref(m.ReferenceType),
			deref(m.ReferenceID),
			m.CreatedBy.String(),
			m.CreatedAt.UTC().Format(time.RFC3339),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing movement %s: %w", m.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

// Filename names an export produced at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("movements_%s.csv", t.Format("20060102"))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
