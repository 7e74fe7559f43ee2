package cash

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ImportRow is one parsed line of an import file.
type ImportRow struct {
	Line   int
	Params CreateParams
}

// RowError reports a line rejected by validation.
type RowError struct {
	Line int
	Err  error
}

type ImportResult struct {
	Imported   []*Movement
	Duplicates int
	Rejected   []RowError
}

// ImportBatch records rows into one session through Create, so every row
// gets the same validation and deduplication. Validation failures are
// collected per line; any other failure stops the import. Rows written
// before the failure stay written.
func (s *Service) ImportBatch(ctx context.Context, caller Caller, sessionID uuid.UUID, rows []ImportRow) (*ImportResult, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return &ImportResult{}, nil
	}

	result := &ImportResult{}

	for _, row := range rows {
		params := row.Params
		params.SessionID = sessionID

		res, err := s.Create(ctx, caller, params)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				result.Rejected = append(result.Rejected, RowError{Line: row.Line, Err: err})
				continue
			}

			return nil, fmt.Errorf("line %d: %w", row.Line, err)
		}

		if res.Duplicate {
			result.Duplicates++
			continue
		}

		result.Imported = append(result.Imported, res.Movement)
	}

	return result, nil
}
