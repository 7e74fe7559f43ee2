package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/caixa/internal/cash"
)

func TestError(t *testing.T) {
	type testCase struct {
		name       string
		err        error
		wantStatus int
		wantBody   errorResponse
	}

	tests := []testCase{
		{
			name:       "validation",
			err:        cash.ErrReturnMustBeNegative,
			wantStatus: http.StatusBadRequest,
			wantBody:   errorResponse{Error: "return amount must be negative", Kind: cash.KindReturnMustBeNegative},
		},
		{
			name:       "wrapped validation",
			err:        fmt.Errorf("line 3: %w", cash.MissingField("type")),
			wantStatus: http.StatusBadRequest,
			wantBody:   errorResponse{Error: "type is required", Kind: cash.KindMissingRequiredField},
		},
		{
			name:       "missing organization",
			err:        cash.ErrMissingOrganization,
			wantStatus: http.StatusBadRequest,
			wantBody:   errorResponse{Error: "organization is required"},
		},
		{
			name:       "session not open",
			err:        cash.ErrSessionNotOpen,
			wantStatus: http.StatusBadRequest,
			wantBody:   errorResponse{Error: "cash session is not open"},
		},
		{
			name:       "unauthenticated",
			err:        cash.ErrUnauthenticated,
			wantStatus: http.StatusUnauthorized,
			wantBody:   errorResponse{Error: "unauthenticated"},
		},
		{
			name:       "policy denial keeps message",
			err:        fmt.Errorf("%w: new row violates row-level security policy", cash.ErrAuthorizationDenied),
			wantStatus: http.StatusForbidden,
			wantBody:   errorResponse{Error: "authorization denied: new row violates row-level security policy"},
		},
		{
			name:       "session not found",
			err:        cash.ErrSessionNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   errorResponse{Error: "cash session not found"},
		},
		{
			name:       "storage failure is hidden",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   errorResponse{Error: "internal error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var got errorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantBody, got)
		})
	}
}

func TestValidate(t *testing.T) {
	type request struct {
		SessionID   string `json:"sessionId" validate:"required,uuid"`
		ReferenceID string `json:"referenceId" validate:"max=4"`
	}

	v := NewValidator()

	assert.NoError(t, Validate(v, request{SessionID: "0b6f3c1e-5a2f-4f7e-9a51-1d2c3b4a5f60"}))

	err := Validate(v, request{})
	assert.ErrorIs(t, err, cash.ErrMissingRequiredField)
	assert.EqualError(t, err, "sessionId is required")

	err = Validate(v, request{SessionID: "nope"})
	assert.ErrorIs(t, err, cash.ErrInvalidIdentifier)
	assert.EqualError(t, err, "sessionId must be a valid UUID")

	err = Validate(v, request{SessionID: "0b6f3c1e-5a2f-4f7e-9a51-1d2c3b4a5f60", ReferenceID: "toolong"})
	assert.ErrorIs(t, err, cash.ErrFieldTooLong)
	assert.EqualError(t, err, "referenceId must be at most 4 characters")
}
