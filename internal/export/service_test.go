package export_test

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/caixa/internal/cash"
	"github.com/MrJamesThe3rd/caixa/internal/export"
)

func TestService_WriteCSV(t *testing.T) {
	reason := "Troco, manhã"
	m := &cash.Movement{
		ID:            uuid.MustParse("11111111-1111-4111-8111-111111111111"),
		SessionID:     uuid.MustParse("22222222-2222-4222-8222-222222222222"),
		Type:          cash.TypeReturn,
		Amount:        decimal.RequireFromString("-15.5"),
		Reason:        &reason,
		ReferenceType: new("SALE"),
		ReferenceID:   new("X"),
		CreatedBy:     uuid.MustParse("33333333-3333-4333-8333-333333333333"),
		CreatedAt:     time.Date(2024, 1, 1, 9, 30, 0, 0, time.FixedZone("WET", 0)),
	}

	var sb strings.Builder
	require.NoError(t, export.NewService(nil).WriteCSV(&sb, []*cash.Movement{m}))

	records, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{
		"id", "session_id", "type", "amount", "reason",
		"reference_type", "reference_id", "created_by", "created_at",
	}, records[0])
	assert.Equal(t, []string{
		"11111111-1111-4111-8111-111111111111",
		"22222222-2222-4222-8222-222222222222",
		"RETURN",
		"-15.50",
		"Troco, manhã",
		"SALE",
		"X",
		"33333333-3333-4333-8333-333333333333",
		"2024-01-01T09:30:00Z",
	}, records[1])
}

func TestService_WriteCSV_Empty(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, export.NewService(nil).WriteCSV(&sb, nil))
	assert.Equal(t, "id,session_id,type,amount,reason,reference_type,reference_id,created_by,created_at\n", sb.String())
}

func TestService_Movements(t *testing.T) {
	caller := cash.Caller{UserID: uuid.New(), OrganizationID: uuid.New()}

	t.Run("lists with the caller's filter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := cash.NewMockRepository(ctrl)
		repo.EXPECT().ListMovements(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f cash.ListFilter) ([]*cash.Movement, error) {
				assert.Equal(t, caller.OrganizationID, f.OrganizationID)
				require.NotNil(t, f.Type)
				assert.Equal(t, cash.TypeSale, *f.Type)

				return []*cash.Movement{{ID: uuid.New()}}, nil
			})

		got, err := export.NewService(cash.NewService(repo, time.UTC)).
			Movements(context.Background(), caller, cash.ListQuery{Type: "sale"})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("validation errors keep their kind", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := export.NewService(cash.NewService(cash.NewMockRepository(ctrl), time.UTC))

		_, err := svc.Movements(context.Background(), caller, cash.ListQuery{From: "soon"})
		assert.ErrorIs(t, err, cash.ErrInvalidDate)
	})

	t.Run("storage failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := cash.NewMockRepository(ctrl)
		repo.EXPECT().ListMovements(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

		_, err := export.NewService(cash.NewService(repo, time.UTC)).Movements(context.Background(), caller, cash.ListQuery{})
		assert.ErrorContains(t, err, "listing movements: timeout")
	})
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "movements_20240131.csv", export.Filename(time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC)))
}
