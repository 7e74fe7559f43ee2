package cash_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/caixa/internal/cash"
)

func TestService_Summarize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := openSession()
	repo := cash.NewMockRepository(ctrl)
	svc := cash.NewService(repo, time.UTC)

	repo.EXPECT().GetSession(gomock.Any(), orgID, session.ID).Return(session, nil)
	repo.EXPECT().SumBySession(gomock.Any(), orgID, session.ID).Return([]cash.TypeTotal{
		{Type: cash.TypeSale, Total: decimal.RequireFromString("250.40"), Count: 7},
		{Type: cash.TypeOut, Total: decimal.RequireFromString("30.00"), Count: 1},
		{Type: cash.TypeReturn, Total: decimal.RequireFromString("-15.50"), Count: 1},
		{Type: cash.TypeAdjustment, Total: decimal.RequireFromString("-0.40"), Count: 1},
	}, nil)

	got, err := svc.Summarize(context.Background(), caller, session.ID)
	require.NoError(t, err)

	require.Len(t, got.Totals, len(cash.MovementTypes))
	assert.Equal(t, cash.TypeIn, got.Totals[0].Type)
	assert.True(t, got.Totals[0].Total.IsZero())
	assert.Equal(t, 10, got.Count)

	// 250.40 - 30.00 - 15.50 - 0.40
	assert.Equal(t, "204.50", got.Net.StringFixed(2))
	assert.Equal(t, "304.50", got.Expected.StringFixed(2))
}

func TestService_Summarize_Errors(t *testing.T) {
	session := openSession()

	t.Run("session not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := cash.NewMockRepository(ctrl)
		repo.EXPECT().GetSession(gomock.Any(), orgID, session.ID).Return(nil, cash.ErrSessionNotFound)

		_, err := cash.NewService(repo, time.UTC).Summarize(context.Background(), caller, session.ID)
		assert.ErrorIs(t, err, cash.ErrSessionNotFound)
	})

	t.Run("sum failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := cash.NewMockRepository(ctrl)
		repo.EXPECT().GetSession(gomock.Any(), orgID, session.ID).Return(session, nil)
		repo.EXPECT().SumBySession(gomock.Any(), orgID, session.ID).Return(nil, errors.New("boom"))

		_, err := cash.NewService(repo, time.UTC).Summarize(context.Background(), caller, session.ID)
		assert.ErrorContains(t, err, "boom")
	})
}
