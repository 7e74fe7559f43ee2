//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/caixa/internal/cash"
	"github.com/MrJamesThe3rd/caixa/internal/cash/store"
	"github.com/MrJamesThe3rd/caixa/internal/database/dbtest"
)

func TestStore_Postgres(t *testing.T) {
	db := dbtest.New(t)
	s := store.New(db)
	ctx := context.Background()

	orgID := uuid.New()
	otherOrg := uuid.New()
	userID := uuid.New()
	sessionID := uuid.MustParse(dbtest.InsertSession(t, db, orgID.String(), "OPEN", "100.00"))

	newMovement := func(typ cash.MovementType, amount string) *cash.Movement {
		return &cash.Movement{
			OrganizationID: orgID,
			SessionID:      sessionID,
			Type:           typ,
			Amount:         decimal.RequireFromString(amount),
			CreatedBy:      userID,
		}
	}

	t.Run("session is scoped to its organization", func(t *testing.T) {
		got, err := s.GetSession(ctx, orgID, sessionID)
		require.NoError(t, err)
		assert.Equal(t, cash.SessionOpen, got.Status)
		assert.Equal(t, "100.00", got.OpeningAmount.StringFixed(2))

		_, err = s.GetSession(ctx, otherOrg, sessionID)
		assert.ErrorIs(t, err, cash.ErrSessionNotFound)
	})

	t.Run("reference is unique per session", func(t *testing.T) {
		first := newMovement(cash.TypeSale, "12.00")
		first.ReferenceType, first.ReferenceID = new("SALE"), new("X")
		require.NoError(t, s.CreateMovement(ctx, first))

		second := newMovement(cash.TypeSale, "12.00")
		second.ReferenceType, second.ReferenceID = new("SALE"), new("X")
		assert.ErrorIs(t, s.CreateMovement(ctx, second), cash.ErrDuplicateMovement)

		found, err := s.FindByReference(ctx, orgID, sessionID, "SALE", "X")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, first.ID, found[0].ID)
	})

	t.Run("unlinked movements never collide", func(t *testing.T) {
		require.NoError(t, s.CreateMovement(ctx, newMovement(cash.TypeIn, "5.00")))
		require.NoError(t, s.CreateMovement(ctx, newMovement(cash.TypeIn, "5.00")))
	})

	t.Run("sign rules are enforced by the schema", func(t *testing.T) {
		assert.Error(t, s.CreateMovement(ctx, newMovement(cash.TypeReturn, "3.00")))
		assert.Error(t, s.CreateMovement(ctx, newMovement(cash.TypeOut, "-3.00")))
		assert.Error(t, s.CreateMovement(ctx, newMovement(cash.TypeAdjustment, "0")))
	})

	t.Run("movements cannot be updated", func(t *testing.T) {
		_, err := db.ExecContext(ctx, `UPDATE cash_movements SET amount = 1 WHERE session_id = $1`, sessionID)
		assert.Error(t, err)
	})

	t.Run("list and sum", func(t *testing.T) {
		ret := newMovement(cash.TypeReturn, "-15.50")
		ret.Reason = new("50% off")
		require.NoError(t, s.CreateMovement(ctx, ret))

		all, err := s.ListMovements(ctx, cash.ListFilter{OrganizationID: orgID, SessionID: &sessionID})
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, ret.ID, all[0].ID)

		searched, err := s.ListMovements(ctx, cash.ListFilter{OrganizationID: orgID, Search: new("50%")})
		require.NoError(t, err)
		require.Len(t, searched, 1)

		none, err := s.ListMovements(ctx, cash.ListFilter{OrganizationID: otherOrg})
		require.NoError(t, err)
		assert.Empty(t, none)

		totals, err := s.SumBySession(ctx, orgID, sessionID)
		require.NoError(t, err)

		byType := map[cash.MovementType]string{}
		for _, tt := range totals {
			byType[tt.Type] = tt.Total.StringFixed(2)
		}

		assert.Equal(t, "12.00", byType[cash.TypeSale])
		assert.Equal(t, "10.00", byType[cash.TypeIn])
		assert.Equal(t, "-15.50", byType[cash.TypeReturn])
	})
}
