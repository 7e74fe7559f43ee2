package export_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/caixa/internal/auth"
	"github.com/MrJamesThe3rd/caixa/internal/cash"
	"github.com/MrJamesThe3rd/caixa/internal/export"
	httpexport "github.com/MrJamesThe3rd/caixa/internal/http/export"
)

func TestDownload(t *testing.T) {
	orgID, userID := uuid.New(), uuid.New()

	newRouter := func(t *testing.T) (*cash.MockRepository, http.Handler) {
		ctrl := gomock.NewController(t)
		repo := cash.NewMockRepository(ctrl)

		h := httpexport.NewHandler(export.NewService(cash.NewService(repo, time.UTC)))

		r := chi.NewRouter()
		r.Route("/cash/movements", h.Routes)

		return repo, r
	}

	get := func(router http.Handler, target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set(auth.OrganizationHeader, orgID.String())
		req = req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{UserID: userID}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		return rec
	}

	t.Run("csv", func(t *testing.T) {
		repo, router := newRouter(t)

		repo.EXPECT().ListMovements(gomock.Any(), gomock.Any()).Return([]*cash.Movement{{
			ID:        uuid.New(),
			Type:      cash.TypeSale,
			Amount:    decimal.RequireFromString("12"),
			CreatedBy: userID,
		}}, nil)

		rec := get(router, "/cash/movements/export?type=SALE")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "movements_")

		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[1], ",SALE,12.00,")
	})

	t.Run("invalid filter is json", func(t *testing.T) {
		_, router := newRouter(t)

		rec := get(router, "/cash/movements/export?amountMin=1&to=never")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	})
}
