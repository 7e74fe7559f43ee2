package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/caixa/internal/auth"
	"github.com/MrJamesThe3rd/caixa/internal/cash"
)

func TestMiddleware(t *testing.T) {
	a := auth.NewAuthenticator("secret", "caixa")
	userID, claimOrg, headerOrg := uuid.New(), uuid.New(), uuid.New()

	token, err := a.Issue(userID, claimOrg, time.Hour)
	require.NoError(t, err)

	type testCase struct {
		name       string
		authHeader string
		orgHeader  string
		wantStatus int
		wantCaller cash.Caller
	}

	tests := []testCase{
		{
			name:       "no token passes through anonymous",
			wantStatus: http.StatusOK,
		},
		{
			name:       "no token keeps header tenant",
			orgHeader:  headerOrg.String(),
			wantStatus: http.StatusOK,
			wantCaller: cash.Caller{OrganizationID: headerOrg},
		},
		{
			name:       "token claim supplies tenant",
			authHeader: "Bearer " + token,
			wantStatus: http.StatusOK,
			wantCaller: cash.Caller{UserID: userID, OrganizationID: claimOrg},
		},
		{
			name:       "header overrides claim",
			authHeader: "bearer " + token,
			orgHeader:  headerOrg.String(),
			wantStatus: http.StatusOK,
			wantCaller: cash.Caller{UserID: userID, OrganizationID: headerOrg},
		},
		{
			name:       "malformed header tenant is unresolved",
			authHeader: "Bearer " + token,
			orgHeader:  "store-7",
			wantStatus: http.StatusOK,
			wantCaller: cash.Caller{UserID: userID},
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer nope",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got cash.Caller

			handler := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = auth.CallerFrom(r)
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			if tt.orgHeader != "" {
				req.Header.Set(auth.OrganizationHeader, tt.orgHeader)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantCaller, got)
			} else {
				assert.JSONEq(t, `{"error":"unauthenticated"}`, rec.Body.String())
			}
		})
	}
}
