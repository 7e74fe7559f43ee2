package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/caixa/internal/cash"
)

// OrganizationHeader selects the tenant for a request, overriding the token's org claim.
const OrganizationHeader = "X-Organization-Id"

type ctxKey struct{}

// Middleware verifies a bearer token when one is sent and stores the
// identity in the request context. Requests without a token pass through
// unauthenticated so that tenant resolution is reported first; a token that
// fails verification is rejected with 401.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
			unauthorized(w)
			return
		}

		identity, err := a.Verify(strings.TrimSpace(token))
		if err != nil {
			slog.Debug("rejected bearer token", "error", err)
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, identity)
}

func IdentityFrom(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(ctxKey{}).(*Identity)
	return identity, ok
}

// CallerFrom builds the ledger caller for r. The tenant comes from the
// organization header when it holds a UUID, else from the token. Missing
// parts stay zero and are rejected by the ledger.
func CallerFrom(r *http.Request) cash.Caller {
	var caller cash.Caller

	identity, ok := IdentityFrom(r.Context())
	if ok {
		caller.UserID = identity.UserID
		caller.OrganizationID = identity.OrganizationID
	}

	if raw := strings.TrimSpace(r.Header.Get(OrganizationHeader)); raw != "" {
		orgID, err := uuid.Parse(raw)
		if err != nil {
			orgID = uuid.Nil
		}

		caller.OrganizationID = orgID
	}

	return caller
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	if err := json.NewEncoder(w).Encode(map[string]string{"error": cash.ErrUnauthenticated.Error()}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
