package movement

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/caixa/internal/auth"
	"github.com/MrJamesThe3rd/caixa/internal/cash"
	"github.com/MrJamesThe3rd/caixa/internal/http/respond"
	"github.com/MrJamesThe3rd/caixa/internal/user"
)

const duplicateMessage = "Movement already exists"

type Handler struct {
	svc      *cash.Service
	users    *user.Service
	validate *validator.Validate
}

func NewHandler(svc *cash.Service, users *user.Service) *Handler {
	return &Handler{
		svc:      svc,
		users:    users,
		validate: respond.NewValidator(),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
}

// ListQuery reads the movement filters shared by the list and export endpoints.
func ListQuery(r *http.Request) cash.ListQuery {
	q := r.URL.Query()

	createdByMe, _ := strconv.ParseBool(q.Get("createdByMe"))

	return cash.ListQuery{
		SessionID:     q.Get("sessionId"),
		Type:          q.Get("type"),
		From:          q.Get("from"),
		To:            q.Get("to"),
		Search:        q.Get("search"),
		AmountMin:     q.Get("amountMin"),
		AmountMax:     q.Get("amountMax"),
		ReferenceType: q.Get("referenceType"),
		ReferenceID:   q.Get("referenceId"),
		CreatedByMe:   createdByMe,
	}
}

func includesUser(r *http.Request) bool {
	for _, part := range strings.Split(r.URL.Query().Get("include"), ",") {
		if strings.TrimSpace(part) == "user" {
			return true
		}
	}

	return false
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	movements, err := h.svc.List(r.Context(), auth.CallerFrom(r), ListQuery(r))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var users map[uuid.UUID]*user.User
	if includesUser(r) {
		users = h.resolveUsers(r.Context(), creators(movements))
	}

	respond.JSON(w, http.StatusOK, toResponseList(movements, users))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r)
	if err := caller.Validate(); err != nil {
		respond.Error(w, r, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, cash.InvalidIdentifier("id"))
		return
	}

	m, err := h.svc.Get(r.Context(), caller, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var users map[uuid.UUID]*user.User
	if includesUser(r) {
		users = h.resolveUsers(r.Context(), []uuid.UUID{m.CreatedBy})
	}

	respond.JSON(w, http.StatusOK, movementEnvelope{Movement: toResponse(m, users, false)})
}

// createMovementRequest only validates sessionId up front. The other fields
// are read leniently so the ledger can check the session before judging
// them.
type createMovementRequest struct {
	SessionID     string          `json:"sessionId" validate:"required,uuid"`
	Type          json.RawMessage `json:"type"`
	Amount        json.RawMessage `json:"amount"`
	Reason        json.RawMessage `json:"reason"`
	ReferenceType json.RawMessage `json:"referenceType"`
	ReferenceID   json.RawMessage `json:"referenceId"`
}

func (req createMovementRequest) params(sessionID uuid.UUID) cash.CreateParams {
	params := cash.CreateParams{
		SessionID: sessionID,
		Type:      cash.MovementType(typeText(req.Type)),
		Amount:    parseAmount(req.Amount),
	}

	fields := []struct {
		name string
		raw  json.RawMessage
		dst  *string
	}{
		{"reason", req.Reason, &params.Reason},
		{"referenceType", req.ReferenceType, &params.ReferenceType},
		{"referenceId", req.ReferenceID, &params.ReferenceID},
	}

	for _, f := range fields {
		text, ok := textValue(f.raw)
		if !ok {
			params.InvalidFields = append(params.InvalidFields, f.name)
			continue
		}

		*f.dst = text
	}

	return params
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r)
	if err := caller.Validate(); err != nil {
		respond.Error(w, r, err)
		return
	}

	var req createMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	if err := respond.Validate(h.validate, req); err != nil {
		respond.Error(w, r, err)
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		respond.Error(w, r, cash.InvalidIdentifier("sessionId"))
		return
	}

	result, err := h.svc.Create(r.Context(), caller, req.params(sessionID))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if result.Duplicate {
		respond.JSON(w, http.StatusOK, messageResponse{Message: duplicateMessage})
		return
	}

	users := h.resolveUsers(r.Context(), []uuid.UUID{caller.UserID})

	respond.JSON(w, http.StatusCreated, movementEnvelope{Movement: toResponse(result.Movement, users, true)})
}

// parseAmount accepts a JSON number or a numeric string. Anything else,
// including a missing amount, becomes NaN and is rejected by the ledger
// once the session has been checked.
func parseAmount(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return math.NaN()
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if f, err := n.Float64(); err == nil {
			return f
		}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}

	return math.NaN()
}

// textValue reads a JSON string or number as text. A missing field or null
// is empty; objects, arrays and booleans are not text.
func textValue(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}

	return "", false
}

// typeText returns the submitted type. A value that is not text is passed
// through verbatim so the ledger rejects it as an unknown type.
func typeText(raw json.RawMessage) string {
	text, ok := textValue(raw)
	if !ok {
		return string(raw)
	}

	return strings.TrimSpace(text)
}

// resolveUsers never fails the request; a lookup error leaves every
// creator unresolved.
func (h *Handler) resolveUsers(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]*user.User {
	users, err := h.users.Resolve(ctx, ids)
	if err != nil {
		slog.Warn("failed to resolve movement creators", "error", err)
		return nil
	}

	return users
}

func creators(movements []*cash.Movement) []uuid.UUID {
	ids := make([]uuid.UUID, len(movements))
	for i, m := range movements {
		ids[i] = m.CreatedBy
	}

	return ids
}
