package session

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/caixa/internal/auth"
	"github.com/MrJamesThe3rd/caixa/internal/cash"
	"github.com/MrJamesThe3rd/caixa/internal/http/respond"
)

type Handler struct {
	svc *cash.Service
}

func NewHandler(svc *cash.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}/summary", h.summary)
}

type totalResponse struct {
	Type  cash.MovementType `json:"type"`
	Total json.Number       `json:"total"`
	Count int               `json:"count"`
}

type summaryResponse struct {
	SessionID     uuid.UUID          `json:"sessionId"`
	Status        cash.SessionStatus `json:"status"`
	OpeningAmount json.Number        `json:"openingAmount"`
	OpenedAt      time.Time          `json:"openedAt"`
	ClosedAt      *time.Time         `json:"closedAt"`
	Totals        []totalResponse    `json:"totals"`
	Net           json.Number        `json:"net"`
	Expected      json.Number        `json:"expected"`
	Count         int                `json:"count"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
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

	s, err := h.svc.Summarize(r.Context(), caller, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := summaryResponse{
		SessionID:     s.Session.ID,
		Status:        s.Session.Status,
		OpeningAmount: json.Number(s.Session.OpeningAmount.StringFixed(2)),
		OpenedAt:      s.Session.OpenedAt,
		ClosedAt:      s.Session.ClosedAt,
		Totals:        make([]totalResponse, len(s.Totals)),
		Net:           json.Number(s.Net.StringFixed(2)),
		Expected:      json.Number(s.Expected.StringFixed(2)),
		Count:         s.Count,
	}

	for i, t := range s.Totals {
		resp.Totals[i] = totalResponse{Type: t.Type, Total: json.Number(t.Total.StringFixed(2)), Count: t.Count}
	}

	respond.JSON(w, http.StatusOK, resp)
}
