package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/caixa/internal/auth"
	"github.com/MrJamesThe3rd/caixa/internal/export"
	"github.com/MrJamesThe3rd/caixa/internal/http/movement"
	"github.com/MrJamesThe3rd/caixa/internal/http/respond"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/export", h.download)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	movements, err := h.svc.Movements(r.Context(), auth.CallerFrom(r), movement.ListQuery(r))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(time.Now())))

	// Headers are already sent; a failure here can only be logged.
	if err := h.svc.WriteCSV(w, movements); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
