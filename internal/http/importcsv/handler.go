package importcsv

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/caixa/internal/auth"
	"github.com/MrJamesThe3rd/caixa/internal/cash"
	"github.com/MrJamesThe3rd/caixa/internal/http/respond"
	"github.com/MrJamesThe3rd/caixa/internal/importer"
)

type Handler struct {
	parser   *importer.Parser
	ledger   *cash.Service
	maxBytes int64
}

func NewHandler(parser *importer.Parser, ledger *cash.Service, maxBytes int64) *Handler {
	return &Handler{
		parser:   parser,
		ledger:   ledger,
		maxBytes: maxBytes,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/import", h.importCSV)
}

type importedResponse struct {
	ID        uuid.UUID         `json:"id"`
	Type      cash.MovementType `json:"type"`
	Amount    json.Number       `json:"amount"`
	CreatedAt time.Time         `json:"createdAt"`
}

type rejectedResponse struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type importResponse struct {
	Imported   []importedResponse `json:"imported"`
	Duplicates int                `json:"duplicates"`
	Rejected   []rejectedResponse `json:"rejected"`
	Encoding   string             `json:"encoding"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r)
	if err := caller.Validate(); err != nil {
		respond.Error(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		respond.BadRequest(w, "failed to parse form: "+err.Error())
		return
	}

	rawSession := r.FormValue("sessionId")
	if rawSession == "" {
		respond.Error(w, r, cash.MissingField("sessionId"))
		return
	}

	sessionID, err := uuid.Parse(rawSession)
	if err != nil {
		respond.Error(w, r, cash.InvalidIdentifier("sessionId"))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, r, cash.MissingField("file"))
		return
	}
	defer file.Close()

	batch, err := h.parser.Parse(file)
	if err != nil {
		if errors.Is(err, importer.ErrNoHeader) {
			respond.BadRequest(w, err.Error())
			return
		}

		respond.BadRequest(w, "failed to read file: "+err.Error())

		return
	}

	result, err := h.ledger.ImportBatch(r.Context(), caller, sessionID, batch.Rows)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(result, batch))
}

func toResponse(result *cash.ImportResult, batch *importer.Batch) importResponse {
	resp := importResponse{
		Imported:   make([]importedResponse, 0, len(result.Imported)),
		Duplicates: result.Duplicates,
		Rejected:   make([]rejectedResponse, 0, len(result.Rejected)),
		Encoding:   string(batch.Charset),
	}

	for _, m := range result.Imported {
		resp.Imported = append(resp.Imported, importedResponse{
			ID:        m.ID,
			Type:      m.Type,
			Amount:    json.Number(m.Amount.StringFixed(2)),
			CreatedAt: m.CreatedAt,
		})
	}

	for _, rej := range result.Rejected {
		resp.Rejected = append(resp.Rejected, rejectedResponse{Row: rej.Line, Message: rej.Err.Error()})
	}

	return resp
}
