package movement

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/caixa/internal/cash"
	"github.com/MrJamesThe3rd/caixa/internal/user"
)

type userResponse struct {
	ID       uuid.UUID `json:"id"`
	FullName *string   `json:"fullName,omitempty"`
	Email    *string   `json:"email,omitempty"`
}

type movementResponse struct {
	ID            uuid.UUID         `json:"id"`
	SessionID     uuid.UUID         `json:"sessionId"`
	Type          cash.MovementType `json:"type"`
	Amount        json.Number       `json:"amount"`
	Reason        *string           `json:"reason"`
	ReferenceType *string           `json:"referenceType"`
	ReferenceID   *string           `json:"referenceId"`
	CreatedAt     time.Time         `json:"createdAt"`
	CreatedByUser *userResponse     `json:"createdByUser"`
}

type listResponse struct {
	Movements []movementResponse `json:"movements"`
}

type movementEnvelope struct {
	Movement movementResponse `json:"movement"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// toResponse formats m. createdByUser is filled from users; when the
// creator is unknown it is null, or just {id} if idOnlyFallback is set.
func toResponse(m *cash.Movement, users map[uuid.UUID]*user.User, idOnlyFallback bool) movementResponse {
	resp := movementResponse{
		ID:            m.ID,
		SessionID:     m.SessionID,
		Type:          m.Type,
		Amount:        json.Number(m.Amount.StringFixed(2)),
		Reason:        m.Reason,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		CreatedAt:     m.CreatedAt,
	}

	if u, ok := users[m.CreatedBy]; ok {
		resp.CreatedByUser = &userResponse{ID: u.ID, FullName: &u.FullName, Email: &u.Email}
	} else if idOnlyFallback {
		resp.CreatedByUser = &userResponse{ID: m.CreatedBy}
	}

	return resp
}

func toResponseList(movements []*cash.Movement, users map[uuid.UUID]*user.User) listResponse {
	resp := listResponse{Movements: make([]movementResponse, len(movements))}
	for i, m := range movements {
		resp.Movements[i] = toResponse(m, users, false)
	}

	return resp
}
