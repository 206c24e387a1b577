package handler

import (
	"net/http"

	"github.com/boetepot/platform/internal/domain"
	"github.com/boetepot/platform/internal/service"
)

// ReasonHandler serves the reason catalogue endpoints.
type ReasonHandler struct {
	ledger *service.LedgerService
}

// NewReasonHandler creates a new ReasonHandler.
func NewReasonHandler(ledger *service.LedgerService) *ReasonHandler {
	return &ReasonHandler{ledger: ledger}
}

// List handles GET /reasons.
func (h *ReasonHandler) List(w http.ResponseWriter, r *http.Request) {
	reasons, err := h.ledger.Reasons(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, reasons)
}

type addReasonResponse struct {
	Message string        `json:"message"`
	Reason  domain.Reason `json:"reason"`
}

// Add handles POST /reasons/add.
func (h *ReasonHandler) Add(w http.ResponseWriter, r *http.Request) {
	var input domain.ReasonInput
	if err := DecodeJSON(r, &input); err != nil {
		respondBadBody(w)
		return
	}

	reason, err := h.ledger.AddReason(r.Context(), input)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, addReasonResponse{Message: "Reden succesvol toegevoegd!", Reason: reason})
}

// Delete handles DELETE /reasons/{id}.
func (h *ReasonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}
	if err := h.ledger.DeleteReason(r.Context(), id); err != nil {
		RespondError(w, err)
		return
	}
	RespondMessage(w, http.StatusOK, "Reden succesvol verwijderd")
}
