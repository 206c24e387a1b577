package handler

import (
	"net/http"

	"github.com/boetepot/platform/internal/domain"
	"github.com/boetepot/platform/internal/service"
)

// FineHandler serves the fine ledger endpoints.
type FineHandler struct {
	ledger *service.LedgerService
}

// NewFineHandler creates a new FineHandler.
func NewFineHandler(ledger *service.LedgerService) *FineHandler {
	return &FineHandler{ledger: ledger}
}

// Total handles GET /total.
func (h *FineHandler) Total(w http.ResponseWriter, r *http.Request) {
	total, err := h.ledger.Total(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]domain.Amount{"total": total})
}

// Recent handles GET /recent.
func (h *FineHandler) Recent(w http.ResponseWriter, r *http.Request) {
	fines, err := h.ledger.Recent(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, fines)
}

// PlayerTotals handles GET /player-totals.
func (h *FineHandler) PlayerTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.ledger.PlayerTotals(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, totals)
}

// PlayerHistory handles GET /player-history/{player}.
func (h *FineHandler) PlayerHistory(w http.ResponseWriter, r *http.Request) {
	fines, err := h.ledger.PlayerHistory(r.Context(), nameParam(r, "player"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, fines)
}

// All handles GET /all.
func (h *FineHandler) All(w http.ResponseWriter, r *http.Request) {
	fines, err := h.ledger.AllFines(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, fines)
}

type addFineResponse struct {
	Message string      `json:"message"`
	Fine    domain.Fine `json:"fine"`
}

// Add handles POST /add.
func (h *FineHandler) Add(w http.ResponseWriter, r *http.Request) {
	var input domain.FineInput
	if err := DecodeJSON(r, &input); err != nil {
		respondBadBody(w)
		return
	}

	fine, err := h.ledger.AddFine(r.Context(), input)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, addFineResponse{Message: "Boete succesvol toegevoegd!", Fine: fine})
}

// Delete handles DELETE /{id}.
func (h *FineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}
	if err := h.ledger.DeleteFine(r.Context(), id); err != nil {
		RespondError(w, err)
		return
	}
	RespondMessage(w, http.StatusOK, "Fine successfully deleted")
}

// Reset handles POST /reset.
func (h *FineHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.ResetSeason(r.Context()); err != nil {
		RespondError(w, err)
		return
	}
	RespondMessage(w, http.StatusOK, "Alle boetes zijn gereset voor het nieuwe seizoen")
}
