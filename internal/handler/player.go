package handler

import (
	"net/http"

	"github.com/boetepot/platform/internal/service"
)

// PlayerHandler serves the roster endpoints.
type PlayerHandler struct {
	ledger *service.LedgerService
}

// NewPlayerHandler creates a new PlayerHandler.
func NewPlayerHandler(ledger *service.LedgerService) *PlayerHandler {
	return &PlayerHandler{ledger: ledger}
}

// List handles GET /players.
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.ledger.Players(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string][]string{"spelers": players})
}

type addPlayerRequest struct {
	PlayerName string `json:"playerName"`
}

// Add handles POST /players/add.
func (h *PlayerHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addPlayerRequest
	if err := DecodeJSON(r, &req); err != nil {
		respondBadBody(w)
		return
	}

	player, err := h.ledger.AddPlayer(r.Context(), req.PlayerName)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]string{
		"message": "Speler succesvol toegevoegd!",
		"player":  player,
	})
}

// Delete handles DELETE /players/{name}.
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeletePlayer(r.Context(), nameParam(r, "name")); err != nil {
		RespondError(w, err)
		return
	}
	RespondMessage(w, http.StatusOK, "Speler succesvol verwijderd")
}
