package handler

import (
	"net/http"
	"net/netip"

	"github.com/boetepot/platform/internal/service"
)

// AuthHandler handles the admin login endpoint.
type AuthHandler struct {
	authSvc        *service.AuthService
	trustedProxies []netip.Prefix
}

// NewAuthHandler creates a new AuthHandler. Login attempts are keyed by client
// IP; X-Forwarded-For is only read when the peer is in trustedProxies.
func NewAuthHandler(authSvc *service.AuthService, trustedProxies []netip.Prefix) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, trustedProxies: trustedProxies}
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := DecodeJSON(r, &input); err != nil {
		respondBadBody(w)
		return
	}

	if err := h.authSvc.Login(r.Context(), input, ClientIP(r, h.trustedProxies)); err != nil {
		RespondError(w, err)
		return
	}

	RespondMessage(w, http.StatusOK, "Login successful")
}
