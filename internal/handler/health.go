package handler

import (
	"net/http"

	"github.com/boetepot/platform/internal/service"
)

// HealthHandler returns a health check endpoint reporting the ledger size.
func HealthHandler(ledger *service.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := ledger.Stats(r.Context())
		if err != nil {
			RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  "ledger unavailable",
			})
			return
		}
		RespondJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "healthy",
			"fines":   stats.Fines,
			"players": stats.Players,
			"reasons": stats.Reasons,
		})
	}
}
