package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/boetepot/platform/internal/service"
)

// ExportHandler serves the season workbook.
type ExportHandler struct {
	exportSvc *service.ExportService
	now       func() time.Time
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportSvc *service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, now: time.Now}
}

// Season handles GET /export.
func (h *ExportHandler) Season(w http.ResponseWriter, r *http.Request) {
	data, err := h.exportSvc.SeasonWorkbook(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}

	filename := fmt.Sprintf("boetepot-%s.xlsx", h.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", service.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
