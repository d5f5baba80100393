package httpd

import (
	"errors"
	"net/http"
	"strings"

	"github.com/duyktk/exam-archive-service/internal/service"
)

// ScanHardcode extracts an uploaded project zip and scans it for hardcoded
// database connection strings.
func (h *Handler) ScanHardcode(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Failed to parse form data")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	result, err := h.scanService.ScanArchive(r.Context(), file, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrScanFormatUnsupported):
			writeError(w, http.StatusUnsupportedMediaType, err.Error())
		case strings.Contains(err.Error(), "malformed"):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Str("file", fileHeader.Filename).Msg("Hardcode scan error")
			writeError(w, http.StatusInternalServerError, "Failed to scan archive")
		}
		return
	}

	writeSuccess(w, result)
}
