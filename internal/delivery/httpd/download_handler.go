package httpd

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/duyktk/exam-archive-service/internal/repository"
)

// DownloadFile streams one stored object. The location query parameter
// accepts either a bare storage key or a full object URL.
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		writeError(w, http.StatusBadRequest, "location parameter is required")
		return
	}

	ctx := r.Context()
	object, contentType, size, err := h.storageRepo.DownloadFile(ctx, location)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		h.logger.Error().Err(err).Str("location", location).Msg("Storage download error")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve file")
		return
	}
	defer object.Close()

	fileName := path.Base(h.storageRepo.ExtractKey(location))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))

	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, object); err != nil {
		h.logger.Error().Err(err).Str("location", location).Msg("Failed to stream file to client")
	}
}
