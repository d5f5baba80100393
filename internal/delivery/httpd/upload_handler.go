package httpd

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/duyktk/exam-archive-service/internal/archive"
	"github.com/duyktk/exam-archive-service/internal/models"
	"github.com/duyktk/exam-archive-service/internal/service"
)

// UploadArchive ingests a submitted exam archive. Form fields: file
// (required), exam_id, prefix, uploaded_by.
func (h *Handler) UploadArchive(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "multipart/form-data") {
		writeError(w, http.StatusBadRequest, "Content-Type must be multipart/form-data")
		return
	}

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

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	examID, _ := strconv.Atoi(r.FormValue("exam_id"))
	prefix := r.FormValue("prefix")
	if prefix == "" {
		prefix = h.storagePrefix
	}

	req := &models.IngestRequest{
		Data:        fileBytes,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Prefix:      prefix,
		ExamID:      examID,
		UploadedBy:  r.FormValue("uploaded_by"),
	}

	result, err := h.ingestService.Ingest(r.Context(), req)
	if err != nil {
		h.handleIngestError(w, err)
		return
	}

	writeSuccess(w, result)
}

func (h *Handler) handleIngestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, archive.ErrUnsupportedFormat):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, service.ErrStudentNotFound):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case strings.Contains(err.Error(), "malformed"):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("Archive ingestion error")
		writeError(w, http.StatusInternalServerError, "Failed to ingest archive")
	}
}
