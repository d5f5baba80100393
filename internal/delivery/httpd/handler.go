package httpd

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/duyktk/exam-archive-service/internal/repository"
	"github.com/duyktk/exam-archive-service/internal/service"
)

type Handler struct {
	ingestService service.IngestService
	scanService   service.ScanService
	storageRepo   *repository.MinIORepository
	maxUploadSize int64
	storagePrefix string
	logger        zerolog.Logger
}

func NewHandler(
	ingestService service.IngestService,
	scanService service.ScanService,
	storageRepo *repository.MinIORepository,
	maxUploadSize int64,
	storagePrefix string,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		ingestService: ingestService,
		scanService:   scanService,
		storageRepo:   storageRepo,
		maxUploadSize: maxUploadSize,
		storagePrefix: storagePrefix,
		logger:        logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Route("/files", func(r chi.Router) {
			r.Post("/archives", h.UploadArchive)
			r.Get("/download", h.DownloadFile)
		})
		api.Post("/scan/hardcode", h.ScanHardcode)
	})
}
