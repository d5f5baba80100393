package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/duyktk/exam-archive-service/internal/config"
	"github.com/duyktk/exam-archive-service/internal/delivery/httpd"
	"github.com/duyktk/exam-archive-service/internal/events"
	"github.com/duyktk/exam-archive-service/internal/repository"
	"github.com/duyktk/exam-archive-service/internal/service"
)

type App struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
	publisher *events.Publisher
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	minioRepo, err := repository.NewMinIORepository(
		cfg.MinIO.Endpoint,
		cfg.MinIO.AccessKey,
		cfg.MinIO.SecretKey,
		cfg.Storage.BucketName,
		cfg.Storage.Region,
		cfg.MinIO.UseSSL,
		cfg.MinIO.Timeout,
		log,
	)
	if err != nil {
		return nil, err
	}

	studentRepo := repository.NewStudentRepository(db, log)
	examRepo := repository.NewExamRepository(db, log)
	submissionRepo := repository.NewSubmissionRepository(db, log)
	scanRepo := repository.NewScanRepository(log)

	// Event publishing is optional; the pipeline works without a broker.
	var publisher *events.Publisher
	var ingestPublisher service.EventPublisher
	if cfg.Events.Enabled {
		publisher, err = events.NewPublisher(
			cfg.Events.URL,
			cfg.Events.Exchange,
			cfg.Events.RoutingKey,
			cfg.Events.Queue,
			log,
		)
		if err != nil {
			return nil, err
		}
		ingestPublisher = publisher
	}

	resolver := service.NewSubmissionResolver(submissionRepo, log)

	ingestService := service.NewIngestService(
		minioRepo,
		studentRepo,
		examRepo,
		resolver,
		ingestPublisher,
		log,
		service.IngestConfig{
			DefaultExamID:    cfg.Ingest.DefaultExamID,
			FallbackExamCode: cfg.Ingest.FallbackExamCode,
		},
	)

	extractService := service.NewExtractService(log)
	scanService := service.NewScanService(scanRepo, extractService, cfg.Scan.TempDir, log)

	handler := httpd.NewHandler(
		ingestService,
		scanService,
		minioRepo,
		cfg.Server.MaxUploadSize,
		cfg.Ingest.StoragePrefix,
		log,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:    server,
		logger:    log,
		config:    cfg,
		db:        db,
		publisher: publisher,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting exam archive service on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down exam archive service...")

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close event publisher")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	return a.server.Shutdown(ctx)
}
