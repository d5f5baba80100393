package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/duyktk/exam-archive-service/internal/archive"
	"github.com/duyktk/exam-archive-service/internal/models"
	"github.com/duyktk/exam-archive-service/internal/repository"
)

// ErrStudentNotFound marks an archive entry whose derived student code has
// no matching roster row.
var ErrStudentNotFound = errors.New("student not found")

// ObjectStorage is the slice of the storage client the ingestion pipeline
// needs.
type ObjectStorage interface {
	UploadStream(ctx context.Context, key string, data io.Reader, size int64, contentType string) (string, error)
}

// EventPublisher announces successfully ingested submissions. Publishing is
// best-effort; failures are logged and never fail the entry.
type EventPublisher interface {
	PublishSubmissionIngested(ctx context.Context, event *models.SubmissionIngestedEvent) error
}

type IngestService interface {
	Ingest(ctx context.Context, req *models.IngestRequest) (*models.IngestResult, error)
}

type IngestConfig struct {
	// DefaultExamID substitutes for a non-positive exam id in the request.
	DefaultExamID int
	// FallbackExamCode labels the result when the exam row is missing.
	FallbackExamCode string
	// MatchArtifact selects which archive entries qualify for ingestion.
	// Nil means archive.IsSolutionArtifact.
	MatchArtifact func(string) bool
}

type ingestService struct {
	storage       ObjectStorage
	studentRepo   repository.StudentRepository
	examRepo      repository.ExamRepository
	resolver      SubmissionResolver
	publisher     EventPublisher
	matchArtifact func(string) bool
	logger        zerolog.Logger
	config        IngestConfig
}

func NewIngestService(
	storage ObjectStorage,
	studentRepo repository.StudentRepository,
	examRepo repository.ExamRepository,
	resolver SubmissionResolver,
	publisher EventPublisher,
	logger zerolog.Logger,
	config IngestConfig,
) IngestService {
	matchArtifact := config.MatchArtifact
	if matchArtifact == nil {
		matchArtifact = archive.IsSolutionArtifact
	}
	return &ingestService{
		storage:       storage,
		studentRepo:   studentRepo,
		examRepo:      examRepo,
		resolver:      resolver,
		publisher:     publisher,
		matchArtifact: matchArtifact,
		logger:        logger,
		config:        config,
	}
}

// Ingest decodes the archive, uploads every qualifying entry to object
// storage under {prefix}/{top-level-name}/{relative-path} and reconciles a
// submission row per derived student. Entries are processed sequentially;
// per-entry failures are recorded and the remaining entries continue.
// Nothing already uploaded is rolled back on cancellation.
func (s *ingestService) Ingest(ctx context.Context, req *models.IngestRequest) (*models.IngestResult, error) {
	if strings.TrimSpace(req.FileName) == "" {
		return nil, errors.New("file name is required")
	}

	decoder, err := archive.NewDecoder(req.Data, req.FileName)
	if err != nil {
		return nil, err
	}

	examID := req.ExamID
	if examID <= 0 {
		examID = s.config.DefaultExamID
	}

	result := &models.IngestResult{
		ExamID:   examID,
		ExamName: s.resolveExamName(ctx, examID),
	}

	prefixSegment := ""
	if p := strings.TrimRight(strings.TrimSpace(req.Prefix), "/"); p != "" {
		prefixSegment = p + "/"
	}

	topName := decoder.TopLevelName()

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		entry, err := decoder.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, fmt.Errorf("failed to decode archive: %w", err)
		}

		if !s.matchArtifact(entry.Path) {
			continue
		}

		if ingestErr := s.ingestEntry(ctx, entry, topName, prefixSegment, examID, req, result); ingestErr != nil {
			s.logger.Warn().Err(ingestErr).
				Str("entry", entry.Path).
				Int("exam_id", examID).
				Msg("Archive entry failed to ingest")

			result.Failures = append(result.Failures, models.EntryFailure{
				EntryPath: entry.Path,
				Reason:    ingestErr.Error(),
			})
		}
	}

	s.logger.Info().
		Str("archive", req.FileName).
		Str("uploaded_by", req.UploadedBy).
		Str("exam_name", result.ExamName).
		Int("uploaded", len(result.UploadedURLs)).
		Int("failed", len(result.Failures)).
		Msg("Archive ingestion finished")

	return result, nil
}

func (s *ingestService) ingestEntry(
	ctx context.Context,
	entry *archive.Entry,
	topName, prefixSegment string,
	examID int,
	req *models.IngestRequest,
	result *models.IngestResult,
) error {
	relative := archive.RelativePath(entry.Path, topName)
	key := fmt.Sprintf("%s%s/%s", prefixSegment, archive.SanitizeSegment(topName), archive.SanitizePath(relative))

	url, err := s.storage.UploadStream(ctx, key, entry.Reader, -1, "application/zip")
	if err != nil {
		return fmt.Errorf("failed to upload entry: %w", err)
	}

	studentCode := extractStudentCode(relative)
	solution := extractSolution(relative)

	student, err := s.studentRepo.GetByRoll(ctx, studentCode)
	if err != nil {
		return fmt.Errorf("failed to look up student %q: %w", studentCode, err)
	}
	if student == nil {
		return fmt.Errorf("%w: code %q", ErrStudentNotFound, studentCode)
	}

	submission, err := s.resolver.FindOrCreate(ctx, examID, student.ID, url, solution)
	if err != nil {
		return err
	}

	s.publishIngested(ctx, submission, student.Roll, req.UploadedBy)

	result.UploadedURLs = append(result.UploadedURLs, url)
	return nil
}

func (s *ingestService) resolveExamName(ctx context.Context, examID int) string {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		s.logger.Warn().Err(err).Int("exam_id", examID).Msg("Exam lookup failed; using fallback code")
		return s.config.FallbackExamCode
	}
	if exam == nil {
		return s.config.FallbackExamCode
	}
	return exam.ExamName
}

func (s *ingestService) publishIngested(ctx context.Context, submission *models.Submission, roll, uploadedBy string) {
	if s.publisher == nil {
		return
	}

	event := &models.SubmissionIngestedEvent{
		ExamID:      submission.ExamID,
		StudentID:   submission.StudentID,
		StudentRoll: roll,
		FileURL:     submission.FileURL,
		UploadedBy:  uploadedBy,
		Timestamp:   time.Now().Unix(),
	}
	if err := s.publisher.PublishSubmissionIngested(ctx, event); err != nil {
		s.logger.Warn().Err(err).
			Int("exam_id", submission.ExamID).
			Int("student_id", submission.StudentID).
			Msg("Failed to publish submission event")
	}
}

// extractStudentCode takes the last 8 characters of the first path segment,
// or the whole segment when shorter. Student identifiers are fixed-width
// suffixes inside an export folder name like "anhdlse181818".
func extractStudentCode(relativePath string) string {
	folder := extractSolution(relativePath)
	if len(folder) >= 8 {
		return folder[len(folder)-8:]
	}
	return folder
}

// extractSolution returns the unmodified first path segment, used as a
// human-readable label.
func extractSolution(relativePath string) string {
	for _, part := range strings.Split(relativePath, "/") {
		if part != "" {
			return part
		}
	}
	return ""
}
