package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/duyktk/exam-archive-service/internal/models"
	"github.com/duyktk/exam-archive-service/internal/repository"
)

// SubmissionResolver find-or-creates the single submission row for an
// (exam, student) pair. Repeated uploads for the same pair converge to the
// latest file URL.
type SubmissionResolver interface {
	FindOrCreate(ctx context.Context, examID, studentID int, fileURL, solution string) (*models.Submission, error)
}

type submissionResolver struct {
	submissionRepo repository.SubmissionRepository
	logger         zerolog.Logger
}

func NewSubmissionResolver(submissionRepo repository.SubmissionRepository, logger zerolog.Logger) SubmissionResolver {
	return &submissionResolver{
		submissionRepo: submissionRepo,
		logger:         logger,
	}
}

func (s *submissionResolver) FindOrCreate(ctx context.Context, examID, studentID int, fileURL, solution string) (*models.Submission, error) {
	existing, err := s.submissionRepo.GetByExamAndStudent(ctx, examID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up submission: %w", err)
	}

	if existing != nil {
		needsUpdate := false

		if fileURL != "" && existing.FileURL != fileURL {
			existing.FileURL = fileURL
			needsUpdate = true
		}
		if solution != "" && existing.Solution != solution {
			existing.Solution = solution
			needsUpdate = true
		}

		// skip the write entirely when nothing changed, so updated_at does
		// not churn on identical re-uploads
		if needsUpdate {
			existing.UpdatedAt = time.Now().UTC()
			if err := s.submissionRepo.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("failed to update submission: %w", err)
			}

			s.logger.Info().
				Int("submission_id", existing.ID).
				Int("exam_id", examID).
				Int("student_id", studentID).
				Msg("Submission updated")
		}

		return existing, nil
	}

	now := time.Now().UTC()
	submission := &models.Submission{
		ExamID:    examID,
		StudentID: studentID,
		FileURL:   fileURL,
		Solution:  solution,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	s.logger.Info().
		Int("submission_id", submission.ID).
		Int("exam_id", examID).
		Int("student_id", studentID).
		Msg("Submission created")

	return submission, nil
}
