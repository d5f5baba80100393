package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/duyktk/exam-archive-service/internal/models"
)

type SubmissionRepository interface {
	GetByExamAndStudent(ctx context.Context, examID, studentID int) (*models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	Update(ctx context.Context, submission *models.Submission) error
}

type submissionRepository struct {
	*PostgresRepository
}

func NewSubmissionRepository(db *sql.DB, logger zerolog.Logger) SubmissionRepository {
	return &submissionRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *submissionRepository) GetByExamAndStudent(ctx context.Context, examID, studentID int) (*models.Submission, error) {
	query := `
		SELECT id, exam_id, student_id, COALESCE(file_url, ''), COALESCE(solution, ''), created_at, updated_at
		FROM submissions
		WHERE exam_id = $1 AND student_id = $2
	`

	submission := &models.Submission{}
	err := r.db.QueryRowContext(ctx, query, examID, studentID).Scan(
		&submission.ID,
		&submission.ExamID,
		&submission.StudentID,
		&submission.FileURL,
		&submission.Solution,
		&submission.CreatedAt,
		&submission.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return submission, err
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	// submissions carries UNIQUE (exam_id, student_id); a concurrent
	// duplicate insert fails here instead of creating a second row.
	query := `
		INSERT INTO submissions (exam_id, student_id, file_url, solution, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	return r.db.QueryRowContext(ctx, query,
		submission.ExamID,
		submission.StudentID,
		submission.FileURL,
		submission.Solution,
		submission.CreatedAt,
		submission.UpdatedAt,
	).Scan(&submission.ID)
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	query := `
		UPDATE submissions
		SET file_url = $1, solution = $2, updated_at = $3
		WHERE id = $4
	`

	_, err := r.db.ExecContext(ctx, query,
		submission.FileURL,
		submission.Solution,
		submission.UpdatedAt,
		submission.ID,
	)

	return err
}
