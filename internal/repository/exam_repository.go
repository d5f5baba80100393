package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/duyktk/exam-archive-service/internal/models"
)

type ExamRepository interface {
	// GetByID returns nil when the exam does not exist; callers fall back
	// to a configured label in that case.
	GetByID(ctx context.Context, id int) (*models.Exam, error)
}

type examRepository struct {
	*PostgresRepository
}

func NewExamRepository(db *sql.DB, logger zerolog.Logger) ExamRepository {
	return &examRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *examRepository) GetByID(ctx context.Context, id int) (*models.Exam, error) {
	query := `
		SELECT id, exam_name, created_at
		FROM exams
		WHERE id = $1
	`

	exam := &models.Exam{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&exam.ID,
		&exam.ExamName,
		&exam.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return exam, err
}
