package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/duyktk/exam-archive-service/internal/models"
)

type StudentRepository interface {
	GetByID(ctx context.Context, id int) (*models.Student, error)
	// GetByRoll matches the roll number case-insensitively with surrounding
	// whitespace ignored. Returns nil when no student matches.
	GetByRoll(ctx context.Context, roll string) (*models.Student, error)
}

type studentRepository struct {
	*PostgresRepository
}

func NewStudentRepository(db *sql.DB, logger zerolog.Logger) StudentRepository {
	return &studentRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *studentRepository) GetByID(ctx context.Context, id int) (*models.Student, error) {
	query := `
		SELECT id, roll, full_name, email, created_at, updated_at
		FROM students
		WHERE id = $1
	`

	student := &models.Student{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&student.ID,
		&student.Roll,
		&student.FullName,
		&student.Email,
		&student.CreatedAt,
		&student.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return student, err
}

func (r *studentRepository) GetByRoll(ctx context.Context, roll string) (*models.Student, error) {
	query := `
		SELECT id, roll, full_name, email, created_at, updated_at
		FROM students
		WHERE LOWER(TRIM(roll)) = LOWER(TRIM($1))
	`

	student := &models.Student{}
	err := r.db.QueryRowContext(ctx, query, roll).Scan(
		&student.ID,
		&student.Roll,
		&student.FullName,
		&student.Email,
		&student.CreatedAt,
		&student.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return student, err
}
