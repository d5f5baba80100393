package models

import (
	"time"
)

// Submission is the per-(exam, student) record of an uploaded solution.
// At most one row exists per pair; repeated uploads converge to the latest
// file URL. Solution holds the originating folder name as a human-readable
// label.
type Submission struct {
	ID        int       `json:"id" db:"id"`
	ExamID    int       `json:"exam_id" db:"exam_id"`
	StudentID int       `json:"student_id" db:"student_id"`
	FileURL   string    `json:"file_url" db:"file_url"`
	Solution  string    `json:"solution" db:"solution"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
