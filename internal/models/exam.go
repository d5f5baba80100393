package models

import (
	"time"
)

type Exam struct {
	ID        int       `json:"id" db:"id"`
	ExamName  string    `json:"exam_name" db:"exam_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
