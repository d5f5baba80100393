package models

import (
	"time"
)

type Student struct {
	ID        int       `json:"id" db:"id"`
	Roll      string    `json:"roll" db:"roll"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
