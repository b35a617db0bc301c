package model

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel rows are hard-deleted: removing a student must not leave recoverable data.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func GenerateUUID() string {
	return uuid.New().String()
}
