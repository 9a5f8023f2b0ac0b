package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Season struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Season) TableName() string {
	return "seasons"
}

func (s *Season) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}
