package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Golfer is a tour player that can be drafted onto a team.
type Golfer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID string    `gorm:"uniqueIndex:idx_golfers_external_id,where:external_id <> ''" json:"external_id"`
	Name       string    `gorm:"not null;index" json:"name"`
	Salary     float64   `gorm:"not null;default:0" json:"salary"`
	ImageURL   string    `json:"image_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Golfer) TableName() string {
	return "golfers"
}

func (g *Golfer) BeforeCreate(tx *gorm.DB) error {
	assignID(&g.ID)
	return nil
}

func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
