package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Performance is one golfer's round at one event. (golfer, event, day) is
// the natural key used for upserts.
type Performance struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	GolferID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_performance_natural_key,priority:1" json:"golfer_id"`
	EventID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_performance_natural_key,priority:2;index" json:"event_id"`
	Day         int        `gorm:"not null;uniqueIndex:idx_performance_natural_key,priority:3" json:"day"`
	Status      string     `gorm:"type:varchar(50);not null" json:"status"`
	TeeTime     *time.Time `json:"tee_time,omitempty"`
	Score       int        `gorm:"not null;default:0" json:"score"`
	HolesPlayed int        `gorm:"not null;default:0" json:"holes_played"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Golfer *Golfer `gorm:"foreignKey:GolferID" json:"golfer,omitempty"`
}

func (Performance) TableName() string {
	return "performances"
}

func (p *Performance) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// PerformanceKey is the natural key of a Performance row.
type PerformanceKey struct {
	GolferID uuid.UUID
	Day      int
}

func (p *Performance) Key() PerformanceKey {
	return PerformanceKey{GolferID: p.GolferID, Day: p.Day}
}
