package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventStatus string

const (
	EventScheduled  EventStatus = "scheduled"
	EventInProgress EventStatus = "in_progress"
	EventCompleted  EventStatus = "completed"
)

// Event is a single tournament on the tour schedule.
type Event struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID string      `gorm:"uniqueIndex;not null" json:"external_id"`
	Name       string      `gorm:"not null" json:"name"`
	StartDate  time.Time   `gorm:"not null;index" json:"start_date"`
	EndDate    time.Time   `gorm:"not null" json:"end_date"`
	Status     EventStatus `gorm:"type:varchar(50);default:'scheduled';index" json:"status"`
	SeasonID   *uuid.UUID  `gorm:"type:uuid;index" json:"season_id,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`

	// Associations
	Golfers      []Golfer      `gorm:"many2many:event_golfers" json:"golfers,omitempty"`
	Performances []Performance `gorm:"foreignKey:EventID" json:"performances,omitempty"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	assignID(&e.ID)
	return nil
}

// SeasonYear is the tour season an event is reported under by the feed.
func (e *Event) SeasonYear() string {
	return e.StartDate.Format("2006")
}
