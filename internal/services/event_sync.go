package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stitts-dev/fantasy-golf/internal/fantasy"
	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
)

type ScheduleSyncResult struct {
	Season  models.Season `json:"season"`
	Created int           `json:"created"`
	Updated int           `json:"updated"`
}

// EventSyncService mirrors the tour schedule into seasons and events.
type EventSyncService struct {
	db       *database.DB
	schedule fantasy.ScheduleFeed
	logger   *logrus.Logger
}

func NewEventSyncService(db *database.DB, schedule fantasy.ScheduleFeed, logger *logrus.Logger) *EventSyncService {
	return &EventSyncService{db: db, schedule: schedule, logger: logger}
}

// RefreshSchedule ensures a season named after the year exists, creates
// events missing by external id and updates the rest in place.
func (s *EventSyncService) RefreshSchedule(ctx context.Context, season string) (*ScheduleSyncResult, error) {
	if season == "" {
		season = strconv.Itoa(time.Now().UTC().Year())
	}

	scheduled, err := s.schedule.GetSchedule(ctx, season)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	start, end := scheduleBounds(scheduled)
	var record models.Season
	if err := db.Where(models.Season{Name: season}).
		Assign(models.Season{StartDate: start, EndDate: end}).
		FirstOrCreate(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to upsert season %s: %w", season, err)
	}

	ids := make([]string, 0, len(scheduled))
	for _, e := range scheduled {
		ids = append(ids, e.ExternalID)
	}
	var existing []models.Event
	if len(ids) > 0 {
		if err := db.Where("external_id IN ?", ids).Find(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to load events: %w", err)
		}
	}
	byExternalID := make(map[string]models.Event, len(existing))
	for _, e := range existing {
		byExternalID[e.ExternalID] = e
	}

	result := &ScheduleSyncResult{Season: record}
	seasonID := record.ID
	for _, e := range scheduled {
		if current, ok := byExternalID[e.ExternalID]; ok {
			err := db.Model(&models.Event{}).Where("id = ?", current.ID).Updates(map[string]interface{}{
				"name":       e.Name,
				"start_date": e.Start,
				"end_date":   e.End,
				"status":     models.EventStatus(e.Status),
				"season_id":  seasonID,
			}).Error
			if err != nil {
				return result, fmt.Errorf("failed to update event %s: %w", e.ExternalID, err)
			}
			result.Updated++
			continue
		}

		event := models.Event{
			ExternalID: e.ExternalID,
			Name:       e.Name,
			StartDate:  e.Start,
			EndDate:    e.End,
			Status:     models.EventStatus(e.Status),
			SeasonID:   &seasonID,
		}
		if err := db.Create(&event).Error; err != nil {
			return result, fmt.Errorf("failed to create event %s: %w", e.ExternalID, err)
		}
		byExternalID[e.ExternalID] = event
		result.Created++
	}

	s.logger.WithFields(logrus.Fields{
		"component": "event_sync",
		"season":    season,
		"created":   result.Created,
		"updated":   result.Updated,
	}).Info("Refreshed tour schedule")

	return result, nil
}

func scheduleBounds(events []fantasy.ScheduledEvent) (time.Time, time.Time) {
	var start, end time.Time
	for _, e := range events {
		if !e.Start.IsZero() && (start.IsZero() || e.Start.Before(start)) {
			start = e.Start
		}
		if e.End.After(end) {
			end = e.End
		}
	}
	return start, end
}
