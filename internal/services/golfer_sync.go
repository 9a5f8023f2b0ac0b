package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stitts-dev/fantasy-golf/internal/fantasy"
	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
	"github.com/stitts-dev/fantasy-golf/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GolferSyncResult struct {
	Created         int `json:"created"`
	Linked          int `json:"linked"`
	SalariesUpdated int `json:"salaries_updated"`
	Unpriced        int `json:"unpriced"`
}

// GolferSyncService imports an event's field from the leaderboard and prices
// it from the salary feed.
type GolferSyncService struct {
	db          *database.DB
	leaderboard fantasy.LeaderboardFeed
	salaries    fantasy.SalaryFeed
	season      string
	logger      *logrus.Logger
}

func NewGolferSyncService(db *database.DB, leaderboard fantasy.LeaderboardFeed, salaries fantasy.SalaryFeed, season string, logger *logrus.Logger) *GolferSyncService {
	return &GolferSyncService{
		db:          db,
		leaderboard: leaderboard,
		salaries:    salaries,
		season:      season,
		logger:      logger,
	}
}

// RefreshEventGolfers creates golfers missing from the field, links the
// field to the event and applies salaries by folded name. Golfers with no
// salary row keep their current salary.
func (s *GolferSyncService) RefreshEventGolfers(ctx context.Context, tournamentID string) (*GolferSyncResult, error) {
	db := s.db.WithContext(ctx)
	log := logger.ForComponent(s.logger, "golfer_sync").WithField("tournament_id", tournamentID)

	var event models.Event
	if err := db.First(&event, "external_id = ?", tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fantasy.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	season := s.season
	if season == "" {
		season = event.SeasonYear()
	}

	competitors, err := s.leaderboard.GetLeaderboard(ctx, tournamentID, season)
	if err != nil {
		return nil, err
	}

	index, err := loadGolferIndex(db, competitors)
	if err != nil {
		return nil, err
	}

	result := &GolferSyncResult{}
	field := make([]models.Golfer, 0, len(competitors))
	linked := make(map[uuid.UUID]bool, len(competitors))
	for _, c := range competitors {
		golferID, matchedByName, ok := index.match(c)
		if ok {
			if linked[golferID] {
				continue
			}
			linked[golferID] = true
			if matchedByName {
				log.WithField("name", c.Name).Warn("Matched golfer by name; recording external id")
				if err := backfillExternalID(db, golferID, c.ExternalID); err != nil {
					return result, err
				}
			}
			field = append(field, models.Golfer{ID: golferID})
			continue
		}

		golfer := models.Golfer{ExternalID: c.ExternalID, Name: c.Name, ImageURL: c.ImageURL}
		if err := db.Create(&golfer).Error; err != nil {
			return result, fmt.Errorf("failed to create golfer %s: %w", c.Name, err)
		}
		if c.ExternalID != "" {
			index.byExternalID[c.ExternalID] = golfer.ID
		}
		result.Created++
		linked[golfer.ID] = true
		field = append(field, golfer)
	}

	if len(field) > 0 {
		links := make([]map[string]interface{}, 0, len(field))
		for _, g := range field {
			links = append(links, map[string]interface{}{"event_id": event.ID, "golfer_id": g.ID})
		}
		if err := db.Table("event_golfers").Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error; err != nil {
			return result, fmt.Errorf("failed to link golfers to event: %w", err)
		}
	}
	result.Linked = len(field)

	rows, err := s.salaries.GetSalaries(ctx)
	if err != nil {
		return result, err
	}
	priceByName := make(map[string]float64, len(rows))
	for _, row := range rows {
		priceByName[fantasy.NormalizeName(row.Name)] = row.Salary
	}

	var entrants []models.Golfer
	if err := db.Model(&event).Association("Golfers").Find(&entrants); err != nil {
		return result, fmt.Errorf("failed to load event golfers: %w", err)
	}
	for _, g := range entrants {
		salary, ok := priceByName[fantasy.NormalizeName(g.Name)]
		if !ok {
			result.Unpriced++
			continue
		}
		if models.ToCents(salary) == models.ToCents(g.Salary) {
			continue
		}
		if err := db.Model(&models.Golfer{}).Where("id = ?", g.ID).Update("salary", salary).Error; err != nil {
			return result, fmt.Errorf("failed to update salary for %s: %w", g.Name, err)
		}
		result.SalariesUpdated++
	}

	log.WithFields(logrus.Fields{
		"created":          result.Created,
		"linked":           result.Linked,
		"salaries_updated": result.SalariesUpdated,
		"unpriced":         result.Unpriced,
	}).Info("Refreshed event golfers")

	return result, nil
}
