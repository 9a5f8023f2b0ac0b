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
)

// TeamService creates teams, one per (user, event).
type TeamService struct {
	db     *database.DB
	rounds int
	logger *logrus.Logger
}

func NewTeamService(db *database.DB, rounds int, logger *logrus.Logger) *TeamService {
	return &TeamService{db: db, rounds: rounds, logger: logger}
}

// CreateTeam returns the user's team for the event, creating it with an empty
// ledger for every round when none exists. created reports which happened.
func (s *TeamService) CreateTeam(ctx context.Context, userID, eventID uuid.UUID) (team *models.Team, created bool, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fantasy.ErrUserNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		var event models.Event
		if err := tx.First(&event, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fantasy.ErrEventNotFound
			}
			return fmt.Errorf("failed to load event: %w", err)
		}

		var existing models.Team
		err := tx.Where("user_id = ? AND event_id = ?", userID, eventID).First(&existing).Error
		if err == nil {
			team = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up team: %w", err)
		}

		team = &models.Team{
			UserID:   userID,
			EventID:  eventID,
			SeasonID: event.SeasonID,
		}
		team.SetLedger(models.NewUsedPlayersLedger(s.rounds))
		if err := tx.Create(team).Error; err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		logger.ForTeam(s.logger, "teams", team.ID).WithFields(logrus.Fields{
			"user_id":  userID,
			"event_id": eventID,
		}).Info("Team created")
	}
	return team, created, nil
}

// OwnerOf returns the owning user of a team.
func (s *TeamService) OwnerOf(ctx context.Context, teamID uuid.UUID) (uuid.UUID, error) {
	var team models.Team
	err := s.db.WithContext(ctx).Select("id", "user_id").First(&team, "id = ?", teamID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, fantasy.ErrTeamNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to load team: %w", err)
	}
	return team.UserID, nil
}

func (s *TeamService) ListEventTeams(ctx context.Context, eventID uuid.UUID) ([]models.Team, error) {
	var teams []models.Team
	if err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Order("score ASC").Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}
