package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stitts-dev/fantasy-golf/internal/fantasy"
	"github.com/stitts-dev/fantasy-golf/internal/models"
	"gorm.io/gorm"
)

// RosterStore persists team seats and the used-players ledger. Every write is
// a single-row operation; callers that need atomicity use Transaction.
type RosterStore struct {
	db *gorm.DB
}

func NewRosterStore(db *gorm.DB) *RosterStore {
	return &RosterStore{db: db}
}

// Transaction runs fn with a store bound to one database transaction.
func (s *RosterStore) Transaction(ctx context.Context, fn func(store *RosterStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&RosterStore{db: tx})
	})
}

func (s *RosterStore) LoadTeam(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := s.db.WithContext(ctx).Preload("Seats.Golfer").First(&team, "id = ?", teamID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fantasy.ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load team %s: %w", teamID, err)
	}
	return &team, nil
}

// LoadEventTeamIDs lists the teams entered in an event, oldest first.
func (s *RosterStore) LoadEventTeamIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := s.db.WithContext(ctx).Model(&models.Team{}).
		Where("event_id = ?", eventID).Order("created_at ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load teams for event %s: %w", eventID, err)
	}
	return ids, nil
}

func (s *RosterStore) LoadGolfer(ctx context.Context, golferID uuid.UUID) (*models.Golfer, error) {
	var golfer models.Golfer
	err := s.db.WithContext(ctx).First(&golfer, "id = ?", golferID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fantasy.ErrGolferNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load golfer %s: %w", golferID, err)
	}
	return &golfer, nil
}

func (s *RosterStore) InsertSeat(ctx context.Context, teamID, golferID uuid.UUID, seat fantasy.Seat) (*models.TeamGolfer, error) {
	row := &models.TeamGolfer{
		TeamID:    teamID,
		GolferID:  golferID,
		Seat:      seat,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to seat golfer %s on team %s: %w", golferID, teamID, err)
	}
	return row, nil
}

// DeleteSeat removes a golfer from one seat class and reports whether a row
// was deleted.
func (s *RosterStore) DeleteSeat(ctx context.Context, teamID, golferID uuid.UUID, seat fantasy.Seat) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("team_id = ? AND golfer_id = ? AND seat = ?", teamID, golferID, seat).
		Delete(&models.TeamGolfer{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to unseat golfer %s from team %s: %w", golferID, teamID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *RosterStore) MoveSeat(ctx context.Context, teamID, golferID uuid.UUID, to fantasy.Seat) error {
	err := s.db.WithContext(ctx).Model(&models.TeamGolfer{}).
		Where("team_id = ? AND golfer_id = ?", teamID, golferID).
		Update("seat", to).Error
	if err != nil {
		return fmt.Errorf("failed to move golfer %s on team %s: %w", golferID, teamID, err)
	}
	return nil
}

// LoadDayPerformances returns the event's performances for one day keyed by
// golfer.
func (s *RosterStore) LoadDayPerformances(ctx context.Context, eventID uuid.UUID, day int) (map[uuid.UUID]models.Performance, error) {
	var rows []models.Performance
	if err := s.db.WithContext(ctx).Where("event_id = ? AND day = ?", eventID, day).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load day %d performances: %w", day, err)
	}
	byGolfer := make(map[uuid.UUID]models.Performance, len(rows))
	for _, row := range rows {
		byGolfer[row.GolferID] = row
	}
	return byGolfer, nil
}

func (s *RosterStore) SaveLedger(ctx context.Context, teamID uuid.UUID, ledger models.UsedPlayersLedger, score int) error {
	updates := map[string]interface{}{
		"used_players": models.NewLedgerValue(ledger),
		"score":        score,
	}
	if err := s.db.WithContext(ctx).Model(&models.Team{}).Where("id = ?", teamID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to save used players for team %s: %w", teamID, err)
	}
	return nil
}

// RosterView is the read model returned after every roster operation.
type RosterView struct {
	TeamID          uuid.UUID                `json:"team_id"`
	EventID         uuid.UUID                `json:"event_id"`
	Golfers         []models.Golfer          `json:"golfers"`
	Bench           []models.Golfer          `json:"bench"`
	SalaryUsed      float64                  `json:"salary_used"`
	SalaryRemaining float64                  `json:"salary_remaining"`
	SalaryCap       float64                  `json:"salary_cap"`
	Score           int                      `json:"score"`
	UsedPlayers     models.UsedPlayersLedger `json:"used_players"`
}

func NewRosterView(team *models.Team, salaryCap float64) RosterView {
	used := team.SalaryCents()
	return RosterView{
		TeamID:          team.ID,
		EventID:         team.EventID,
		Golfers:         team.SeatGolfers(fantasy.SeatTeam),
		Bench:           team.SeatGolfers(fantasy.SeatBench),
		SalaryUsed:      models.FromCents(used),
		SalaryRemaining: models.FromCents(models.ToCents(salaryCap) - used),
		SalaryCap:       salaryCap,
		Score:           team.Score,
		UsedPlayers:     team.Ledger(),
	}
}
