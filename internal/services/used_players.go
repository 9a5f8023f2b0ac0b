package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stitts-dev/fantasy-golf/internal/fantasy"
	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/pkg/config"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
	"github.com/stitts-dev/fantasy-golf/pkg/logger"
)

// TeamSweepResult is the outcome of sweeping one team.
type TeamSweepResult struct {
	TeamID uuid.UUID           `json:"team_id"`
	Added  map[int][]uuid.UUID `json:"added"`
	Score  int                 `json:"score"`
	Error  string              `json:"error,omitempty"`
	Err    error               `json:"-"`
}

// UsedPlayersTracker locks in which golfers counted for each team on each
// day once their round has started.
type UsedPlayersTracker struct {
	store  *RosterStore
	rules  config.RosterRules
	logger *logrus.Logger
}

func NewUsedPlayersTracker(db *database.DB, rules config.RosterRules, logger *logrus.Logger) *UsedPlayersTracker {
	return &UsedPlayersTracker{
		store:  NewRosterStore(db.DB),
		rules:  rules,
		logger: logger,
	}
}

// SweepTeamDay records active golfers whose round for day has started. A day
// already holding limit golfers is left alone and nothing is ever removed.
// It returns the golfers added.
func SweepTeamDay(ledger *models.UsedPlayersLedger, day int, active []uuid.UUID, performances map[uuid.UUID]models.Performance, limit int) []uuid.UUID {
	if len(ledger.Golfers(day)) >= limit {
		return nil
	}

	var added []uuid.UUID
	for _, golferID := range active {
		perf, ok := performances[golferID]
		if !ok || perf.Status == fantasy.StatusScheduled {
			continue
		}
		if ledger.Record(day, golferID, limit) {
			added = append(added, golferID)
		}
	}
	return added
}

// LedgerScore totals each recorded golfer's score for the day they counted.
func LedgerScore(ledger models.UsedPlayersLedger, performances map[int]map[uuid.UUID]models.Performance) int {
	total := 0
	for _, day := range ledger {
		byGolfer := performances[day.Day]
		for _, golferID := range day.Golfers {
			total += byGolfer[golferID].Score
		}
	}
	return total
}

// SweepEvent sweeps every team in an event for the given days (all rounds
// when days is empty). Each team runs in its own transaction and a failing
// team is reported in its result without stopping the rest.
func (t *UsedPlayersTracker) SweepEvent(ctx context.Context, eventID uuid.UUID, days []int) ([]TeamSweepResult, error) {
	if len(days) == 0 {
		days = make([]int, 0, t.rules.RoundsPerEvent)
		for day := 1; day <= t.rules.RoundsPerEvent; day++ {
			days = append(days, day)
		}
	}

	teamIDs, err := t.store.LoadEventTeamIDs(ctx, eventID)
	if err != nil {
		return nil, err
	}

	performances := make(map[int]map[uuid.UUID]models.Performance)
	for day := 1; day <= t.rules.RoundsPerEvent; day++ {
		byGolfer, err := t.store.LoadDayPerformances(ctx, eventID, day)
		if err != nil {
			return nil, err
		}
		performances[day] = byGolfer
	}
	for _, day := range days {
		if _, ok := performances[day]; !ok {
			byGolfer, err := t.store.LoadDayPerformances(ctx, eventID, day)
			if err != nil {
				return nil, err
			}
			performances[day] = byGolfer
		}
	}

	results := make([]TeamSweepResult, 0, len(teamIDs))
	for _, teamID := range teamIDs {
		result := t.sweepTeam(ctx, teamID, days, performances)
		if result.Err != nil {
			logger.ForTeam(t.logger, "used_players", teamID).
				WithField("event_id", eventID).
				WithError(result.Err).Error("Used players sweep failed for team")
		}
		results = append(results, result)
	}

	return results, nil
}

func (t *UsedPlayersTracker) sweepTeam(ctx context.Context, teamID uuid.UUID, days []int, performances map[int]map[uuid.UUID]models.Performance) TeamSweepResult {
	result := TeamSweepResult{TeamID: teamID, Added: map[int][]uuid.UUID{}}

	err := t.store.Transaction(ctx, func(store *RosterStore) error {
		team, err := store.LoadTeam(ctx, teamID)
		if err != nil {
			return err
		}

		ledger := team.Ledger()
		active := team.ActiveGolferIDs()
		for _, day := range days {
			if added := SweepTeamDay(&ledger, day, active, performances[day], t.rules.MaxActive); len(added) > 0 {
				result.Added[day] = added
			}
		}

		result.Score = LedgerScore(ledger, performances)
		return store.SaveLedger(ctx, teamID, ledger, result.Score)
	})
	if err != nil {
		result.Err = fmt.Errorf("team %s: %w", teamID, err)
		result.Error = result.Err.Error()
	}
	return result
}
