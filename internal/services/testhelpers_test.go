package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stitts-dev/fantasy-golf/internal/fantasy"
	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/pkg/config"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
	"github.com/stitts-dev/fantasy-golf/pkg/logger"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.NewConnection("sqlite::memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestLogger() *logrus.Logger {
	return logger.Discard()
}

func testRules() config.RosterRules {
	return config.DefaultRosterRules()
}

func createUser(t *testing.T, db *database.DB, email string) models.User {
	t.Helper()
	user := models.User{Email: email, FirstName: "Test", LastName: "User"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createEvent(t *testing.T, db *database.DB, externalID string, status models.EventStatus) models.Event {
	t.Helper()
	start := time.Date(2024, time.April, 11, 0, 0, 0, 0, time.UTC)
	event := models.Event{
		ExternalID: externalID,
		Name:       "Event " + externalID,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 3),
		Status:     status,
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}

func createGolfer(t *testing.T, db *database.DB, name string, salary float64, externalID string) models.Golfer {
	t.Helper()
	golfer := models.Golfer{Name: name, Salary: salary, ExternalID: externalID}
	require.NoError(t, db.Create(&golfer).Error)
	return golfer
}

func createTeam(t *testing.T, db *database.DB, user models.User, event models.Event) models.Team {
	t.Helper()
	team := models.Team{UserID: user.ID, EventID: event.ID}
	team.SetLedger(models.NewUsedPlayersLedger(4))
	require.NoError(t, db.Create(&team).Error)
	return team
}

func seatGolfer(t *testing.T, db *database.DB, team models.Team, golfer models.Golfer, seat fantasy.Seat) {
	t.Helper()
	row := models.TeamGolfer{TeamID: team.ID, GolferID: golfer.ID, Seat: seat, CreatedAt: time.Now().UTC()}
	require.NoError(t, db.Create(&row).Error)
}

func createPerformance(t *testing.T, db *database.DB, golfer models.Golfer, event models.Event, day int, status string, score int) models.Performance {
	t.Helper()
	perf := models.Performance{
		GolferID: golfer.ID,
		EventID:  event.ID,
		Day:      day,
		Status:   status,
		Score:    score,
	}
	require.NoError(t, db.Create(&perf).Error)
	return perf
}

type fakeLeaderboard struct {
	mu          sync.Mutex
	competitors []fantasy.Competitor
	err         error
	calls       int
	lastEvent   string
	lastSeason  string
}

func (f *fakeLeaderboard) GetLeaderboard(ctx context.Context, eventExternalID, season string) ([]fantasy.Competitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastEvent = eventExternalID
	f.lastSeason = season
	if f.err != nil {
		return nil, f.err
	}
	return f.competitors, nil
}

type fakeSchedule struct {
	events []fantasy.ScheduledEvent
	err    error
	season string
}

func (f *fakeSchedule) GetSchedule(ctx context.Context, season string) ([]fantasy.ScheduledEvent, error) {
	f.season = season
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

type fakeSalaries struct {
	rows []fantasy.SalaryRow
	err  error
}

func (f *fakeSalaries) GetSalaries(ctx context.Context) ([]fantasy.SalaryRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func competitor(externalID, name string, rounds ...fantasy.LineScore) fantasy.Competitor {
	return fantasy.Competitor{ExternalID: externalID, Name: name, Rounds: rounds}
}

func round(n int, status string, score, holes int) fantasy.LineScore {
	return fantasy.LineScore{Round: n, Status: status, Score: score, HolesPlayed: holes}
}

func countRows(t *testing.T, db *database.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

func reloadTeam(t *testing.T, db *database.DB, teamID uuid.UUID) *models.Team {
	t.Helper()
	team, err := NewRosterStore(db.DB).LoadTeam(context.Background(), teamID)
	require.NoError(t, err)
	return team
}
