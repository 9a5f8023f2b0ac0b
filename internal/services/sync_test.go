package services

import (
	"context"
	"testing"
	"time"

	"github.com/stitts-dev/fantasy-golf/internal/fantasy"
	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshEventGolfers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	event := createEvent(t, db, "401580351", models.EventScheduled)
	existing := createGolfer(t, db, "Xander Schauffele", 9, "10140")
	byName := createGolfer(t, db, "Ludvig Åberg", 0, "")

	leaderboard := &fakeLeaderboard{competitors: []fantasy.Competitor{
		competitor("10140", "Xander Schauffele"),
		competitor("4375972", "Ludvig Aberg"),
		competitor("11099", "Brand New"),
		competitor("11099", "Brand New"),
	}}
	salaries := &fakeSalaries{rows: []fantasy.SalaryRow{
		{Name: "Xander Schauffele", Salary: 21},
		{Name: "LUDVIG ABERG", Salary: 18.5},
	}}
	service := NewGolferSyncService(db, leaderboard, salaries, "", newTestLogger())

	result, err := service.RefreshEventGolfers(ctx, "401580351")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 3, result.Linked)
	assert.Equal(t, 2, result.SalariesUpdated)
	assert.Equal(t, 1, result.Unpriced)
	assert.Equal(t, "2024", leaderboard.lastSeason)

	var entrants []models.Golfer
	require.NoError(t, db.Model(&event).Association("Golfers").Find(&entrants))
	assert.Len(t, entrants, 3)

	var stored models.Golfer
	require.NoError(t, db.First(&stored, "id = ?", existing.ID).Error)
	assert.Equal(t, 21.0, stored.Salary)
	var matched models.Golfer
	require.NoError(t, db.First(&matched, "id = ?", byName.ID).Error)
	assert.Equal(t, "4375972", matched.ExternalID)
	assert.Equal(t, 18.5, matched.Salary)

	// second run links nothing new and changes no salaries
	again, err := service.RefreshEventGolfers(ctx, "401580351")
	require.NoError(t, err)
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, 0, again.SalariesUpdated)
	assert.Equal(t, int64(3), countRows(t, db, &models.Golfer{}))
}

func TestRefreshEventGolfers_Errors(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createEvent(t, db, "401580351", models.EventScheduled)

	service := NewGolferSyncService(db, &fakeLeaderboard{}, &fakeSalaries{}, "", newTestLogger())
	_, err := service.RefreshEventGolfers(ctx, "missing")
	assert.ErrorIs(t, err, fantasy.ErrEventNotFound)

	down := NewGolferSyncService(db, &fakeLeaderboard{err: fantasy.ErrFeedUnavailable}, &fakeSalaries{}, "", newTestLogger())
	_, err = down.RefreshEventGolfers(ctx, "401580351")
	assert.ErrorIs(t, err, fantasy.ErrFeedUnavailable)
	assert.Equal(t, int64(0), countRows(t, db, &models.Golfer{}))
}

func TestRefreshSchedule(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	masters := createEvent(t, db, "401580344", models.EventScheduled)

	start := time.Date(2024, time.April, 11, 0, 0, 0, 0, time.UTC)
	schedule := &fakeSchedule{events: []fantasy.ScheduledEvent{
		{ExternalID: "401580344", Name: "Masters Tournament", Start: start, End: start.AddDate(0, 0, 3), Status: string(models.EventCompleted)},
		{ExternalID: "401580351", Name: "RBC Heritage", Start: start.AddDate(0, 0, 7), End: start.AddDate(0, 0, 10), Status: string(models.EventInProgress)},
	}}
	service := NewEventSyncService(db, schedule, newTestLogger())

	result, err := service.RefreshSchedule(ctx, "2024")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, "2024", result.Season.Name)
	assert.True(t, result.Season.StartDate.Equal(start))
	assert.True(t, result.Season.EndDate.Equal(start.AddDate(0, 0, 10)))

	var updated models.Event
	require.NoError(t, db.First(&updated, "id = ?", masters.ID).Error)
	assert.Equal(t, "Masters Tournament", updated.Name)
	assert.Equal(t, models.EventCompleted, updated.Status)
	require.NotNil(t, updated.SeasonID)
	assert.Equal(t, result.Season.ID, *updated.SeasonID)

	again, err := service.RefreshSchedule(ctx, "2024")
	require.NoError(t, err)
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, 2, again.Updated)
	assert.Equal(t, result.Season.ID, again.Season.ID)
	assert.Equal(t, int64(1), countRows(t, db, &models.Season{}))
	assert.Equal(t, int64(2), countRows(t, db, &models.Event{}))
}

func TestRefreshSchedule_DefaultsToCurrentYear(t *testing.T) {
	db := newTestDB(t)
	schedule := &fakeSchedule{err: fantasy.ErrFeedUnavailable}
	service := NewEventSyncService(db, schedule, newTestLogger())

	_, err := service.RefreshSchedule(context.Background(), "")
	assert.ErrorIs(t, err, fantasy.ErrFeedUnavailable)
	assert.Equal(t, time.Now().UTC().Format("2006"), schedule.season)
	assert.Equal(t, int64(0), countRows(t, db, &models.Season{}))
}
