package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stitts-dev/fantasy-golf/internal/fantasy"
	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/internal/services"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
	"gorm.io/gorm"
)

// AdminHandler triggers the feed refreshes and lists teams for operators.
type AdminHandler struct {
	db         *database.DB
	cache      *services.CacheService
	eventSync  *services.EventSyncService
	golferSync *services.GolferSyncService
	refresher  *services.EventRefresher
	tracker    *services.UsedPlayersTracker
	teams      *services.TeamService
	logger     *logrus.Logger
}

func NewAdminHandler(
	db *database.DB,
	cache *services.CacheService,
	eventSync *services.EventSyncService,
	golferSync *services.GolferSyncService,
	refresher *services.EventRefresher,
	tracker *services.UsedPlayersTracker,
	teams *services.TeamService,
	logger *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		db:         db,
		cache:      cache,
		eventSync:  eventSync,
		golferSync: golferSync,
		refresher:  refresher,
		tracker:    tracker,
		teams:      teams,
		logger:     logger,
	}
}

type refreshScheduleRequest struct {
	Season string `json:"season"`
}

type refreshEventRequest struct {
	TournamentID string `json:"tournament_id"`
}

type tournamentRequest struct {
	TournamentID string `json:"tournament_id" binding:"required"`
	Days         []int  `json:"days"`
}

// RefreshSchedule pulls the tour schedule into seasons and events.
// ?fresh=true skips the cached schedule.
func (h *AdminHandler) RefreshSchedule(c *gin.Context) {
	var req refreshScheduleRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	h.dropCachedFeed(c, fantasy.ScheduleCacheKey(req.Season))

	result, err := h.eventSync.RefreshSchedule(c.Request.Context(), req.Season)
	if err != nil {
		h.logRefreshFailure("schedule", err)
		sendServiceError(c, err, "Failed to refresh schedule")
		return
	}
	respondRefresh(c, result)
}

// RefreshEvent reconciles one event's leaderboard; ?sweep=true also runs the
// used-players sweep.
func (h *AdminHandler) RefreshEvent(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req refreshEventRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	sweep, _ := strconv.ParseBool(c.DefaultQuery("sweep", "false"))

	result, err := h.refresher.RefreshEvent(c.Request.Context(), eventID, services.RefreshOptions{
		TournamentID: req.TournamentID,
		Sweep:        sweep,
	})
	if err != nil {
		h.logRefreshFailure("event", err)
		sendServiceError(c, err, "Failed to refresh event")
		return
	}
	respondRefresh(c, result)
}

// RefreshGolfers imports an event's field and salaries. ?fresh=true skips
// the cached salaries.
func (h *AdminHandler) RefreshGolfers(c *gin.Context) {
	var req tournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	h.dropCachedFeed(c, fantasy.SalaryCacheKey)

	result, err := h.golferSync.RefreshEventGolfers(c.Request.Context(), req.TournamentID)
	if err != nil {
		h.logRefreshFailure("golfers", err)
		sendServiceError(c, err, "Failed to refresh golfers")
		return
	}
	respondRefresh(c, result)
}

// RefreshTeams runs the used-players sweep for the event with the given
// external id.
func (h *AdminHandler) RefreshTeams(c *gin.Context) {
	var req tournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	var event models.Event
	err := h.db.WithContext(c.Request.Context()).Select("id").First(&event, "external_id = ?", req.TournamentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sendServiceError(c, fantasy.ErrEventNotFound, "")
		return
	}
	if err != nil {
		sendServiceError(c, fmt.Errorf("failed to load event: %w", err), "Failed to refresh teams")
		return
	}

	results, err := h.tracker.SweepEvent(c.Request.Context(), event.ID, req.Days)
	if err != nil {
		h.logRefreshFailure("teams", err)
		sendServiceError(c, err, "Failed to refresh teams")
		return
	}
	respondRefresh(c, gin.H{"event_id": event.ID, "teams": results})
}

// ListTeams lists an event's teams by score, best first.
func (h *AdminHandler) ListTeams(c *gin.Context) {
	eventID, err := uuid.Parse(c.Query("event_id"))
	if err != nil {
		utils.SendValidationError(c, "event_id query parameter is required", err.Error())
		return
	}

	teams, err := h.teams.ListEventTeams(c.Request.Context(), eventID)
	if err != nil {
		sendServiceError(c, err, "Failed to list teams")
		return
	}
	utils.SendSuccess(c, teams)
}

func (h *AdminHandler) logRefreshFailure(kind string, err error) {
	h.logger.WithFields(logrus.Fields{
		"component": "admin",
		"refresh":   kind,
	}).WithError(err).Warn("Admin refresh failed")
}

// bindOptionalJSON accepts an empty body.
func bindOptionalJSON(c *gin.Context, dest interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dest); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return false
	}
	return true
}

func (h *AdminHandler) dropCachedFeed(c *gin.Context, key string) {
	if fresh, _ := strconv.ParseBool(c.Query("fresh")); !fresh {
		return
	}
	if err := h.cache.Invalidate(c.Request.Context(), key); err != nil {
		h.logger.WithError(err).WithField("key", key).Warn("Failed to drop cached feed")
	}
}
