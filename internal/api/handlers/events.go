package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
	"gorm.io/gorm"
)

type EventHandler struct {
	db *database.DB
}

func NewEventHandler(db *database.DB) *EventHandler {
	return &EventHandler{db: db}
}

// ListEvents returns events ordered by start date, filtered by the optional
// status and season_id query parameters.
func (h *EventHandler) ListEvents(c *gin.Context) {
	query := h.db.WithContext(c.Request.Context()).Model(&models.Event{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if seasonID := c.Query("season_id"); seasonID != "" {
		query = query.Where("season_id = ?", seasonID)
	}

	var events []models.Event
	if err := query.Order("start_date ASC").Find(&events).Error; err != nil {
		utils.SendInternalError(c, "Failed to fetch events")
		return
	}
	utils.SendSuccessWithMeta(c, events, &utils.Meta{Total: int64(len(events))})
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var event models.Event
	err := h.db.WithContext(c.Request.Context()).First(&event, "id = ?", eventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.SendNotFound(c, "Event not found")
		return
	}
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch event")
		return
	}
	utils.SendSuccess(c, event)
}

// GetEventGolfers lists the event's field, most expensive first.
func (h *EventHandler) GetEventGolfers(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := h.db.WithContext(c.Request.Context())
	var event models.Event
	err := db.Select("id").First(&event, "id = ?", eventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.SendNotFound(c, "Event not found")
		return
	}
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch event")
		return
	}

	var golfers []models.Golfer
	if err := db.Model(&event).Order("salary DESC, name ASC").Association("Golfers").Find(&golfers); err != nil {
		utils.SendInternalError(c, "Failed to fetch golfers")
		return
	}
	utils.SendSuccess(c, golfers)
}
