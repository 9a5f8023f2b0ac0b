package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
	"gorm.io/gorm"
)

type SeasonHandler struct {
	db *database.DB
}

func NewSeasonHandler(db *database.DB) *SeasonHandler {
	return &SeasonHandler{db: db}
}

type seasonRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func (h *SeasonHandler) ListSeasons(c *gin.Context) {
	var seasons []models.Season
	if err := h.db.WithContext(c.Request.Context()).Order("start_date DESC").Find(&seasons).Error; err != nil {
		utils.SendInternalError(c, "Failed to fetch seasons")
		return
	}
	utils.SendSuccess(c, seasons)
}

func (h *SeasonHandler) GetSeason(c *gin.Context) {
	season, ok := h.loadSeason(c)
	if !ok {
		return
	}
	utils.SendSuccess(c, season)
}

func (h *SeasonHandler) CreateSeason(c *gin.Context) {
	var req seasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	db := h.db.WithContext(c.Request.Context())
	var count int64
	if err := db.Model(&models.Season{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		utils.SendInternalError(c, "Failed to create season")
		return
	}
	if count > 0 {
		utils.SendConflict(c, "Season "+req.Name+" already exists")
		return
	}

	season := models.Season{Name: req.Name, StartDate: req.StartDate, EndDate: req.EndDate}
	if err := db.Create(&season).Error; err != nil {
		utils.SendInternalError(c, "Failed to create season")
		return
	}
	utils.SendCreated(c, season)
}

func (h *SeasonHandler) UpdateSeason(c *gin.Context) {
	season, ok := h.loadSeason(c)
	if !ok {
		return
	}

	var req seasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	err := h.db.WithContext(c.Request.Context()).Model(season).Updates(map[string]interface{}{
		"name":       req.Name,
		"start_date": req.StartDate,
		"end_date":   req.EndDate,
	}).Error
	if err != nil {
		utils.SendInternalError(c, "Failed to update season")
		return
	}
	utils.SendSuccess(c, season)
}

func (h *SeasonHandler) loadSeason(c *gin.Context) (*models.Season, bool) {
	seasonID, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}

	var season models.Season
	err := h.db.WithContext(c.Request.Context()).First(&season, "id = ?", seasonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.SendNotFound(c, "Season not found")
		return nil, false
	}
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch season")
		return nil, false
	}
	return &season, true
}
