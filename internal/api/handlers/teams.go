package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stitts-dev/fantasy-golf/internal/api/middleware"
	"github.com/stitts-dev/fantasy-golf/internal/services"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

type TeamHandler struct {
	teams  *services.TeamService
	roster *services.RosterService
	logger *logrus.Logger
}

func NewTeamHandler(teams *services.TeamService, roster *services.RosterService, logger *logrus.Logger) *TeamHandler {
	return &TeamHandler{teams: teams, roster: roster, logger: logger}
}

type createTeamRequest struct {
	EventID uuid.UUID `json:"event_id" binding:"required"`
}

// CreateTeam enters the caller into an event, returning the existing team if
// there is one.
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.SendUnauthorized(c, "Authentication required")
		return
	}

	var req createTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	team, created, err := h.teams.CreateTeam(c.Request.Context(), userID, req.EventID)
	if err != nil {
		sendServiceError(c, err, "Failed to create team")
		return
	}

	view, err := h.roster.Roster(c.Request.Context(), team.ID)
	if err != nil {
		sendServiceError(c, err, "Failed to load team")
		return
	}
	if created {
		utils.SendCreated(c, view)
		return
	}
	utils.SendSuccess(c, view)
}

func (h *TeamHandler) GetTeam(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !h.authorize(c, teamID) {
		return
	}

	view, err := h.roster.Roster(c.Request.Context(), teamID)
	if err != nil {
		sendServiceError(c, err, "Failed to load team")
		return
	}
	utils.SendSuccess(c, view)
}

// UpdateRoster applies one roster intent. Rejections carry the unchanged
// roster in data.
func (h *TeamHandler) UpdateRoster(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var intent services.RosterIntent
	if err := c.ShouldBindJSON(&intent); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if intent.GolferID == uuid.Nil {
		utils.SendValidationError(c, "Invalid request body", "golfer is required")
		return
	}
	intent.TeamID = teamID

	if !h.authorize(c, teamID) {
		return
	}

	result, err := h.roster.Apply(c.Request.Context(), intent)
	if err != nil {
		sendServiceError(c, err, "Failed to update roster")
		return
	}

	if result.Accepted {
		utils.SendSuccess(c, result.Roster)
		return
	}
	utils.SendRejected(c, utils.NewAppError(string(result.Reason), result.Message), result.Roster)
}

// authorize allows a team's owner and admins; it responds on failure.
func (h *TeamHandler) authorize(c *gin.Context, teamID uuid.UUID) bool {
	if middleware.CurrentRole(c).IsAdmin() {
		return true
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.SendUnauthorized(c, "Authentication required")
		return false
	}

	owner, err := h.teams.OwnerOf(c.Request.Context(), teamID)
	if err != nil {
		sendServiceError(c, err, "Failed to load team")
		return false
	}
	if owner != userID {
		utils.SendForbidden(c, "Team belongs to another user")
		return false
	}
	return true
}
