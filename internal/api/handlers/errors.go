package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stitts-dev/fantasy-golf/internal/fantasy"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

// sendServiceError maps service errors onto the response envelope.
func sendServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, fantasy.ErrTeamNotFound):
		utils.SendNotFound(c, "Team not found")
	case errors.Is(err, fantasy.ErrGolferNotFound):
		utils.SendNotFound(c, "Golfer not found")
	case errors.Is(err, fantasy.ErrEventNotFound):
		utils.SendNotFound(c, "Event not found")
	case errors.Is(err, fantasy.ErrUserNotFound):
		utils.SendNotFound(c, "User not found")
	case errors.Is(err, fantasy.ErrSeasonNotFound):
		utils.SendNotFound(c, "Season not found")
	case errors.Is(err, fantasy.ErrInvalidSeat), errors.Is(err, fantasy.ErrInvalidIntent):
		utils.SendValidationError(c, "Invalid roster request", err.Error())
	case errors.Is(err, fantasy.ErrFeedUnavailable):
		utils.SendBadGateway(c, "Upstream feed unavailable", err.Error())
	default:
		_ = c.Error(err)
		utils.SendInternalError(c, fallback)
	}
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.SendValidationError(c, "Invalid "+name, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

// respondRefresh answers an admin refresh with the summary, or a 303 to the
// redirect query parameter when it is a local path.
func respondRefresh(c *gin.Context, summary interface{}) {
	if target := c.Query("redirect"); isLocalPath(target) {
		c.Redirect(http.StatusSeeOther, target)
		return
	}
	utils.SendSuccess(c, summary)
}

// isLocalPath accepts "/x" but not "//host" or "/\host", which browsers
// resolve to another origin.
func isLocalPath(target string) bool {
	if !strings.HasPrefix(target, "/") || strings.ContainsRune(target, '\\') {
		return false
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == "" && !strings.HasPrefix(u.Path, "//")
}
