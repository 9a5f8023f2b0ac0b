package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stitts-dev/fantasy-golf/internal/api/middleware"
	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

type UserHandler struct {
	db *database.DB
}

func NewUserHandler(db *database.DB) *UserHandler {
	return &UserHandler{db: db}
}

type createUserRequest struct {
	Email     string      `json:"email" binding:"required,email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      models.Role `json:"role"`
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.db.WithContext(c.Request.Context()).Order("email ASC").Find(&users).Error; err != nil {
		utils.SendInternalError(c, "Failed to fetch users")
		return
	}
	utils.SendSuccessWithMeta(c, users, &utils.Meta{Total: int64(len(users))})
}

// CreateUser adds a user. Only a super admin may grant a role above USER.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	switch req.Role {
	case "", models.RoleUser:
	case models.RoleAdmin, models.RoleSuperAdmin:
		if middleware.CurrentRole(c) != models.RoleSuperAdmin {
			utils.SendForbidden(c, "Only a super admin can grant admin roles")
			return
		}
	default:
		utils.SendValidationError(c, "Invalid role", string(req.Role))
		return
	}

	db := h.db.WithContext(c.Request.Context())
	email := strings.ToLower(strings.TrimSpace(req.Email))
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		utils.SendInternalError(c, "Failed to create user")
		return
	}
	if count > 0 {
		utils.SendConflict(c, "A user with that email already exists")
		return
	}

	user := models.User{Email: email, FirstName: req.FirstName, LastName: req.LastName, Role: req.Role}
	if err := db.Create(&user).Error; err != nil {
		utils.SendInternalError(c, "Failed to create user")
		return
	}
	utils.SendCreated(c, user)
}
