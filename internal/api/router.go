package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stitts-dev/fantasy-golf/internal/api/handlers"
	"github.com/stitts-dev/fantasy-golf/internal/api/middleware"
	"github.com/stitts-dev/fantasy-golf/internal/services"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
)

// Dependencies bundles what the routes need. main builds it once.
type Dependencies struct {
	DB         *database.DB
	Cache      *services.CacheService
	Breakers   *services.CircuitBreakerService
	Teams      *services.TeamService
	Roster     *services.RosterService
	EventSync  *services.EventSyncService
	GolferSync *services.GolferSyncService
	Refresher  *services.EventRefresher
	Tracker    *services.UsedPlayersTracker
	JWTSecret  string
	Logger     *logrus.Logger
}

// NewRouter builds the engine with /health and the /api/v1 group.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))

	health := handlers.NewHealthHandler(deps.DB, deps.Cache, deps.Breakers)
	router.GET("/health", health.GetHealth)

	SetupRoutes(router.Group("/api/v1"), deps)
	return router
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, deps Dependencies) {
	teamHandler := handlers.NewTeamHandler(deps.Teams, deps.Roster, deps.Logger)
	eventHandler := handlers.NewEventHandler(deps.DB)
	seasonHandler := handlers.NewSeasonHandler(deps.DB)
	userHandler := handlers.NewUserHandler(deps.DB)
	adminHandler := handlers.NewAdminHandler(deps.DB, deps.Cache, deps.EventSync, deps.GolferSync, deps.Refresher, deps.Tracker, deps.Teams, deps.Logger)

	auth := group.Group("")
	auth.Use(middleware.AuthRequired(deps.JWTSecret))
	{
		auth.POST("/teams", teamHandler.CreateTeam)
		auth.GET("/teams/:id", teamHandler.GetTeam)
		auth.POST("/teams/:id/roster", teamHandler.UpdateRoster)

		auth.GET("/events", eventHandler.ListEvents)
		auth.GET("/events/:id", eventHandler.GetEvent)
		auth.GET("/events/:id/golfers", eventHandler.GetEventGolfers)
	}

	admin := auth.Group("/admin")
	admin.Use(middleware.AdminRequired())
	{
		admin.POST("/events/refresh", adminHandler.RefreshSchedule)
		admin.POST("/events/:id/refresh", adminHandler.RefreshEvent)
		admin.POST("/golfers/refresh", adminHandler.RefreshGolfers)
		admin.POST("/teams/refresh", adminHandler.RefreshTeams)
		admin.GET("/teams", adminHandler.ListTeams)

		admin.GET("/seasons", seasonHandler.ListSeasons)
		admin.POST("/seasons", seasonHandler.CreateSeason)
		admin.GET("/seasons/:id", seasonHandler.GetSeason)
		admin.PUT("/seasons/:id", seasonHandler.UpdateSeason)

		admin.GET("/users", userHandler.ListUsers)
		admin.POST("/users", userHandler.CreateUser)
	}
}
