package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fantasy-golf/internal/api"
	"github.com/stitts-dev/fantasy-golf/internal/providers"
	"github.com/stitts-dev/fantasy-golf/internal/services"
	"github.com/stitts-dev/fantasy-golf/pkg/config"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
	"github.com/stitts-dev/fantasy-golf/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.InitLogger(cfg.LogLevel, cfg.LogFormat)
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Redis is optional; without it feed responses are not cached
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		log.Warn("REDIS_URL not set; feed caching disabled")
	}
	cacheService := services.NewCacheService(redisClient)

	// Initialize data providers
	breakers := services.NewCircuitBreakerService(cfg.CircuitBreakerThreshold, time.Minute, log)
	espn := providers.NewESPNGolfClient(providers.ESPNOptions{
		BaseURL:   cfg.ESPNBaseURL,
		RateLimit: cfg.ESPNRateLimit,
		Timeout:   cfg.ExternalAPITimeout,
	}, cacheService, breakers, log)
	salaryFeed := providers.NewSalaryFeedClient(cfg.SalaryFeedURL, cfg.SalaryDivisor, cfg.ExternalAPITimeout, cacheService, breakers, log)

	// Initialize services
	rules := cfg.RosterRules()
	reconciler := services.NewReconciler(db, log)
	tracker := services.NewUsedPlayersTracker(db, rules, log)
	refresher := services.NewEventRefresher(db, espn, reconciler, tracker, cfg.FeedSeason, log)

	if cfg.EnableBackgroundJobs {
		scheduler := services.NewRefreshScheduler(refresher, cfg.RefreshSchedule, 5*time.Minute, log)
		if err := scheduler.Start(); err != nil {
			log.Errorf("Failed to start refresh scheduler: %v", err)
		}
		defer scheduler.Stop()
	}

	router := api.NewRouter(api.Dependencies{
		DB:         db,
		Cache:      cacheService,
		Breakers:   breakers,
		Teams:      services.NewTeamService(db, rules.RoundsPerEvent, log),
		Roster:     services.NewRosterService(db, rules, log),
		EventSync:  services.NewEventSyncService(db, espn, log),
		GolferSync: services.NewGolferSyncService(db, espn, salaryFeed, cfg.FeedSeason, log),
		Refresher:  refresher,
		Tracker:    tracker,
		JWTSecret:  cfg.JWTSecret,
		Logger:     log,
	})

	if cfg.IsDevelopment() {
		for _, route := range router.Routes() {
			log.Debugf("%s %s", route.Method, route.Path)
		}
	}

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithField("site", cfg.SiteName).Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
