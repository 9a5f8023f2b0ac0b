package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/stitts-dev/fantasy-golf/internal/api/middleware"
	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/pkg/config"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
	"github.com/stitts-dev/fantasy-golf/pkg/logger"
)

const defaultAdminEmail = "admin@example.com"

// dropOrder lists tables children first so foreign keys never block a drop.
var dropOrder = []string{
	"team_golfers",
	"teams",
	"performances",
	"event_golfers",
	"events",
	"golfers",
	"users",
	"seasons",
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfg *config.Config
		db  *database.DB
		log *logrus.Logger
	)

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the fantasy golf database schema",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.LoadConfig(); err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log = logger.InitLogger(cfg.LogLevel, cfg.LogFormat)
			if db, err = database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment()); err != nil {
				return err
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if db == nil {
				return nil
			}
			return db.Close()
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Create or update every table",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := db.AutoMigrate(models.All()...); err != nil {
					return fmt.Errorf("failed to migrate models: %w", err)
				}
				log.Info("Migrations completed successfully")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Drop every table",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				for _, table := range dropOrder {
					if err := db.Migrator().DropTable(table); err != nil {
						return fmt.Errorf("failed to drop table %s: %w", table, err)
					}
				}
				log.Info("Tables dropped successfully")
				return nil
			},
		},
		&cobra.Command{
			Use:   "seed [admin-email]",
			Short: "Create the current season and a super admin, then print a week-long admin token",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				email := defaultAdminEmail
				if len(args) == 1 {
					email = args[0]
				}
				token, err := seed(db, cfg.JWTSecret, email, time.Now().UTC(), log)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			},
		},
	)

	return root
}

func seed(db *database.DB, secret, adminEmail string, now time.Time, log *logrus.Logger) (string, error) {
	year := now.Year()
	season := models.Season{
		Name:      strconv.Itoa(year),
		StartDate: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Where(models.Season{Name: season.Name}).FirstOrCreate(&season).Error; err != nil {
		return "", fmt.Errorf("failed to seed season: %w", err)
	}

	var admin models.User
	err := db.Where("email = ?", adminEmail).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		admin = models.User{Email: adminEmail, FirstName: "Site", LastName: "Admin", Role: models.RoleSuperAdmin}
		err = db.Create(&admin).Error
	}
	if err != nil {
		return "", fmt.Errorf("failed to seed admin: %w", err)
	}

	token, err := middleware.GenerateToken(admin, secret, 7*24*time.Hour)
	if err != nil {
		return "", fmt.Errorf("failed to sign admin token: %w", err)
	}

	log.WithFields(logrus.Fields{
		"season": season.Name,
		"admin":  admin.Email,
	}).Info("Seeded season and admin")
	return token, nil
}
