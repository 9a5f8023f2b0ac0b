package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite:"

type DB struct {
	*gorm.DB
}

type pool struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
}

// An in-memory sqlite database lives and dies with its single connection.
var (
	sqlitePool   = pool{maxOpen: 1, maxIdle: 1}
	postgresPool = pool{maxOpen: 100, maxIdle: 10, maxLifetime: time.Hour}
)

// dialectorFor picks sqlite for "sqlite:<path>" URLs (":memory:" included)
// and postgres for anything else.
func dialectorFor(databaseURL string) (gorm.Dialector, pool) {
	if path, ok := strings.CutPrefix(databaseURL, sqlitePrefix); ok {
		return sqlite.Open(path), sqlitePool
	}
	return postgres.Open(databaseURL), postgresPool
}

// NewConnection opens and pings the league database. Development mode logs
// every statement.
func NewConnection(databaseURL string, isDevelopment bool) (*DB, error) {
	level := gormlogger.Error
	if isDevelopment {
		level = gormlogger.Info
	}

	dialector, p := dialectorFor(databaseURL)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:      gormlogger.Default.LogMode(level),
		NowFunc:     func() time.Time { return time.Now().UTC() },
		PrepareStmt: dialector.Name() == "postgres",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(p.maxOpen)
	sqlDB.SetMaxIdleConns(p.maxIdle)
	sqlDB.SetConnMaxLifetime(p.maxLifetime)

	conn := &DB{db}
	if err := conn.Ping(context.Background()); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"component": "database",
		"driver":    dialector.Name(),
	}).Info("Database connection established")

	return conn, nil
}

// Ping checks the underlying connection.
func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
