package db

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/talent-app/internal/models"
)

// ConnectAndMigrate opens the configured database and brings the schema up
// to date. A sqlite DSN (file path or :memory:) is accepted for local dev;
// anything else goes through the postgres driver with a short retry loop.
func ConnectAndMigrate() (*gorm.DB, error) {
	dsn := GetNormalizedDSN()
	if dsn == "" {
		return nil, errors.New("DATABASE_DSN est vide, vérifiez la configuration de l'environnement")
	}

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var conn *gorm.DB
	var err error
	if isSQLiteDSN(dsn) {
		conn, err = gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, "sqlite://")), cfg)
	} else {
		for i := 0; i < 10; i++ {
			conn, err = gorm.Open(postgres.Open(dsn), cfg)
			if err == nil {
				break
			}
			log.Printf("DB non prête (tentative %d/10): %v", i+1, err)
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connexion base de données: %w", err)
	}

	if err := AutoMigrate(conn); err != nil {
		return nil, err
	}
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" && !isSQLiteDSN(dsn) {
		if err := runFileMigrations(dir, dsn); err != nil {
			return nil, err
		}
	}
	return conn, nil
}

func isSQLiteDSN(dsn string) bool {
	lower := strings.ToLower(dsn)
	return strings.HasPrefix(lower, "sqlite://") || strings.HasPrefix(lower, "file:") ||
		strings.HasSuffix(lower, ".db") || lower == ":memory:"
}

// AutoMigrate creates/updates tables for every model of the application.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.Agency{},
		&models.User{},
		&models.Invitation{},
		&models.Collaborator{},
		&models.Talent{},
		&models.TalentAssignment{},
		&models.Collaboration{},
		&models.CalendarEvent{},
		&models.AuditLog{},
	)
}

// runFileMigrations applies versioned SQL migrations on top of AutoMigrate.
// Used for destructive changes AutoMigrate refuses to make (column drops,
// backfills).
func runFileMigrations(dir, dsn string) error {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
