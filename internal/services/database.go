package services

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"schemagraph/internal/models"
)

// InitDB opens the database with connection pooling. A DSN starting with
// "file:" or ending in ".db" opens SQLite; anything else is a postgres DSN.
func InitDB(dsn string) (*gorm.DB, error) {
	dialector := postgres.Open(dsn)
	if isSQLite(dsn) {
		dialector = sqlite.Open(dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	if isSQLite(dsn) {
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info("database connection established", "driver", dialector.Name())
	return db, nil
}

func isSQLite(dsn string) bool {
	return strings.HasPrefix(dsn, "file:") || strings.HasSuffix(dsn, ".db")
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		&models.Setting{},
		&models.CustomSchemaSet{},
		&models.Term{},
		&models.Page{},
		&models.MenuLocation{},
		&models.MenuItem{},
		&models.PeriodicTask{},
		&models.TaskRun{},
	)
	if err != nil {
		return err
	}

	log.Info("database migrations completed")
	return nil
}
