package database

import (
	"fmt"
	"log"

	"event-portal/internal/config"
	"event-portal/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open opens a gorm handle for the configured driver
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	default:
		dialector = postgres.Open(cfg.GetDSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Connect establishes the process-wide database connection
func Connect(cfg *config.Config) error {
	db, err := Open(cfg)
	if err != nil {
		return err
	}
	DB = db

	log.Printf("Database connection established successfully (%s)", cfg.Database.Driver)
	return nil
}

// Models lists every table the service owns, in migration order
func Models() []interface{} {
	return []interface{}{
		// Registration
		&models.College{},
		&models.InfluencerCoupon{},
		&models.User{},
		&models.EmailVerification{},
		&models.Ticket{},
		&models.Sequence{},
		&models.PaymentOrder{},

		// Live session
		&models.Contestant{},
		&models.ContestantVote{},
		&models.Pitch{},
		&models.PitchRating{},

		// Event catalogue
		&models.Category{},
		&models.Sponsor{},
		&models.SponsorRequest{},
		&models.Stall{},

		&models.AdminLog{},
	}
}

// Migrate runs schema migrations and seeds counters on db
func Migrate(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migration failed for %T: %w", model, err)
		}
	}

	return SeedSequences(db)
}

// SeedSequences creates the ticket code counter, starting it at the number of
// tickets already issued so codes continue from existing data.
func SeedSequences(db *gorm.DB) error {
	var issued int64
	if err := db.Model(&models.Ticket{}).Count(&issued).Error; err != nil {
		return fmt.Errorf("failed to count tickets: %w", err)
	}

	seq := models.Sequence{Name: models.SequenceTicketCode, Value: issued}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error; err != nil {
		return fmt.Errorf("failed to seed sequence: %w", err)
	}
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	if err := Migrate(DB); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
