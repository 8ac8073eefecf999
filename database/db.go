package database

import (
	"rental-booking/config"
	"rental-booking/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB connects to PostgreSQL and brings the schema up to date.
func InitDB(cfg config.App) (*gorm.DB, error) {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := Migrate(DB); err != nil {
		logger.Error("Failed to migrate the database", err)
		return nil, err
	}
	return DB, nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
