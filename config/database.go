package config

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ConnectDatabase opens the database pointed at by DATABASE_URL. A postgres://
// URL selects the postgres driver; anything else is treated as a sqlite file
// path, which keeps local development dependency-free.
func ConnectDatabase(cfg *Config) *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)

	if strings.HasPrefix(cfg.DatabaseURL, "postgres://") || strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	return db
}
