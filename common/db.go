package common

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDb opens the sqlite database named by dsn. "memory" selects a
// shared in-memory database.
func ConnectDb(dsn string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	if dsn == "" {
		return nil, fmt.Errorf("database dsn not set")
	}

	if dsn == "memory" {
		dsn = "file::memory:?cache=shared"
		log.Println("opening in-memory sqlite db")
	} else if dir := filepath.Dir(dsn); dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite db %s: %w", dsn, err)
	}
	log.Println("opened sqlite db at:", dsn)
	return db, nil
}
