package database

import (
	"fmt"
	"log"

	"github.com/jFurkan/katil-oyunu-sub000/internal/config"
	"github.com/jFurkan/katil-oyunu-sub000/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	log.Println("database connected")
	return db
}

func AutoMigrate(db *gorm.DB) {
	if err := Migrate(db); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}
	log.Println("database migrated")
}

// Migrate is split out from AutoMigrate so tests can run the same schema
// against an in-memory database without the fatal path.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Clue{},
		&models.GeneralClue{},
		&models.Character{},
		&models.BoardItem{},
		&models.BoardConnection{},
		&models.Badge{},
		&models.Credit{},
		&models.Message{},
		&models.IPActivity{},
	)
}
