package main

import (
	"log"

	"conference-review-api/config"
	"conference-review-api/models"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	err := config.DB.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Conference{},
		&models.Track{},
		&models.ConferenceMember{},
		&models.Paper{},
		&models.PaperAuthor{},
		&models.PaperFile{},
		&models.Bid{},
		&models.Conflict{},
		&models.ReviewAssignment{},
		&models.Review{},
		&models.Decision{},
		&models.Notification{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("Migration completed")
}
