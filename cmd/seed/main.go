package main

import (
	"log"
	"time"

	"conference-review-api/config"
	"conference-review-api/models"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the platform roles, an admin account and a demo conference. Safe to
// re-run; existing rows are left alone.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	now := time.Now()

	roles := []models.Role{
		{RoleID: models.RoleIDMember, Role: "member", CreateAt: &now},
		{RoleID: models.RoleIDAdmin, Role: "admin", CreateAt: &now},
	}
	for _, role := range roles {
		if err := config.DB.Where("role_id = ?", role.RoleID).
			FirstOrCreate(&role).Error; err != nil {
			log.Fatal("Failed to seed roles:", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme-admin"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash admin password:", err)
	}
	admin := models.User{
		UserFname: "System",
		UserLname: "Admin",
		Email:     "admin@example.org",
		Password:  string(hash),
		RoleID:    models.RoleIDAdmin,
		CreateAt:  &now,
	}
	if err := config.DB.Where("email = ?", admin.Email).
		FirstOrCreate(&admin).Error; err != nil {
		log.Fatal("Failed to seed admin user:", err)
	}

	conference := models.Conference{
		Name:     "Demo Conference on Software Engineering",
		Acronym:  "DEMO",
		Year:     now.Year(),
		CreateAt: now,
		UpdateAt: now,
	}
	if err := config.DB.Where("acronym = ? AND year = ?", conference.Acronym, conference.Year).
		FirstOrCreate(&conference).Error; err != nil {
		log.Fatal("Failed to seed conference:", err)
	}

	chair := models.ConferenceMember{
		ConferenceID: conference.ConferenceID,
		UserID:       admin.UserID,
		Role:         models.ConferenceRoleChair,
	}
	if err := config.DB.Where("conference_id = ? AND user_id = ? AND role = ?",
		conference.ConferenceID, admin.UserID, models.ConferenceRoleChair).
		Attrs(models.ConferenceMember{JoinedAt: now}).
		FirstOrCreate(&chair).Error; err != nil {
		log.Fatal("Failed to seed chair membership:", err)
	}

	log.Println("Seed completed")
}
