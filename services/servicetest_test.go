package services

import (
	"testing"
	"time"

	"conference-review-api/config"
	"conference-review-api/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points config.DB at a fresh in-memory SQLite database with the
// full schema. A single connection keeps the memory database alive across
// transactions.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
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
	))

	config.DB = db
	return db
}

func seedUser(t *testing.T, db *gorm.DB, fname string, roleID int) models.User {
	t.Helper()
	user := models.User{
		UserFname: fname,
		UserLname: "Tester",
		Email:     fname + "@example.org",
		Password:  "x",
		RoleID:    roleID,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedConference(t *testing.T, db *gorm.DB) models.Conference {
	t.Helper()
	now := time.Now()
	conference := models.Conference{
		Name:     "Test Conference",
		Acronym:  "TEST",
		Year:     now.Year(),
		CreateAt: now,
		UpdateAt: now,
	}
	require.NoError(t, db.Create(&conference).Error)
	return conference
}

func seedMember(t *testing.T, db *gorm.DB, conferenceID, userID int, role string, joinedAt time.Time) {
	t.Helper()
	member := models.ConferenceMember{
		ConferenceID: conferenceID,
		UserID:       userID,
		Role:         role,
		JoinedAt:     joinedAt,
	}
	require.NoError(t, db.Create(&member).Error)
}

func seedPaper(t *testing.T, db *gorm.DB, conferenceID int, authorIDs ...int) models.Paper {
	t.Helper()
	now := time.Now()
	paper := models.Paper{
		ConferenceID: conferenceID,
		Title:        "A Paper",
		Abstract:     "An abstract",
		Status:       models.PaperStatusSubmitted,
		SubmittedBy:  authorIDs[0],
		SubmittedAt:  now,
		CreateAt:     now,
		UpdateAt:     now,
	}
	require.NoError(t, db.Create(&paper).Error)
	for order, authorID := range authorIDs {
		author := models.PaperAuthor{
			PaperID:     paper.PaperID,
			UserID:      authorID,
			AuthorOrder: order + 1,
		}
		require.NoError(t, db.Create(&author).Error)
		seedMember(t, db, conferenceID, authorID, models.ConferenceRoleAuthor, now)
	}
	return paper
}

func seedSubmittedReview(t *testing.T, db *gorm.DB, paperID, reviewerID int, score, confidence int) models.ReviewAssignment {
	t.Helper()
	now := time.Now()
	assignment := models.ReviewAssignment{
		PaperID:    paperID,
		ReviewerID: reviewerID,
		Status:     models.AssignmentStatusSubmitted,
		CreateAt:   now,
	}
	require.NoError(t, db.Create(&assignment).Error)
	comments := "Comments for the authors"
	review := models.Review{
		AssignmentID:     assignment.AssignmentID,
		Score:            &score,
		Confidence:       &confidence,
		CommentsToAuthor: &comments,
		SubmittedAt:      &now,
		CreateAt:         now,
		UpdateAt:         now,
	}
	require.NoError(t, db.Create(&review).Error)
	return assignment
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func timePtr(v time.Time) *time.Time { return &v }
