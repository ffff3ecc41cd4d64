package services

import (
	"testing"
	"time"

	"conference-review-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedChair(t *testing.T, db *gorm.DB, conferenceID int, name string) models.User {
	t.Helper()
	user := seedUser(t, db, name, models.RoleIDMember)
	seedMember(t, db, conferenceID, user.UserID, models.ConferenceRoleChair, time.Now())
	return user
}

func TestMakeDecisionRequiresCompletedReview(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	author := seedUser(t, db, "author", models.RoleIDMember)
	chair := seedChair(t, db, conference.ConferenceID, "chair")
	paper := seedPaper(t, db, conference.ConferenceID, author.UserID)

	// A draft on file is not enough; the review must be submitted.
	reviewer := seedReviewer(t, db, conference.ConferenceID, "reviewer", time.Now())
	assignment := models.ReviewAssignment{
		PaperID:    paper.PaperID,
		ReviewerID: reviewer.UserID,
		Status:     models.AssignmentStatusDraft,
		CreateAt:   time.Now(),
	}
	require.NoError(t, db.Create(&assignment).Error)

	_, err := MakeDecision(paper.PaperID, chair.UserID, models.DecisionAccept, "", "127.0.0.1")

	require.Error(t, err)
	assert.Equal(t, ErrKindNoReviewsSubmitted, KindOf(err))

	var count int64
	require.NoError(t, db.Model(&models.Decision{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMakeDecisionSnapshotsCompletedReviewsOnly(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	author := seedUser(t, db, "author", models.RoleIDMember)
	chair := seedChair(t, db, conference.ConferenceID, "chair")
	paper := seedPaper(t, db, conference.ConferenceID, author.UserID)

	r1 := seedReviewer(t, db, conference.ConferenceID, "r1", time.Now())
	r2 := seedReviewer(t, db, conference.ConferenceID, "r2", time.Now())
	r3 := seedReviewer(t, db, conference.ConferenceID, "r3", time.Now())
	seedSubmittedReview(t, db, paper.PaperID, r1.UserID, 4, 3)
	seedSubmittedReview(t, db, paper.PaperID, r2.UserID, 6, 5)
	assignment := models.ReviewAssignment{
		PaperID:    paper.PaperID,
		ReviewerID: r3.UserID,
		Status:     models.AssignmentStatusNotStarted,
		CreateAt:   time.Now(),
	}
	require.NoError(t, db.Create(&assignment).Error)

	response, err := MakeDecision(paper.PaperID, chair.UserID, models.DecisionAccept, "Solid work", "127.0.0.1")
	require.NoError(t, err)

	assert.True(t, response.HasDecision)
	require.NotNil(t, response.Decision)
	assert.Equal(t, models.DecisionAccept, response.Decision.FinalDecision)
	require.NotNil(t, response.Decision.AverageScore)
	assert.InDelta(t, 5.0, *response.Decision.AverageScore, 0.001)
	require.NotNil(t, response.Decision.AverageConfidence)
	assert.InDelta(t, 4.0, *response.Decision.AverageConfidence, 0.001)
	require.NotNil(t, response.Decision.ReviewCount)
	assert.Equal(t, 2, *response.Decision.ReviewCount)
	require.NotNil(t, response.DecidedBy)
	assert.Equal(t, chair.UserID, response.DecidedBy.UserID)

	var updated models.Paper
	require.NoError(t, db.First(&updated, paper.PaperID).Error)
	assert.Equal(t, models.PaperStatusAccepted, updated.Status)

	// Authors get an in-app notification per head.
	var notifications int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ?", author.UserID).Count(&notifications).Error)
	assert.Equal(t, int64(1), notifications)

	// The write leaves an audit trail.
	var audits int64
	require.NoError(t, db.Model(&models.AuditLog{}).
		Where("action = ?", "decide").Count(&audits).Error)
	assert.Equal(t, int64(1), audits)
}

func TestMakeDecisionOverwriteKeepsOneRow(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	author := seedUser(t, db, "author", models.RoleIDMember)
	chairA := seedChair(t, db, conference.ConferenceID, "chairA")
	chairB := seedChair(t, db, conference.ConferenceID, "chairB")
	paper := seedPaper(t, db, conference.ConferenceID, author.UserID)
	reviewer := seedReviewer(t, db, conference.ConferenceID, "reviewer", time.Now())
	seedSubmittedReview(t, db, paper.PaperID, reviewer.UserID, 8, 4)

	_, err := MakeDecision(paper.PaperID, chairA.UserID, models.DecisionAccept, "", "127.0.0.1")
	require.NoError(t, err)

	response, err := MakeDecision(paper.PaperID, chairB.UserID, models.DecisionReject, "", "127.0.0.1")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Decision{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var decision models.Decision
	require.NoError(t, db.Where("paper_id = ?", paper.PaperID).First(&decision).Error)
	assert.Equal(t, models.DecisionReject, decision.FinalDecision)
	assert.Equal(t, chairB.UserID, decision.DecidedBy)

	require.NotNil(t, response.DecidedBy)
	assert.Equal(t, chairB.UserID, response.DecidedBy.UserID)

	var updated models.Paper
	require.NoError(t, db.First(&updated, paper.PaperID).Error)
	assert.Equal(t, models.PaperStatusRejected, updated.Status)
}

func TestMakeDecisionAuthorization(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	author := seedUser(t, db, "author", models.RoleIDMember)
	paper := seedPaper(t, db, conference.ConferenceID, author.UserID)
	reviewer := seedReviewer(t, db, conference.ConferenceID, "reviewer", time.Now())
	seedSubmittedReview(t, db, paper.PaperID, reviewer.UserID, 7, 3)

	// An assigned reviewer without the chair role cannot decide.
	_, err := MakeDecision(paper.PaperID, reviewer.UserID, models.DecisionAccept, "", "127.0.0.1")
	require.Error(t, err)
	assert.Equal(t, ErrKindNotAuthorized, KindOf(err))

	// A platform admin can, without any conference membership.
	admin := seedUser(t, db, "admin", models.RoleIDAdmin)
	_, err = MakeDecision(paper.PaperID, admin.UserID, models.DecisionAccept, "", "127.0.0.1")
	require.NoError(t, err)
}

func TestMakeDecisionValidatesValue(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	author := seedUser(t, db, "author", models.RoleIDMember)
	chair := seedChair(t, db, conference.ConferenceID, "chair")
	paper := seedPaper(t, db, conference.ConferenceID, author.UserID)

	_, err := MakeDecision(paper.PaperID, chair.UserID, "maybe", "", "127.0.0.1")

	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))
}

func TestGetPaperDecisionInfoBeforeDecision(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	author := seedUser(t, db, "author", models.RoleIDMember)
	paper := seedPaper(t, db, conference.ConferenceID, author.UserID)

	response, err := GetPaperDecisionInfo(paper.PaperID, author.UserID)
	require.NoError(t, err)

	assert.False(t, response.HasDecision)
	assert.Nil(t, response.Decision)
	assert.Nil(t, response.DecidedBy)
	assert.Equal(t, StageSubmitted, response.Stage)
}

func TestGetPaperDecisionInfoProjections(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	author := seedUser(t, db, "author", models.RoleIDMember)
	chair := seedChair(t, db, conference.ConferenceID, "chair")
	paper := seedPaper(t, db, conference.ConferenceID, author.UserID)
	reviewer := seedReviewer(t, db, conference.ConferenceID, "reviewer", time.Now())
	seedSubmittedReview(t, db, paper.PaperID, reviewer.UserID, 9, 5)

	_, err := MakeDecision(paper.PaperID, chair.UserID, models.DecisionAccept, "Congratulations", "127.0.0.1")
	require.NoError(t, err)

	// The author learns the outcome and the comment, nothing about scores or
	// who decided.
	authorView, err := GetPaperDecisionInfo(paper.PaperID, author.UserID)
	require.NoError(t, err)
	assert.True(t, authorView.HasDecision)
	require.NotNil(t, authorView.Decision)
	assert.Equal(t, models.DecisionAccept, authorView.Decision.FinalDecision)
	require.NotNil(t, authorView.Decision.Comment)
	assert.Equal(t, "Congratulations", *authorView.Decision.Comment)
	assert.Nil(t, authorView.Decision.AverageScore)
	assert.Nil(t, authorView.Decision.ReviewCount)
	assert.Nil(t, authorView.Decision.DecidedBy)
	assert.Nil(t, authorView.DecidedBy)

	// The chair sees the snapshot and the decider.
	chairView, err := GetPaperDecisionInfo(paper.PaperID, chair.UserID)
	require.NoError(t, err)
	require.NotNil(t, chairView.Decision)
	require.NotNil(t, chairView.Decision.AverageScore)
	assert.InDelta(t, 9.0, *chairView.Decision.AverageScore, 0.001)
	require.NotNil(t, chairView.DecidedBy)
	assert.Equal(t, chair.UserID, chairView.DecidedBy.UserID)

	// An outsider has no view at all.
	outsider := seedUser(t, db, "outsider", models.RoleIDMember)
	_, err = GetPaperDecisionInfo(paper.PaperID, outsider.UserID)
	require.Error(t, err)
	assert.Equal(t, ErrKindNotAuthorized, KindOf(err))
}
