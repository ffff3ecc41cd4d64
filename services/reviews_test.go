package services

import (
	"testing"
	"time"

	"conference-review-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedAssignment(t *testing.T, db *gorm.DB, paperID, reviewerID int) models.ReviewAssignment {
	t.Helper()
	assignment := models.ReviewAssignment{
		PaperID:    paperID,
		ReviewerID: reviewerID,
		Status:     models.AssignmentStatusNotStarted,
		CreateAt:   time.Now(),
	}
	require.NoError(t, db.Create(&assignment).Error)
	return assignment
}

func TestSaveReviewDraftUpserts(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	author := seedUser(t, db, "author", models.RoleIDMember)
	paper := seedPaper(t, db, conference.ConferenceID, author.UserID)
	reviewer := seedReviewer(t, db, conference.ConferenceID, "reviewer", time.Now())
	assignment := seedAssignment(t, db, paper.PaperID, reviewer.UserID)

	review, err := SaveReviewDraft(assignment.AssignmentID, reviewer.UserID, ReviewInput{
		Summary: strPtr("First pass"),
	})
	require.NoError(t, err)
	require.NotNil(t, review.Summary)
	assert.Equal(t, "First pass", *review.Summary)
	assert.Nil(t, review.SubmittedAt)

	review, err = SaveReviewDraft(assignment.AssignmentID, reviewer.UserID, ReviewInput{
		Score:      intPtr(7),
		Confidence: intPtr(4),
		Summary:    strPtr("Second pass"),
	})
	require.NoError(t, err)
	require.NotNil(t, review.Score)
	assert.Equal(t, 7, *review.Score)
	assert.Equal(t, "Second pass", *review.Summary)

	var count int64
	require.NoError(t, db.Model(&models.Review{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var reloaded models.ReviewAssignment
	require.NoError(t, db.First(&reloaded, assignment.AssignmentID).Error)
	assert.Equal(t, models.AssignmentStatusDraft, reloaded.Status)
}

func TestSaveReviewDraftValidatesRanges(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	author := seedUser(t, db, "author", models.RoleIDMember)
	paper := seedPaper(t, db, conference.ConferenceID, author.UserID)
	reviewer := seedReviewer(t, db, conference.ConferenceID, "reviewer", time.Now())
	assignment := seedAssignment(t, db, paper.PaperID, reviewer.UserID)

	_, err := SaveReviewDraft(assignment.AssignmentID, reviewer.UserID, ReviewInput{Score: intPtr(11)})
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))

	_, err = SaveReviewDraft(assignment.AssignmentID, reviewer.UserID, ReviewInput{Confidence: intPtr(0)})
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))
}

func TestSaveReviewDraftOwnershipCheck(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	author := seedUser(t, db, "author", models.RoleIDMember)
	paper := seedPaper(t, db, conference.ConferenceID, author.UserID)
	reviewer := seedReviewer(t, db, conference.ConferenceID, "reviewer", time.Now())
	other := seedReviewer(t, db, conference.ConferenceID, "other", time.Now())
	assignment := seedAssignment(t, db, paper.PaperID, reviewer.UserID)

	_, err := SaveReviewDraft(assignment.AssignmentID, other.UserID, ReviewInput{Summary: strPtr("x")})

	require.Error(t, err)
	assert.Equal(t, ErrKindNotAuthorized, KindOf(err))
}

func TestSubmitReviewRequiresScoreAndConfidence(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	author := seedUser(t, db, "author", models.RoleIDMember)
	paper := seedPaper(t, db, conference.ConferenceID, author.UserID)
	reviewer := seedReviewer(t, db, conference.ConferenceID, "reviewer", time.Now())
	assignment := seedAssignment(t, db, paper.PaperID, reviewer.UserID)

	// No draft at all.
	_, err := SubmitReview(assignment.AssignmentID, reviewer.UserID)
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))

	// Draft without a confidence value.
	_, err = SaveReviewDraft(assignment.AssignmentID, reviewer.UserID, ReviewInput{Score: intPtr(6)})
	require.NoError(t, err)
	_, err = SubmitReview(assignment.AssignmentID, reviewer.UserID)
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))

	// Completed draft submits and is timestamped.
	_, err = SaveReviewDraft(assignment.AssignmentID, reviewer.UserID, ReviewInput{
		Score:      intPtr(6),
		Confidence: intPtr(3),
	})
	require.NoError(t, err)
	review, err := SubmitReview(assignment.AssignmentID, reviewer.UserID)
	require.NoError(t, err)
	require.NotNil(t, review.SubmittedAt)

	var reloaded models.ReviewAssignment
	require.NoError(t, db.First(&reloaded, assignment.AssignmentID).Error)
	assert.Equal(t, models.AssignmentStatusSubmitted, reloaded.Status)
}

func TestSubmittedReviewIsImmutable(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	author := seedUser(t, db, "author", models.RoleIDMember)
	paper := seedPaper(t, db, conference.ConferenceID, author.UserID)
	reviewer := seedReviewer(t, db, conference.ConferenceID, "reviewer", time.Now())
	assignment := seedSubmittedReview(t, db, paper.PaperID, reviewer.UserID, 8, 4)

	_, err := SaveReviewDraft(assignment.AssignmentID, reviewer.UserID, ReviewInput{Score: intPtr(2)})
	require.Error(t, err)
	assert.Equal(t, ErrKindAlreadySubmitted, KindOf(err))

	_, err = SubmitReview(assignment.AssignmentID, reviewer.UserID)
	require.Error(t, err)
	assert.Equal(t, ErrKindAlreadySubmitted, KindOf(err))

	var review models.Review
	require.NoError(t, db.Where("assignment_id = ?", assignment.AssignmentID).First(&review).Error)
	require.NotNil(t, review.Score)
	assert.Equal(t, 8, *review.Score)
}

func TestGetReviewAccess(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	author := seedUser(t, db, "author", models.RoleIDMember)
	chair := seedChair(t, db, conference.ConferenceID, "chair")
	paper := seedPaper(t, db, conference.ConferenceID, author.UserID)
	reviewer := seedReviewer(t, db, conference.ConferenceID, "reviewer", time.Now())
	assignment := seedSubmittedReview(t, db, paper.PaperID, reviewer.UserID, 8, 4)

	for _, requester := range []models.User{reviewer, chair} {
		review, err := GetReview(assignment.AssignmentID, requester.UserID)
		require.NoError(t, err)
		require.NotNil(t, review.Score)
		assert.Equal(t, 8, *review.Score)
	}

	admin := seedUser(t, db, "admin", models.RoleIDAdmin)
	_, err := GetReview(assignment.AssignmentID, admin.UserID)
	require.NoError(t, err)

	// The author never reads raw reviews through this path.
	_, err = GetReview(assignment.AssignmentID, author.UserID)
	require.Error(t, err)
	assert.Equal(t, ErrKindNotAuthorized, KindOf(err))
}
