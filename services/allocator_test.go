package services

import (
	"testing"
	"time"

	"conference-review-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedReviewer(t *testing.T, db *gorm.DB, conferenceID int, name string, joinedAt time.Time) models.User {
	t.Helper()
	user := seedUser(t, db, name, models.RoleIDMember)
	seedMember(t, db, conferenceID, user.UserID, models.ConferenceRoleReviewer, joinedAt)
	return user
}

func seedBid(t *testing.T, db *gorm.DB, paperID, reviewerID int, value string) {
	t.Helper()
	now := time.Now()
	bid := models.Bid{
		PaperID:    paperID,
		ReviewerID: reviewerID,
		BidValue:   value,
		CreateAt:   now,
		UpdateAt:   now,
	}
	require.NoError(t, db.Create(&bid).Error)
}

func paperAssignments(t *testing.T, db *gorm.DB, paperID int) []models.ReviewAssignment {
	t.Helper()
	var assignments []models.ReviewAssignment
	require.NoError(t, db.Where("paper_id = ?", paperID).
		Order("reviewer_id").Find(&assignments).Error)
	return assignments
}

func TestAutoAssignPrefersBidders(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	author := seedUser(t, db, "author", models.RoleIDMember)
	paper := seedPaper(t, db, conference.ConferenceID, author.UserID)

	joined := time.Now().Add(-time.Hour)
	high := seedReviewer(t, db, conference.ConferenceID, "high", joined)
	medium := seedReviewer(t, db, conference.ConferenceID, "medium", joined)
	nobid := seedReviewer(t, db, conference.ConferenceID, "nobid", joined)

	seedBid(t, db, paper.PaperID, high.UserID, models.BidValueHigh)
	seedBid(t, db, paper.PaperID, medium.UserID, models.BidValueMedium)

	result, err := AutoAssign(conference.ConferenceID, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, result.AssignedCount)
	assert.Empty(t, result.Shortfalls)

	assignments := paperAssignments(t, db, paper.PaperID)
	require.Len(t, assignments, 2)
	assigned := map[int]bool{}
	for _, assignment := range assignments {
		assigned[assignment.ReviewerID] = true
		assert.Equal(t, models.AssignmentStatusNotStarted, assignment.Status)
	}
	assert.True(t, assigned[high.UserID])
	assert.True(t, assigned[medium.UserID])
	assert.False(t, assigned[nobid.UserID])
}

func TestAutoAssignNeverAssignsAuthorsOrConflicts(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	author := seedUser(t, db, "author", models.RoleIDMember)
	// The author also holds the reviewer role in the conference.
	seedMember(t, db, conference.ConferenceID, author.UserID, models.ConferenceRoleReviewer, time.Now())
	paper := seedPaper(t, db, conference.ConferenceID, author.UserID)

	joined := time.Now().Add(-time.Hour)
	conflicted := seedReviewer(t, db, conference.ConferenceID, "conflicted", joined)
	bidConflict := seedReviewer(t, db, conference.ConferenceID, "bidconflict", joined)
	clean := seedReviewer(t, db, conference.ConferenceID, "clean", joined)

	_, err := DeclareConflict(paper.PaperID, conflicted.UserID, conflicted.UserID)
	require.NoError(t, err)
	seedBid(t, db, paper.PaperID, bidConflict.UserID, models.BidValueConflict)

	result, err := AutoAssign(conference.ConferenceID, 3, 1)
	require.NoError(t, err)

	// Only one eligible reviewer remains; the shortfall is reported, not an
	// error.
	assert.Equal(t, 1, result.AssignedCount)
	require.Len(t, result.Shortfalls, 1)
	assert.Equal(t, paper.PaperID, result.Shortfalls[0].PaperID)
	assert.Equal(t, 1, result.Shortfalls[0].Assigned)
	assert.Equal(t, 3, result.Shortfalls[0].Target)

	assignments := paperAssignments(t, db, paper.PaperID)
	require.Len(t, assignments, 1)
	assert.Equal(t, clean.UserID, assignments[0].ReviewerID)
}

func TestAutoAssignRespectsTargetCap(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	author := seedUser(t, db, "author", models.RoleIDMember)
	paper := seedPaper(t, db, conference.ConferenceID, author.UserID)

	joined := time.Now().Add(-time.Hour)
	for _, name := range []string{"r1", "r2", "r3", "r4", "r5"} {
		seedReviewer(t, db, conference.ConferenceID, name, joined)
	}

	result, err := AutoAssign(conference.ConferenceID, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, result.AssignedCount)
	assert.Len(t, paperAssignments(t, db, paper.PaperID), 2)
}

func TestAutoAssignBalancesLoad(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	authorA := seedUser(t, db, "authorA", models.RoleIDMember)
	authorB := seedUser(t, db, "authorB", models.RoleIDMember)
	paperA := seedPaper(t, db, conference.ConferenceID, authorA.UserID)
	paperB := seedPaper(t, db, conference.ConferenceID, authorB.UserID)

	joined := time.Now().Add(-time.Hour)
	r1 := seedReviewer(t, db, conference.ConferenceID, "r1", joined)
	r2 := seedReviewer(t, db, conference.ConferenceID, "r2", joined.Add(time.Minute))

	result, err := AutoAssign(conference.ConferenceID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, result.AssignedCount)

	// One paper each: the second paper must go to the unloaded reviewer.
	assignmentsA := paperAssignments(t, db, paperA.PaperID)
	assignmentsB := paperAssignments(t, db, paperB.PaperID)
	require.Len(t, assignmentsA, 1)
	require.Len(t, assignmentsB, 1)
	assert.NotEqual(t, assignmentsA[0].ReviewerID, assignmentsB[0].ReviewerID)
	assigned := map[int]bool{
		assignmentsA[0].ReviewerID: true,
		assignmentsB[0].ReviewerID: true,
	}
	assert.True(t, assigned[r1.UserID])
	assert.True(t, assigned[r2.UserID])
}

func TestAutoAssignIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	author := seedUser(t, db, "author", models.RoleIDMember)
	paper := seedPaper(t, db, conference.ConferenceID, author.UserID)

	joined := time.Now().Add(-time.Hour)
	seedReviewer(t, db, conference.ConferenceID, "r1", joined)
	seedReviewer(t, db, conference.ConferenceID, "r2", joined)

	first, err := AutoAssign(conference.ConferenceID, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, first.AssignedCount)

	second, err := AutoAssign(conference.ConferenceID, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, second.AssignedCount)
	assert.Empty(t, second.Shortfalls)
	assert.Len(t, paperAssignments(t, db, paper.PaperID), 2)
}

func TestAutoAssignValidatesTarget(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)

	_, err := AutoAssign(conference.ConferenceID, 0, 1)

	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))
}

func TestAssignReviewerManualChecks(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	author := seedUser(t, db, "author", models.RoleIDMember)
	seedMember(t, db, conference.ConferenceID, author.UserID, models.ConferenceRoleReviewer, time.Now())
	chair := seedUser(t, db, "chair", models.RoleIDMember)
	seedMember(t, db, conference.ConferenceID, chair.UserID, models.ConferenceRoleChair, time.Now())
	outsider := seedUser(t, db, "outsider", models.RoleIDMember)
	reviewer := seedReviewer(t, db, conference.ConferenceID, "reviewer", time.Now())
	paper := seedPaper(t, db, conference.ConferenceID, author.UserID)

	// Author: conflict of interest even via the manual path.
	_, err := AssignReviewer(paper.PaperID, author.UserID, chair.UserID)
	require.Error(t, err)
	assert.Equal(t, ErrKindConflictOfInterest, KindOf(err))

	// Non-member.
	_, err = AssignReviewer(paper.PaperID, outsider.UserID, chair.UserID)
	require.Error(t, err)
	assert.Equal(t, ErrKindNotAMember, KindOf(err))

	// Declared conflict.
	_, err = DeclareConflict(paper.PaperID, reviewer.UserID, chair.UserID)
	require.NoError(t, err)
	_, err = AssignReviewer(paper.PaperID, reviewer.UserID, chair.UserID)
	require.Error(t, err)
	assert.Equal(t, ErrKindConflictOfInterest, KindOf(err))

	// After retraction the assignment goes through, and a repeat assign is
	// idempotent success.
	require.NoError(t, RetractConflict(paper.PaperID, reviewer.UserID))
	first, err := AssignReviewer(paper.PaperID, reviewer.UserID, chair.UserID)
	require.NoError(t, err)
	second, err := AssignReviewer(paper.PaperID, reviewer.UserID, chair.UserID)
	require.NoError(t, err)
	assert.Equal(t, first.AssignmentID, second.AssignmentID)

	var count int64
	require.NoError(t, db.Model(&models.ReviewAssignment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUnassignReviewer(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	author := seedUser(t, db, "author", models.RoleIDMember)
	chair := seedUser(t, db, "chair", models.RoleIDMember)
	seedMember(t, db, conference.ConferenceID, chair.UserID, models.ConferenceRoleChair, time.Now())
	reviewer := seedReviewer(t, db, conference.ConferenceID, "reviewer", time.Now())
	paper := seedPaper(t, db, conference.ConferenceID, author.UserID)

	assignment, err := AssignReviewer(paper.PaperID, reviewer.UserID, chair.UserID)
	require.NoError(t, err)

	require.NoError(t, UnassignReviewer(assignment.AssignmentID))

	var count int64
	require.NoError(t, db.Model(&models.ReviewAssignment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUnassignReviewerRejectsSubmitted(t *testing.T) {
	db := setupTestDB(t)
	conference := seedConference(t, db)
	author := seedUser(t, db, "author", models.RoleIDMember)
	reviewer := seedReviewer(t, db, conference.ConferenceID, "reviewer", time.Now())
	paper := seedPaper(t, db, conference.ConferenceID, author.UserID)

	assignment := seedSubmittedReview(t, db, paper.PaperID, reviewer.UserID, 7, 4)

	err := UnassignReviewer(assignment.AssignmentID)

	require.Error(t, err)
	assert.Equal(t, ErrKindAlreadySubmitted, KindOf(err))
}
