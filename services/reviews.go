package services

import (
	"errors"
	"time"

	"conference-review-api/config"
	"conference-review-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewInput carries the editable review fields.
type ReviewInput struct {
	Score            *int    `json:"score"`
	Confidence       *int    `json:"confidence"`
	Summary          *string `json:"summary"`
	Strengths        *string `json:"strengths"`
	Weaknesses       *string `json:"weaknesses"`
	CommentsToAuthor *string `json:"comments_to_author"`
	CommentsToChair  *string `json:"comments_to_chair"`
}

func (in *ReviewInput) validate() error {
	if in.Score != nil && (*in.Score < 1 || *in.Score > 10) {
		return NewError(ErrKindValidation, "Score must be between 1 and 10")
	}
	if in.Confidence != nil && (*in.Confidence < 1 || *in.Confidence > 5) {
		return NewError(ErrKindValidation, "Confidence must be between 1 and 5")
	}
	return nil
}

func loadOwnAssignment(tx *gorm.DB, assignmentID, reviewerID int) (*models.ReviewAssignment, error) {
	var assignment models.ReviewAssignment
	if err := tx.Where("assignment_id = ?", assignmentID).First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(ErrKindNotFound, "Assignment not found")
		}
		return nil, err
	}
	if assignment.ReviewerID != reviewerID {
		return nil, NewError(ErrKindNotAuthorized, "Assignment belongs to another reviewer")
	}
	if assignment.Status == models.AssignmentStatusSubmitted {
		return nil, NewError(ErrKindAlreadySubmitted, "Review is already submitted")
	}
	return &assignment, nil
}

// SaveReviewDraft upserts the review content for the reviewer's own
// assignment and moves it to draft. Rejected once the review is submitted.
func SaveReviewDraft(assignmentID, reviewerID int, input ReviewInput) (*models.Review, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var review models.Review
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := loadOwnAssignment(tx, assignmentID, reviewerID); err != nil {
			return err
		}

		now := time.Now()
		review = models.Review{
			AssignmentID:     assignmentID,
			Score:            input.Score,
			Confidence:       input.Confidence,
			Summary:          input.Summary,
			Strengths:        input.Strengths,
			Weaknesses:       input.Weaknesses,
			CommentsToAuthor: input.CommentsToAuthor,
			CommentsToChair:  input.CommentsToChair,
			CreateAt:         now,
			UpdateAt:         now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "assignment_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"score", "confidence", "summary", "strengths", "weaknesses",
				"comments_to_author", "comments_to_chair", "update_at",
			}),
		}).Create(&review).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.ReviewAssignment{}).
			Where("assignment_id = ?", assignmentID).
			Update("status", models.AssignmentStatusDraft).Error; err != nil {
			return err
		}

		return tx.Where("assignment_id = ?", assignmentID).First(&review).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// SubmitReview finalizes a review. Score and confidence must be present; the
// transition to submitted is one way.
func SubmitReview(assignmentID, reviewerID int) (*models.Review, error) {
	var review models.Review
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := loadOwnAssignment(tx, assignmentID, reviewerID); err != nil {
			return err
		}

		if err := tx.Where("assignment_id = ?", assignmentID).First(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewError(ErrKindValidation, "No review draft to submit")
			}
			return err
		}
		if !review.IsCompleted() {
			return NewError(ErrKindValidation, "Score and confidence are required before submitting")
		}

		now := time.Now()
		if err := tx.Model(&models.Review{}).
			Where("review_id = ?", review.ReviewID).
			Updates(map[string]interface{}{"submitted_at": now, "update_at": now}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ReviewAssignment{}).
			Where("assignment_id = ?", assignmentID).
			Update("status", models.AssignmentStatusSubmitted).Error; err != nil {
			return err
		}

		return tx.Where("assignment_id = ?", assignmentID).First(&review).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetReview returns the review of an assignment to its reviewer, a chair of
// the paper's conference, or an admin.
func GetReview(assignmentID, requesterID int) (*models.Review, error) {
	var assignment models.ReviewAssignment
	if err := config.DB.Where("assignment_id = ?", assignmentID).
		First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(ErrKindNotFound, "Assignment not found")
		}
		return nil, err
	}

	if assignment.ReviewerID != requesterID {
		admin, err := IsAdminUser(config.DB, requesterID)
		if err != nil {
			return nil, err
		}
		if !admin {
			var paper models.Paper
			if err := config.DB.Where("paper_id = ?", assignment.PaperID).
				First(&paper).Error; err != nil {
				return nil, err
			}
			chair, err := HasConferenceRole(config.DB, paper.ConferenceID, requesterID,
				models.ConferenceRoleChair)
			if err != nil {
				return nil, err
			}
			if !chair {
				return nil, NewError(ErrKindNotAuthorized, "No access to this review")
			}
		}
	}

	var review models.Review
	if err := config.DB.Where("assignment_id = ?", assignmentID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(ErrKindNotFound, "No review for this assignment")
		}
		return nil, err
	}
	return &review, nil
}
