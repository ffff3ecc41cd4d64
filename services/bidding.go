package services

import (
	"database/sql"
	"errors"
	"time"

	"conference-review-api/config"
	"conference-review-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmitBid records a reviewer's interest in a paper. The eligibility checks
// and the upsert run in one serializable transaction so a conflict
// declaration racing a bid cannot leave a bid on a conflicted pair.
func SubmitBid(paperID, reviewerID int, bidValue string) (*models.Bid, error) {
	if !models.ValidBidValue(bidValue) {
		return nil, NewError(ErrKindValidation, "Invalid bid value")
	}

	var bid models.Bid
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var paper models.Paper
		if err := tx.Where("paper_id = ? AND delete_at IS NULL", paperID).
			First(&paper).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewError(ErrKindNotFound, "Paper not found")
			}
			return err
		}

		var authorCount int64
		if err := tx.Model(&models.PaperAuthor{}).
			Where("paper_id = ? AND user_id = ?", paperID, reviewerID).
			Count(&authorCount).Error; err != nil {
			return err
		}
		if authorCount > 0 {
			return NewError(ErrKindConflictOfInterest, "Authors cannot bid on their own paper")
		}

		eligible, err := HasConferenceRole(tx, paper.ConferenceID, reviewerID,
			models.ConferenceRoleReviewer, models.ConferenceRoleChair)
		if err != nil {
			return err
		}
		if !eligible {
			return NewError(ErrKindNotAMember, "User is not a reviewer in this conference")
		}

		var conflictCount int64
		if err := tx.Model(&models.Conflict{}).
			Where("paper_id = ? AND user_id = ?", paperID, reviewerID).
			Count(&conflictCount).Error; err != nil {
			return err
		}
		if conflictCount > 0 {
			return NewError(ErrKindConflictOfInterest, "A conflict of interest is declared for this paper")
		}

		now := time.Now()
		bid = models.Bid{
			PaperID:    paperID,
			ReviewerID: reviewerID,
			BidValue:   bidValue,
			CreateAt:   now,
			UpdateAt:   now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "paper_id"}, {Name: "reviewer_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"bid_value": bidValue, "update_at": now}),
		}).Create(&bid).Error; err != nil {
			return err
		}

		// Reload so the caller sees the surviving row, not the insert attempt.
		return tx.Where("paper_id = ? AND reviewer_id = ?", paperID, reviewerID).First(&bid).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	if err != nil {
		return nil, err
	}
	return &bid, nil
}

// GetBid returns the live bid for a (paper, reviewer) pair, or nil when none
// exists.
func GetBid(paperID, reviewerID int) (*models.Bid, error) {
	var bid models.Bid
	if err := config.DB.Where("paper_id = ? AND reviewer_id = ?", paperID, reviewerID).
		First(&bid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bid, nil
}

// ListReviewerBids returns all bids a reviewer holds across a conference.
func ListReviewerBids(conferenceID, reviewerID int) ([]models.Bid, error) {
	var bids []models.Bid
	err := config.DB.
		Joins("JOIN papers ON papers.paper_id = bids.paper_id").
		Where("papers.conference_id = ? AND papers.delete_at IS NULL AND bids.reviewer_id = ?",
			conferenceID, reviewerID).
		Order("bids.paper_id").
		Find(&bids).Error
	if err != nil {
		return nil, err
	}
	return bids, nil
}

// ListPaperBids returns all live bids on a paper. Bids whose pair has a
// declared conflict are treated as void and excluded, even when the row still
// exists (conflicts may be declared after a bid).
func ListPaperBids(paperID int) ([]models.Bid, error) {
	var bids []models.Bid
	err := config.DB.
		Where("paper_id = ?", paperID).
		Where("NOT EXISTS (SELECT 1 FROM conflicts WHERE conflicts.paper_id = bids.paper_id AND conflicts.user_id = bids.reviewer_id)").
		Order("bid_id").
		Find(&bids).Error
	if err != nil {
		return nil, err
	}
	return bids, nil
}
