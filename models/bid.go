package models

import "time"

// Bid values a reviewer may declare for a paper. BidValueConflict marks a
// self-reported conflict and permanently excludes the pair from assignment.
const (
	BidValueHigh     = "high"
	BidValueMedium   = "medium"
	BidValueLow      = "low"
	BidValueConflict = "conflict"
)

// Bid records one reviewer's interest level for one paper. At most one live
// row per (paper, reviewer) pair; writes are upserts.
type Bid struct {
	BidID      int       `gorm:"primaryKey;column:bid_id" json:"bid_id"`
	PaperID    int       `gorm:"column:paper_id;uniqueIndex:idx_bid_pair" json:"paper_id"`
	ReviewerID int       `gorm:"column:reviewer_id;uniqueIndex:idx_bid_pair" json:"reviewer_id"`
	BidValue   string    `gorm:"column:bid_value" json:"bid_value"`
	CreateAt   time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt   time.Time `gorm:"column:update_at" json:"update_at"`
}

func ValidBidValue(value string) bool {
	switch value {
	case BidValueHigh, BidValueMedium, BidValueLow, BidValueConflict:
		return true
	}
	return false
}

// BidRank orders bid preference for allocation: high > medium > no bid > low.
// Conflict bids are excluded before ranking applies.
func BidRank(value string) int {
	switch value {
	case BidValueHigh:
		return 3
	case BidValueMedium:
		return 2
	case "":
		return 1
	case BidValueLow:
		return 0
	}
	return 1
}

// TableName specifies the table name for Bid.
func (Bid) TableName() string {
	return "bids"
}
