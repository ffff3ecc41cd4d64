package models

import "time"

// Final decision values.
const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
)

// Decision is the chair's final decision for a paper, one row per paper.
// Re-deciding overwrites the row; decided_by always records the latest
// decider. Score statistics are snapshotted at decision time.
type Decision struct {
	DecisionID        int       `gorm:"primaryKey;column:decision_id" json:"decision_id"`
	PaperID           int       `gorm:"column:paper_id;uniqueIndex" json:"paper_id"`
	FinalDecision     string    `gorm:"column:final_decision" json:"final_decision"`
	Comment           *string   `gorm:"column:comment" json:"comment"`
	AverageScore      float64   `gorm:"column:average_score" json:"average_score"`
	AverageConfidence float64   `gorm:"column:average_confidence" json:"average_confidence"`
	ReviewCount       int       `gorm:"column:review_count" json:"review_count"`
	DecidedBy         int       `gorm:"column:decided_by" json:"decided_by"`
	DecidedAt         time.Time `gorm:"column:decided_at" json:"decided_at"`

	Decider *User `gorm:"foreignKey:DecidedBy" json:"decider,omitempty"`
}

func ValidFinalDecision(value string) bool {
	return value == DecisionAccept || value == DecisionReject
}

// TableName specifies the table name for Decision.
func (Decision) TableName() string {
	return "decisions"
}
