package models

import "time"

// Review assignment statuses. submitted is a one-way transition.
const (
	AssignmentStatusNotStarted = "not_started"
	AssignmentStatusDraft      = "draft"
	AssignmentStatusSubmitted  = "submitted"
)

// ReviewAssignment links a reviewer to a paper. Unique per (paper, reviewer)
// pair; concurrent writers rely on the index, not locks.
type ReviewAssignment struct {
	AssignmentID int        `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	PaperID      int        `gorm:"column:paper_id;uniqueIndex:idx_assignment_pair" json:"paper_id"`
	ReviewerID   int        `gorm:"column:reviewer_id;uniqueIndex:idx_assignment_pair" json:"reviewer_id"`
	Status       string     `gorm:"column:status" json:"status"`
	DueDate      *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	AssignedBy   int        `gorm:"column:assigned_by" json:"assigned_by"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`

	Reviewer *User   `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Review   *Review `gorm:"foreignKey:AssignmentID" json:"review,omitempty"`
}

// Review holds the content for one assignment. Mutable until the assignment
// is submitted.
type Review struct {
	ReviewID         int        `gorm:"primaryKey;column:review_id" json:"review_id"`
	AssignmentID     int        `gorm:"column:assignment_id;uniqueIndex" json:"assignment_id"`
	Score            *int       `gorm:"column:score" json:"score"`
	Confidence       *int       `gorm:"column:confidence" json:"confidence"`
	Summary          *string    `gorm:"column:summary" json:"summary"`
	Strengths        *string    `gorm:"column:strengths" json:"strengths"`
	Weaknesses       *string    `gorm:"column:weaknesses" json:"weaknesses"`
	CommentsToAuthor *string    `gorm:"column:comments_to_author" json:"comments_to_author"`
	CommentsToChair  *string    `gorm:"column:comments_to_chair" json:"comments_to_chair"`
	SubmittedAt      *time.Time `gorm:"column:submitted_at" json:"submitted_at"`
	CreateAt         time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt         time.Time  `gorm:"column:update_at" json:"update_at"`
}

// IsCompleted reports whether the review carries both score and confidence.
// Only completed reviews count toward decision statistics.
func (r *Review) IsCompleted() bool {
	return r != nil && r.Score != nil && r.Confidence != nil
}

// TableName overrides
func (ReviewAssignment) TableName() string {
	return "review_assignments"
}

func (Review) TableName() string {
	return "reviews"
}
