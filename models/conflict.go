package models

import "time"

// Conflict is an explicit conflict-of-interest declaration between a user and
// a paper. While present it blocks both bidding and assignment for the pair.
// Declaring twice is a no-op; retraction deletes the row.
type Conflict struct {
	ConflictID int       `gorm:"primaryKey;column:conflict_id" json:"conflict_id"`
	PaperID    int       `gorm:"column:paper_id;uniqueIndex:idx_conflict_pair" json:"paper_id"`
	UserID     int       `gorm:"column:user_id;uniqueIndex:idx_conflict_pair" json:"user_id"`
	DeclaredBy int       `gorm:"column:declared_by" json:"declared_by"`
	CreateAt   time.Time `gorm:"column:create_at" json:"create_at"`
}

// TableName specifies the table name for Conflict.
func (Conflict) TableName() string {
	return "conflicts"
}
