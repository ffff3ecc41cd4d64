package models

import "time"

// AuditLog records who did what to which entity. Written in the decision and
// assignment paths; never updated or deleted.
type AuditLog struct {
	LogID       int       `gorm:"primaryKey;column:log_id" json:"log_id"`
	UserID      int       `gorm:"column:user_id" json:"user_id"`
	Action      string    `gorm:"column:action" json:"action"`
	EntityType  string    `gorm:"column:entity_type" json:"entity_type"`
	EntityID    *int      `gorm:"column:entity_id" json:"entity_id"`
	NewValues   *string   `gorm:"column:new_values" json:"new_values"`
	Description *string   `gorm:"column:description" json:"description"`
	IPAddress   string    `gorm:"column:ip_address" json:"ip_address"`
	UserAgent   *string   `gorm:"column:user_agent" json:"user_agent"`
	CreateAt    time.Time `gorm:"column:create_at" json:"create_at"`
}

// TableName specifies the table name for AuditLog.
func (AuditLog) TableName() string {
	return "audit_logs"
}
