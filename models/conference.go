package models

import "time"

type Conference struct {
	ConferenceID int        `gorm:"primaryKey;column:conference_id" json:"conference_id"`
	Name         string     `gorm:"column:name" json:"name"`
	Acronym      string     `gorm:"column:acronym" json:"acronym"`
	Year         int        `gorm:"column:year" json:"year"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Tracks []Track `gorm:"foreignKey:ConferenceID" json:"tracks,omitempty"`
}

type Track struct {
	TrackID      int    `gorm:"primaryKey;column:track_id" json:"track_id"`
	ConferenceID int    `gorm:"column:conference_id" json:"conference_id"`
	Name         string `gorm:"column:name" json:"name"`
}

// Conference roles. A user may hold several of these in the same conference
// at once (one conference_members row per role).
const (
	ConferenceRoleAuthor   = "author"
	ConferenceRoleReviewer = "reviewer"
	ConferenceRoleChair    = "chair"
)

// ConferenceMember links a user to a conference under one role.
type ConferenceMember struct {
	MemberID     int       `gorm:"primaryKey;column:member_id" json:"member_id"`
	ConferenceID int       `gorm:"column:conference_id;uniqueIndex:idx_conference_member_role" json:"conference_id"`
	UserID       int       `gorm:"column:user_id;uniqueIndex:idx_conference_member_role" json:"user_id"`
	Role         string    `gorm:"column:role;uniqueIndex:idx_conference_member_role" json:"role"`
	JoinedAt     time.Time `gorm:"column:joined_at" json:"joined_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func ValidConferenceRole(role string) bool {
	switch role {
	case ConferenceRoleAuthor, ConferenceRoleReviewer, ConferenceRoleChair:
		return true
	}
	return false
}

// TableName overrides
func (Conference) TableName() string {
	return "conferences"
}

func (Track) TableName() string {
	return "tracks"
}

func (ConferenceMember) TableName() string {
	return "conference_members"
}
