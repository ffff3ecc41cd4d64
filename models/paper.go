package models

import "time"

// Paper statuses. The review lifecycle stage shown to clients is derived from
// related records; status only tracks the submission/decision outcome.
const (
	PaperStatusSubmitted   = "submitted"
	PaperStatusUnderReview = "under_review"
	PaperStatusAccepted    = "accepted"
	PaperStatusRejected    = "rejected"
	PaperStatusCameraReady = "camera_ready"
)

type Paper struct {
	PaperID      int        `gorm:"primaryKey;column:paper_id" json:"paper_id"`
	ConferenceID int        `gorm:"column:conference_id" json:"conference_id"`
	TrackID      *int       `gorm:"column:track_id" json:"track_id,omitempty"`
	Title        string     `gorm:"column:title" json:"title"`
	Abstract     string     `gorm:"column:abstract" json:"abstract"`
	Status       string     `gorm:"column:status" json:"status"`
	SubmittedBy  int        `gorm:"column:submitted_by" json:"submitted_by"`
	SubmittedAt  time.Time  `gorm:"column:submitted_at" json:"submitted_at"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Conference *Conference   `gorm:"foreignKey:ConferenceID" json:"conference,omitempty"`
	Track      *Track        `gorm:"foreignKey:TrackID" json:"track,omitempty"`
	Authors    []PaperAuthor `gorm:"foreignKey:PaperID" json:"authors,omitempty"`
}

// PaperAuthor is one entry of a paper's ordered author list.
type PaperAuthor struct {
	PaperAuthorID int `gorm:"primaryKey;column:paper_author_id" json:"paper_author_id"`
	PaperID       int `gorm:"column:paper_id;uniqueIndex:idx_paper_author_pair" json:"paper_id"`
	UserID        int `gorm:"column:user_id;uniqueIndex:idx_paper_author_pair" json:"user_id"`
	AuthorOrder   int `gorm:"column:author_order" json:"author_order"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Paper file kinds and statuses.
const (
	PaperFileKindManuscript  = "manuscript"
	PaperFileKindCameraReady = "camera_ready"

	PaperFileStatusUploaded = "uploaded"
	PaperFileStatusApproved = "approved"
)

type PaperFile struct {
	FileID       int       `gorm:"primaryKey;column:file_id" json:"file_id"`
	PaperID      int       `gorm:"column:paper_id" json:"paper_id"`
	Kind         string    `gorm:"column:kind" json:"kind"`
	Status       string    `gorm:"column:status" json:"status"`
	OriginalName string    `gorm:"column:original_name" json:"original_name"`
	StoredPath   string    `gorm:"column:stored_path" json:"stored_path"`
	FileSize     int64     `gorm:"column:file_size" json:"file_size"`
	MimeType     string    `gorm:"column:mime_type" json:"mime_type"`
	UploadedBy   int       `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt   time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
}

func (f *PaperFile) IsValidDocumentType() bool {
	validTypes := []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	for _, validType := range validTypes {
		if f.MimeType == validType {
			return true
		}
	}
	return false
}

// TableName overrides
func (Paper) TableName() string {
	return "papers"
}

func (PaperAuthor) TableName() string {
	return "paper_authors"
}

func (PaperFile) TableName() string {
	return "paper_files"
}
