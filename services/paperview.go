package services

import (
	"errors"

	"conference-review-api/config"
	"conference-review-api/models"

	"gorm.io/gorm"
)

// LoadRawPaperView loads the unredacted aggregate for one paper. Callers must
// project it through ProjectPaperView before handing anything to a client.
func LoadRawPaperView(paperID int) (*RawPaperView, error) {
	var paper models.Paper
	if err := config.DB.Preload("Conference").Preload("Track").
		Where("paper_id = ? AND delete_at IS NULL", paperID).
		First(&paper).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(ErrKindNotFound, "Paper not found")
		}
		return nil, err
	}

	raw := RawPaperView{Paper: paper}

	if err := config.DB.Preload("User").
		Where("paper_id = ?", paperID).
		Order("author_order").
		Find(&raw.Authors).Error; err != nil {
		return nil, err
	}

	if err := config.DB.Preload("Review").Preload("Reviewer").
		Where("paper_id = ?", paperID).
		Order("assignment_id").
		Find(&raw.Assignments).Error; err != nil {
		return nil, err
	}

	bids, err := ListPaperBids(paperID)
	if err != nil {
		return nil, err
	}
	raw.Bids = bids

	var decision models.Decision
	if err := config.DB.Where("paper_id = ?", paperID).First(&decision).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	} else {
		raw.Decision = &decision
	}

	if err := config.DB.Where("paper_id = ?", paperID).
		Order("uploaded_at").
		Find(&raw.Files).Error; err != nil {
		return nil, err
	}

	return &raw, nil
}

// RelationshipToPaper derives how the requester relates to the paper.
// Authorship is checked before the chair role so a conflicted chair falls
// under author redaction.
func RelationshipToPaper(raw *RawPaperView, requesterID int) (Relationship, error) {
	admin, err := IsAdminUser(config.DB, requesterID)
	if err != nil {
		return RelNone, err
	}
	if admin {
		return RelAdmin, nil
	}

	for _, author := range raw.Authors {
		if author.UserID == requesterID {
			return RelAuthor, nil
		}
	}

	roles, err := GetConferenceRoles(config.DB, raw.Paper.ConferenceID, requesterID)
	if err != nil {
		return RelNone, err
	}
	if roles[models.ConferenceRoleChair] {
		return RelChair, nil
	}

	for _, assignment := range raw.Assignments {
		if assignment.ReviewerID == requesterID {
			return RelAssignedReviewer, nil
		}
	}
	if roles[models.ConferenceRoleReviewer] {
		return RelPeerReviewer, nil
	}
	return RelNone, nil
}

// GetPaperView loads, derives and projects a paper for one requester.
func GetPaperView(paperID, requesterID int) (*PaperView, error) {
	raw, err := LoadRawPaperView(paperID)
	if err != nil {
		return nil, err
	}

	rel, err := RelationshipToPaper(raw, requesterID)
	if err != nil {
		return nil, err
	}
	if rel == RelNone {
		return nil, NewError(ErrKindNotAuthorized, "No access to this paper")
	}

	stage := ComputeStage(raw.Assignments, raw.Decision, raw.Files)
	view := ProjectPaperView(*raw, requesterID, rel, stage)
	return &view, nil
}
