package services

import (
	"encoding/json"
	"errors"
	"time"

	"conference-review-api/config"
	"conference-review-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DecisionResponse is the fully assembled result of a decision write or read.
type DecisionResponse struct {
	Paper       PaperView       `json:"paper"`
	HasDecision bool            `json:"has_decision"`
	Decision    *DecisionView   `json:"decision"`
	Stage       Stage           `json:"stage"`
	Timeline    []TimelineEvent `json:"timeline"`
	ReviewStats ReviewStats     `json:"review_stats"`
	DecidedBy   *models.User    `json:"decided_by,omitempty"`
}

// MakeDecision records the final decision for a paper. Caller must be an
// admin or hold the chair role in the paper's conference, checked freshly.
// Requires at least one completed review. The decision upsert, the paper
// status change and the audit row commit together; author notification is
// emitted after commit and never rolls the decision back.
func MakeDecision(paperID, userID int, finalDecision string, comment string, clientIP string) (*DecisionResponse, error) {
	if !models.ValidFinalDecision(finalDecision) {
		return nil, NewError(ErrKindValidation, "Decision must be either 'accept' or 'reject'")
	}

	raw, err := LoadRawPaperView(paperID)
	if err != nil {
		return nil, err
	}

	admin, err := IsAdminUser(config.DB, userID)
	if err != nil {
		return nil, err
	}
	if !admin {
		chair, err := HasConferenceRole(config.DB, raw.Paper.ConferenceID, userID,
			models.ConferenceRoleChair)
		if err != nil {
			return nil, err
		}
		if !chair {
			return nil, NewError(ErrKindNotAuthorized, "Only chairs or admins can decide papers")
		}
	}

	stats := ComputeReviewStats(raw.Assignments)
	if stats.CompletedReviews == 0 {
		return nil, NewError(ErrKindNoReviewsSubmitted, "At least one completed review is required")
	}

	now := time.Now()
	paperStatus := models.PaperStatusRejected
	if finalDecision == models.DecisionAccept {
		paperStatus = models.PaperStatusAccepted
	}

	decision := models.Decision{
		PaperID:           paperID,
		FinalDecision:     finalDecision,
		AverageScore:      stats.AverageScore,
		AverageConfidence: stats.AverageConfidence,
		ReviewCount:       stats.CompletedReviews,
		DecidedBy:         userID,
		DecidedAt:         now,
	}
	if comment != "" {
		decision.Comment = &comment
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "paper_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"final_decision", "comment", "average_score", "average_confidence",
				"review_count", "decided_by", "decided_at",
			}),
		}).Create(&decision).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Paper{}).
			Where("paper_id = ?", paperID).
			Updates(map[string]interface{}{"status": paperStatus, "update_at": now}).Error; err != nil {
			return err
		}

		auditValues := map[string]interface{}{
			"final_decision": finalDecision,
			"comment":        comment,
			"average_score":  stats.AverageScore,
			"review_count":   stats.CompletedReviews,
		}
		serialized, _ := json.Marshal(auditValues)
		entityID := paperID
		values := string(serialized)
		description := "Final decision recorded"
		audit := models.AuditLog{
			UserID:      userID,
			Action:      "decide",
			EntityType:  "paper",
			EntityID:    &entityID,
			NewValues:   &values,
			Description: &description,
			IPAddress:   clientIP,
			CreateAt:    now,
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		return nil, err
	}

	// Delivery is best effort; the decision stands whatever happens here.
	NotifyDecision(raw, finalDecision, comment)

	return GetPaperDecisionInfo(paperID, userID)
}

// GetPaperDecisionInfo assembles the decision view for a requester, routed
// through the visibility filter. Works before any decision exists.
func GetPaperDecisionInfo(paperID, requesterID int) (*DecisionResponse, error) {
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

	anonymize := rel == RelAuthor || rel == RelAssignedReviewer || rel == RelPeerReviewer
	response := &DecisionResponse{
		Paper:       view,
		HasDecision: raw.Decision != nil,
		Decision:    view.Decision,
		Stage:       stage,
		Timeline:    BuildTimeline(*raw, anonymize),
		ReviewStats: view.ReviewStats,
	}

	// The decider identity is part of the chair/admin view only.
	if raw.Decision != nil && (rel == RelAdmin || rel == RelChair) {
		var decider models.User
		if err := config.DB.Where("user_id = ?", raw.Decision.DecidedBy).
			First(&decider).Error; err == nil {
			response.DecidedBy = &decider
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return response, nil
}
