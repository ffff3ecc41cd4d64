package services

import "conference-review-api/models"

// Stage is the derived lifecycle position of a paper. It is recomputed from
// current records on every read and never persisted, so it cannot drift.
type Stage string

const (
	StageSubmitted   Stage = "submitted"
	StageUnderReview Stage = "under_review"
	StageDecided     Stage = "decided"
	StageCameraReady Stage = "camera_ready"
)

// ComputeStage derives the stage of a paper from its related records.
func ComputeStage(assignments []models.ReviewAssignment, decision *models.Decision, files []models.PaperFile) Stage {
	if decision != nil {
		if decision.FinalDecision == models.DecisionAccept && hasApprovedCameraReady(files) {
			return StageCameraReady
		}
		return StageDecided
	}

	for _, assignment := range assignments {
		if assignment.Review != nil && assignment.Review.SubmittedAt != nil {
			return StageUnderReview
		}
	}
	return StageSubmitted
}

func hasApprovedCameraReady(files []models.PaperFile) bool {
	for _, file := range files {
		if file.Kind == models.PaperFileKindCameraReady && file.Status == models.PaperFileStatusApproved {
			return true
		}
	}
	return false
}

// PostDecision reports whether review material may be shown to authors.
func (s Stage) PostDecision() bool {
	return s == StageDecided || s == StageCameraReady
}
