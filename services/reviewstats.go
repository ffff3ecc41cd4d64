package services

import "conference-review-api/models"

// ReviewStats aggregates review scores for a paper. Only completed reviews
// (score and confidence both present) enter the averages; incomplete reviews
// count as pending, never as zero.
type ReviewStats struct {
	Scores            []int   `json:"scores"`
	AverageScore      float64 `json:"average_score"`
	AverageConfidence float64 `json:"average_confidence"`
	CompletedReviews  int     `json:"completed_review_count"`
	PendingReviews    int     `json:"pending_review_count"`
	TotalAssignments  int     `json:"total_assignments"`
	SubmittedReviews  int     `json:"submitted_review_count"`
}

// ComputeReviewStats aggregates over the paper's assignments.
func ComputeReviewStats(assignments []models.ReviewAssignment) ReviewStats {
	stats := ReviewStats{
		Scores:           []int{},
		TotalAssignments: len(assignments),
	}

	var scoreSum, confidenceSum int
	for _, assignment := range assignments {
		review := assignment.Review
		if assignment.Status == models.AssignmentStatusSubmitted {
			stats.SubmittedReviews++
		}
		if review.IsCompleted() {
			stats.CompletedReviews++
			stats.Scores = append(stats.Scores, *review.Score)
			scoreSum += *review.Score
			confidenceSum += *review.Confidence
		} else {
			stats.PendingReviews++
		}
	}

	if stats.CompletedReviews > 0 {
		stats.AverageScore = float64(scoreSum) / float64(stats.CompletedReviews)
		stats.AverageConfidence = float64(confidenceSum) / float64(stats.CompletedReviews)
	}
	return stats
}
