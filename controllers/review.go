package controllers

import (
	"net/http"

	"conference-review-api/services"

	"github.com/gin-gonic/gin"
)

// SaveReviewDraft upserts the caller's review content for an assignment.
func SaveReviewDraft(c *gin.Context) {
	assignmentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input services.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	review, err := services.SaveReviewDraft(assignmentID, userID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"review":  review,
	})
}

// SubmitReview finalizes the caller's review. One-way transition.
func SubmitReview(c *gin.Context) {
	assignmentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	review, err := services.SubmitReview(assignmentID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review submitted",
		"review":  review,
	})
}

// GetReview returns the review for an assignment to its reviewer, a chair,
// or an admin.
func GetReview(c *gin.Context) {
	assignmentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	review, err := services.GetReview(assignmentID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"review":  review,
	})
}
