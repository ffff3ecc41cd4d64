package controllers

import (
	"net/http"

	"conference-review-api/config"
	"conference-review-api/models"
	"conference-review-api/services"

	"github.com/gin-gonic/gin"
)

// AutoAssign runs the allocation pass for a conference. Chair/admin only.
func AutoAssign(c *gin.Context) {
	conferenceID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := requireChairOrAdmin(c, conferenceID)
	if !ok {
		return
	}

	var req struct {
		TargetPerPaper int `json:"target_per_paper" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := services.AutoAssign(conferenceID, req.TargetPerPaper, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"assigned_count": result.AssignedCount,
		"shortfalls":     result.Shortfalls,
	})
}

// AssignReviewer manually assigns one reviewer to a paper. Chair/admin only;
// assigning an assigned pair succeeds idempotently.
func AssignReviewer(c *gin.Context) {
	paperID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var paper models.Paper
	if err := config.DB.Where("paper_id = ? AND delete_at IS NULL", paperID).
		First(&paper).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paper not found"})
		return
	}
	userID, ok := requireChairOrAdmin(c, paper.ConferenceID)
	if !ok {
		return
	}

	var req struct {
		ReviewerID int `json:"reviewer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	assignment, err := services.AssignReviewer(paperID, req.ReviewerID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"assignment": assignment,
	})
}

// UnassignReviewer removes an assignment before its review is submitted.
// Chair/admin only.
func UnassignReviewer(c *gin.Context) {
	assignmentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var assignment models.ReviewAssignment
	if err := config.DB.Where("assignment_id = ?", assignmentID).
		First(&assignment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		return
	}
	var paper models.Paper
	if err := config.DB.Where("paper_id = ?", assignment.PaperID).
		First(&paper).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load paper"})
		return
	}
	if _, ok := requireChairOrAdmin(c, paper.ConferenceID); !ok {
		return
	}

	if err := services.UnassignReviewer(assignmentID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Assignment removed",
	})
}

// GetMyAssignments returns the caller's review worklist for a conference.
func GetMyAssignments(c *gin.Context) {
	conferenceID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var assignments []models.ReviewAssignment
	if err := config.DB.Preload("Review").
		Joins("JOIN papers ON papers.paper_id = review_assignments.paper_id").
		Where("papers.conference_id = ? AND papers.delete_at IS NULL", conferenceID).
		Where("review_assignments.reviewer_id = ?", userID).
		Order("review_assignments.assignment_id").
		Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assignments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"assignments": assignments,
		"total":       len(assignments),
	})
}

// GetPaperAssignments lists a paper's assignments with real identities.
// Chair/admin only.
func GetPaperAssignments(c *gin.Context) {
	paperID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var paper models.Paper
	if err := config.DB.Where("paper_id = ? AND delete_at IS NULL", paperID).
		First(&paper).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paper not found"})
		return
	}
	if _, ok := requireChairOrAdmin(c, paper.ConferenceID); !ok {
		return
	}

	var assignments []models.ReviewAssignment
	if err := config.DB.Preload("Review").Preload("Reviewer").
		Where("paper_id = ?", paperID).
		Order("assignment_id").
		Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assignments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"assignments": assignments,
		"total":       len(assignments),
	})
}
