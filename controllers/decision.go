package controllers

import (
	"net/http"
	"strings"

	"conference-review-api/services"

	"github.com/gin-gonic/gin"
)

// MakeDecision records the final decision for a paper. Chair/admin authority
// is re-checked inside the service against current membership rows.
func MakeDecision(c *gin.Context) {
	paperID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Decision string `json:"decision" binding:"required"`
		Comment  string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	decision := strings.ToLower(strings.TrimSpace(req.Decision))
	comment := strings.TrimSpace(req.Comment)

	response, err := services.MakeDecision(paperID, userID, decision, comment, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Decision recorded",
		"result":  response,
	})
}

// GetPaperDecisionInfo returns the decision view for the requester, filtered
// by their relationship to the paper. Valid before any decision exists.
func GetPaperDecisionInfo(c *gin.Context) {
	paperID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	response, err := services.GetPaperDecisionInfo(paperID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  response,
	})
}
