package controllers

import (
	"net/http"
	"strings"

	"conference-review-api/config"
	"conference-review-api/models"
	"conference-review-api/services"

	"github.com/gin-gonic/gin"
)

// SubmitBid records the caller's interest level for a paper. Upsert; at most
// one live bid per (paper, reviewer) pair.
func SubmitBid(c *gin.Context) {
	paperID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		BidValue string `json:"bid_value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	bid, err := services.SubmitBid(paperID, userID, strings.ToLower(strings.TrimSpace(req.BidValue)))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bid":     bid,
	})
}

// GetMyBid returns the caller's bid on a paper, if any.
func GetMyBid(c *gin.Context) {
	paperID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	bid, err := services.GetBid(paperID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bid":     bid,
	})
}

// GetMyConferenceBids returns all bids the caller holds in a conference.
func GetMyConferenceBids(c *gin.Context) {
	conferenceID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	bids, err := services.ListReviewerBids(conferenceID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bids":    bids,
		"total":   len(bids),
	})
}

// GetPaperBids lists all live bids on a paper with real identities.
// Chair/admin only.
func GetPaperBids(c *gin.Context) {
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

	bids, err := services.ListPaperBids(paperID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bids":    bids,
		"total":   len(bids),
	})
}
