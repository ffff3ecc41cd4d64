package controllers

import (
	"net/http"

	"conference-review-api/config"
	"conference-review-api/models"
	"conference-review-api/services"

	"github.com/gin-gonic/gin"
)

// DeclareConflict declares a conflict of interest between a user and a
// paper. Users declare for themselves; chairs and admins may declare for
// anyone. Idempotent.
func DeclareConflict(c *gin.Context) {
	paperID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		UserID int `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	targetID := req.UserID
	if targetID == 0 {
		targetID = userID
	}
	if targetID != userID {
		var paper models.Paper
		if err := config.DB.Where("paper_id = ? AND delete_at IS NULL", paperID).
			First(&paper).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Paper not found"})
			return
		}
		if _, ok := requireChairOrAdmin(c, paper.ConferenceID); !ok {
			return
		}
	}

	conflict, err := services.DeclareConflict(paperID, targetID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"conflict": conflict,
	})
}

// RetractConflict removes a declared conflict. Chair/admin only.
func RetractConflict(c *gin.Context) {
	paperID, ok := paramID(c, "id")
	if !ok {
		return
	}
	targetID, ok := paramID(c, "userId")
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

	if err := services.RetractConflict(paperID, targetID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Conflict retracted",
	})
}
