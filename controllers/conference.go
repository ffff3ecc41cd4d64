package controllers

import (
	"net/http"
	"time"

	"conference-review-api/config"
	"conference-review-api/models"
	"conference-review-api/services"
	"conference-review-api/utils"

	"github.com/gin-gonic/gin"
)

// CreateConference creates a conference with its tracks. Admin only.
func CreateConference(c *gin.Context) {
	var req struct {
		Name    string   `json:"name" binding:"required"`
		Acronym string   `json:"acronym" binding:"required"`
		Year    int      `json:"year" binding:"required"`
		Tracks  []string `json:"tracks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	acronym := utils.NormalizeAcronym(req.Acronym)
	if !utils.ValidAcronym(acronym) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Acronym must be 2-12 letters or digits, starting with a letter"})
		return
	}

	now := time.Now()
	conference := models.Conference{
		Name:     utils.SanitizeInput(req.Name),
		Acronym:  acronym,
		Year:     req.Year,
		CreateAt: now,
		UpdateAt: now,
	}
	for _, track := range req.Tracks {
		conference.Tracks = append(conference.Tracks, models.Track{
			Name: utils.SanitizeInput(track),
		})
	}

	if err := config.DB.Create(&conference).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conference"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"conference": conference,
	})
}

// GetConferences lists all conferences.
func GetConferences(c *gin.Context) {
	var conferences []models.Conference
	if err := config.DB.Preload("Tracks").
		Where("delete_at IS NULL").
		Order("year DESC, conference_id").
		Find(&conferences).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conferences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"conferences": conferences,
		"total":       len(conferences),
	})
}

// GetConference returns one conference with its tracks.
func GetConference(c *gin.Context) {
	conferenceID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var conference models.Conference
	if err := config.DB.Preload("Tracks").
		Where("conference_id = ? AND delete_at IS NULL", conferenceID).
		First(&conference).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conference not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"conference": conference,
	})
}

// requireChairOrAdmin resolves the caller and checks chair/admin standing for
// a conference.
func requireChairOrAdmin(c *gin.Context, conferenceID int) (int, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return 0, false
	}

	admin, err := services.IsAdminUser(config.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check permissions"})
		return 0, false
	}
	if admin {
		return userID, true
	}

	chair, err := services.HasConferenceRole(config.DB, conferenceID, userID,
		models.ConferenceRoleChair)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check permissions"})
		return 0, false
	}
	if !chair {
		c.JSON(http.StatusForbidden, gin.H{"error": "Chair role required"})
		return 0, false
	}
	return userID, true
}

// AddConferenceMember grants a user one role in a conference. Chair/admin
// only; granting an existing role is a no-op.
func AddConferenceMember(c *gin.Context) {
	conferenceID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, ok := requireChairOrAdmin(c, conferenceID); !ok {
		return
	}

	var req struct {
		UserID int    `json:"user_id" binding:"required"`
		Role   string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	member, err := services.AddConferenceMember(conferenceID, req.UserID, req.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"member":  member,
	})
}

// GetConferenceMembers lists members and their roles. Chair/admin only.
func GetConferenceMembers(c *gin.Context) {
	conferenceID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, ok := requireChairOrAdmin(c, conferenceID); !ok {
		return
	}

	var members []models.ConferenceMember
	if err := config.DB.Preload("User").
		Where("conference_id = ?", conferenceID).
		Order("user_id, role").
		Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"members": members,
		"total":   len(members),
	})
}
