package controllers

import (
	"errors"
	"net/http"
	"time"

	"conference-review-api/config"
	"conference-review-api/models"
	"conference-review-api/services"
	"conference-review-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreatePaper records a new submission with its ordered author list. The
// submitter is always part of the author list.
func CreatePaper(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		ConferenceID int    `json:"conference_id" binding:"required"`
		TrackID      *int   `json:"track_id"`
		Title        string `json:"title" binding:"required"`
		Abstract     string `json:"abstract" binding:"required"`
		AuthorIDs    []int  `json:"author_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var conference models.Conference
	if err := config.DB.Where("conference_id = ? AND delete_at IS NULL", req.ConferenceID).
		First(&conference).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conference not found"})
		return
	}

	if req.TrackID != nil {
		var track models.Track
		if err := config.DB.Where("track_id = ? AND conference_id = ?", *req.TrackID, req.ConferenceID).
			First(&track).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Track does not belong to this conference"})
			return
		}
	}

	// Submitter first, co-authors in the requested order.
	authorIDs := []int{userID}
	for _, authorID := range req.AuthorIDs {
		if authorID == userID {
			continue
		}
		authorIDs = append(authorIDs, authorID)
	}
	for _, authorID := range authorIDs {
		var author models.User
		if err := config.DB.Where("user_id = ? AND delete_at IS NULL", authorID).
			First(&author).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Author user not found"})
			return
		}
	}

	now := time.Now()
	paper := models.Paper{
		ConferenceID: req.ConferenceID,
		TrackID:      req.TrackID,
		Title:        utils.SanitizeInput(req.Title),
		Abstract:     utils.SanitizeInput(req.Abstract),
		Status:       models.PaperStatusSubmitted,
		SubmittedBy:  userID,
		SubmittedAt:  now,
		CreateAt:     now,
		UpdateAt:     now,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&paper).Error; err != nil {
			return err
		}
		for order, authorID := range authorIDs {
			author := models.PaperAuthor{
				PaperID:     paper.PaperID,
				UserID:      authorID,
				AuthorOrder: order + 1,
			}
			if err := tx.Create(&author).Error; err != nil {
				return err
			}
		}
		// Submitting makes every listed author an author member of the
		// conference, so the allocator's exclusion sets stay complete.
		for _, authorID := range authorIDs {
			member := models.ConferenceMember{
				ConferenceID: req.ConferenceID,
				UserID:       authorID,
				Role:         models.ConferenceRoleAuthor,
			}
			if err := tx.Where("conference_id = ? AND user_id = ? AND role = ?",
				req.ConferenceID, authorID, models.ConferenceRoleAuthor).
				Attrs(models.ConferenceMember{JoinedAt: now}).
				FirstOrCreate(&member).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create paper"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"paper":   paper,
	})
}

// GetPaper returns the visibility-filtered projection of one paper for the
// requester.
func GetPaper(c *gin.Context) {
	paperID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	view, err := services.GetPaperView(paperID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"paper":   view,
	})
}

// GetConferencePapers lists the papers of a conference the requester may see:
// chairs and admins all of them, reviewers the ones they could bid on, and
// authors their own.
func GetConferencePapers(c *gin.Context) {
	conferenceID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var conference models.Conference
	if err := config.DB.Where("conference_id = ? AND delete_at IS NULL", conferenceID).
		First(&conference).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conference not found"})
		return
	}

	admin, err := services.IsAdminUser(config.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check permissions"})
		return
	}
	roles, err := services.GetConferenceRoles(config.DB, conferenceID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check permissions"})
		return
	}

	query := config.DB.Model(&models.Paper{}).
		Where("conference_id = ? AND delete_at IS NULL", conferenceID)

	reviewerListing := false
	switch {
	case admin || roles[models.ConferenceRoleChair]:
		// Full list.
	case roles[models.ConferenceRoleReviewer]:
		reviewerListing = true
		query = query.
			Where("NOT EXISTS (SELECT 1 FROM paper_authors WHERE paper_authors.paper_id = papers.paper_id AND paper_authors.user_id = ?)", userID).
			Where("NOT EXISTS (SELECT 1 FROM conflicts WHERE conflicts.paper_id = papers.paper_id AND conflicts.user_id = ?)", userID)
	case roles[models.ConferenceRoleAuthor]:
		query = query.
			Where("EXISTS (SELECT 1 FROM paper_authors WHERE paper_authors.paper_id = papers.paper_id AND paper_authors.user_id = ?)", userID)
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this conference"})
		return
	}

	var papers []models.Paper
	if err := query.Order("paper_id").Find(&papers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch papers"})
		return
	}

	// Author identities stay hidden from reviewers even in listings; the
	// submitter id is one of them.
	if reviewerListing {
		papers = services.RedactSubmitterIdentity(papers)
	}
	if !admin && !roles[models.ConferenceRoleChair] {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"papers":  papers,
			"total":   len(papers),
		})
		return
	}

	for i := range papers {
		var authors []models.PaperAuthor
		if err := config.DB.Preload("User").
			Where("paper_id = ?", papers[i].PaperID).
			Order("author_order").
			Find(&authors).Error; err == nil {
			papers[i].Authors = authors
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"papers":  papers,
		"total":   len(papers),
	})
}

// DeletePaper soft-deletes a submission. Blocked once any review assignment
// exists.
func DeletePaper(c *gin.Context) {
	paperID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var paper models.Paper
	if err := config.DB.Where("paper_id = ? AND delete_at IS NULL", paperID).
		First(&paper).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Paper not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load paper"})
		return
	}

	admin, err := services.IsAdminUser(config.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check permissions"})
		return
	}
	if !admin && paper.SubmittedBy != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the submitter can withdraw a paper"})
		return
	}

	var assignmentCount int64
	if err := config.DB.Model(&models.ReviewAssignment{}).
		Where("paper_id = ?", paperID).
		Count(&assignmentCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check assignments"})
		return
	}
	if assignmentCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Papers under review cannot be withdrawn"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.Paper{}).
		Where("paper_id = ?", paperID).
		Updates(map[string]interface{}{"delete_at": now, "update_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to withdraw paper"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Paper withdrawn",
	})
}
