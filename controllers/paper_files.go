package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"conference-review-api/config"
	"conference-review-api/models"
	"conference-review-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadPaperFile stores a manuscript or camera-ready file for a paper.
// Authors upload; camera-ready uploads require an accepted paper.
func UploadPaperFile(c *gin.Context) {
	paperID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	raw, err := services.LoadRawPaperView(paperID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	isAuthor := false
	for _, author := range raw.Authors {
		if author.UserID == userID {
			isAuthor = true
			break
		}
	}
	if !isAuthor {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only authors can upload paper files"})
		return
	}

	kind := c.DefaultPostForm("kind", models.PaperFileKindManuscript)
	if kind != models.PaperFileKindManuscript && kind != models.PaperFileKindCameraReady {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file kind"})
		return
	}
	if kind == models.PaperFileKindCameraReady {
		if raw.Decision == nil || raw.Decision.FinalDecision != models.DecisionAccept {
			c.JSON(http.StatusConflict, gin.H{"error": "Camera-ready uploads require an accepted paper"})
			return
		}
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	storedName := uuid.New().String() + filepath.Ext(file.Filename)
	storedPath := filepath.Join(uploadPath, storedName)

	record := models.PaperFile{
		PaperID:      paperID,
		Kind:         kind,
		Status:       models.PaperFileStatusUploaded,
		OriginalName: file.Filename,
		StoredPath:   storedPath,
		FileSize:     file.Size,
		MimeType:     file.Header.Get("Content-Type"),
		UploadedBy:   userID,
		UploadedAt:   time.Now(),
	}
	if !record.IsValidDocumentType() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}

	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	if err := config.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file record"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"file":    record,
	})
}

// GetPaperFiles lists file records of a paper for anyone with access to it.
func GetPaperFiles(c *gin.Context) {
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
		"files":   view.Files,
		"total":   len(view.Files),
	})
}

// ApproveCameraReady marks a camera-ready file approved. Chair/admin only;
// with an accepted decision this moves the paper to camera_ready.
func ApproveCameraReady(c *gin.Context) {
	paperID, ok := paramID(c, "id")
	if !ok {
		return
	}
	fileID, ok := paramID(c, "fileId")
	if !ok {
		return
	}

	raw, err := services.LoadRawPaperView(paperID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if _, ok := requireChairOrAdmin(c, raw.Paper.ConferenceID); !ok {
		return
	}

	var file models.PaperFile
	if err := config.DB.Where("file_id = ? AND paper_id = ?", fileID, paperID).
		First(&file).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	if file.Kind != models.PaperFileKindCameraReady {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only camera-ready files can be approved"})
		return
	}

	if err := config.DB.Model(&models.PaperFile{}).
		Where("file_id = ?", fileID).
		Update("status", models.PaperFileStatusApproved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve file"})
		return
	}

	if raw.Decision != nil && raw.Decision.FinalDecision == models.DecisionAccept {
		now := time.Now()
		if err := config.DB.Model(&models.Paper{}).
			Where("paper_id = ?", paperID).
			Updates(map[string]interface{}{
				"status":    models.PaperStatusCameraReady,
				"update_at": now,
			}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update paper status"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Camera-ready file approved",
	})
}
