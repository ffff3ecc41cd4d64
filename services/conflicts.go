package services

import (
	"errors"
	"time"

	"conference-review-api/config"
	"conference-review-api/models"

	"gorm.io/gorm"
)

// DeclareConflict records a conflict of interest between a user and a paper.
// Declaring an existing conflict is a no-op. A conflict is always allowed
// even when a bid already exists; readers treat such bids as void.
func DeclareConflict(paperID, userID, declaredBy int) (*models.Conflict, error) {
	var paper models.Paper
	if err := config.DB.Where("paper_id = ? AND delete_at IS NULL", paperID).
		First(&paper).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(ErrKindNotFound, "Paper not found")
		}
		return nil, err
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", userID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(ErrKindNotFound, "User not found")
		}
		return nil, err
	}

	conflict := models.Conflict{
		PaperID: paperID,
		UserID:  userID,
	}
	if err := config.DB.
		Where("paper_id = ? AND user_id = ?", paperID, userID).
		Attrs(models.Conflict{DeclaredBy: declaredBy, CreateAt: time.Now()}).
		FirstOrCreate(&conflict).Error; err != nil {
		return nil, err
	}
	return &conflict, nil
}

// RetractConflict removes a declared conflict. Retracting a conflict that was
// never declared is a no-op.
func RetractConflict(paperID, userID int) error {
	return config.DB.
		Where("paper_id = ? AND user_id = ?", paperID, userID).
		Delete(&models.Conflict{}).Error
}

// HasConflict reports whether a live conflict exists for the pair.
func HasConflict(db *gorm.DB, paperID, userID int) (bool, error) {
	var count int64
	if err := db.Model(&models.Conflict{}).
		Where("paper_id = ? AND user_id = ?", paperID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
