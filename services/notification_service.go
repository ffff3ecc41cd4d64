package services

import (
	"fmt"
	"log"
	"time"

	"conference-review-api/config"
	"conference-review-api/models"
)

// NotifyDecision creates in-app notifications for every author of the paper
// and sends a best-effort email. Called outside the decision transaction;
// failures are logged, never propagated.
func NotifyDecision(raw *RawPaperView, finalDecision string, comment string) {
	title := "Decision on your submission"
	outcome := "rejected"
	notifType := "warning"
	if finalDecision == models.DecisionAccept {
		outcome = "accepted"
		notifType = "success"
	}
	message := fmt.Sprintf("Your paper %q has been %s.", raw.Paper.Title, outcome)
	if comment != "" {
		message += " Chair comment: " + comment
	}

	paperID := uint(raw.Paper.PaperID)
	var recipients []string
	for _, author := range raw.Authors {
		notification := models.Notification{
			UserID:         uint(author.UserID),
			Title:          title,
			Message:        message,
			Type:           notifType,
			RelatedPaperID: &paperID,
			CreateAt:       time.Now(),
		}
		if err := config.DB.Create(&notification).Error; err != nil {
			log.Printf("Warning: Failed to create decision notification for user %d: %v",
				author.UserID, err)
		}
		if author.User != nil && author.User.Email != "" {
			recipients = append(recipients, author.User.Email)
		}
	}

	html := fmt.Sprintf("<p>%s</p>", message)
	if err := config.SendMail(recipients, title, html); err != nil {
		log.Printf("Warning: Failed to send decision email for paper %d: %v",
			raw.Paper.PaperID, err)
	}
}

// ListNotifications returns a user's notifications, newest first.
func ListNotifications(userID int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := config.DB.Where("user_id = ?", userID).
		Order("create_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead flags one of the user's notifications as read.
func MarkNotificationRead(notificationID, userID int) error {
	now := time.Now()
	result := config.DB.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "update_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NewError(ErrKindNotFound, "Notification not found")
	}
	return nil
}
