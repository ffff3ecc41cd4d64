package services

import (
	"errors"
	"time"

	"conference-review-api/config"
	"conference-review-api/models"

	"gorm.io/gorm"
)

// GetConferenceRoles returns the set of roles the user holds in the
// conference. A user may hold several at once (author + reviewer + chair), so
// callers must check membership with "role in set", never equality.
func GetConferenceRoles(db *gorm.DB, conferenceID, userID int) (map[string]bool, error) {
	var members []models.ConferenceMember
	if err := db.Where("conference_id = ? AND user_id = ?", conferenceID, userID).
		Find(&members).Error; err != nil {
		return nil, err
	}

	roles := make(map[string]bool, len(members))
	for _, member := range members {
		roles[member.Role] = true
	}
	return roles, nil
}

// HasConferenceRole reports whether the user holds any of the given roles in
// the conference, re-derived from conference_members on every call.
func HasConferenceRole(db *gorm.DB, conferenceID, userID int, roles ...string) (bool, error) {
	var count int64
	if err := db.Model(&models.ConferenceMember{}).
		Where("conference_id = ? AND user_id = ? AND role IN ?", conferenceID, userID, roles).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsAdminUser reports whether the user holds the platform admin role.
func IsAdminUser(db *gorm.DB, userID int) (bool, error) {
	var user models.User
	if err := db.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin(), nil
}

// AddConferenceMember grants a role in a conference. Adding an existing
// (conference, user, role) row is a no-op.
func AddConferenceMember(conferenceID, userID int, role string) (*models.ConferenceMember, error) {
	if !models.ValidConferenceRole(role) {
		return nil, NewError(ErrKindValidation, "Invalid conference role")
	}

	var conference models.Conference
	if err := config.DB.Where("conference_id = ? AND delete_at IS NULL", conferenceID).
		First(&conference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(ErrKindNotFound, "Conference not found")
		}
		return nil, err
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(ErrKindNotFound, "User not found")
		}
		return nil, err
	}

	member := models.ConferenceMember{
		ConferenceID: conferenceID,
		UserID:       userID,
		Role:         role,
	}
	if err := config.DB.
		Where("conference_id = ? AND user_id = ? AND role = ?", conferenceID, userID, role).
		Attrs(models.ConferenceMember{JoinedAt: time.Now()}).
		FirstOrCreate(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}
