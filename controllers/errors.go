package controllers

import (
	"net/http"

	"conference-review-api/services"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps a service error kind to an HTTP status and returns
// the kind in the body so clients can tell the cases apart.
func respondServiceError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case services.ErrKindNotFound:
		status = http.StatusNotFound
	case services.ErrKindNotAuthorized, services.ErrKindNotAMember:
		status = http.StatusForbidden
	case services.ErrKindConflictOfInterest, services.ErrKindAlreadySubmitted,
		services.ErrKindNoReviewsSubmitted:
		status = http.StatusConflict
	case services.ErrKindValidation:
		status = http.StatusBadRequest
	}

	if kind == "" {
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": string(kind)})
}

func paramID(c *gin.Context, name string) (int, bool) {
	id, err := parsePositiveInt(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

func currentUserID(c *gin.Context) (int, bool) {
	value, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return 0, false
	}
	userID, ok := value.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user context"})
		return 0, false
	}
	return userID, true
}
