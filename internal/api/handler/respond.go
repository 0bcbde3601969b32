package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"parking_ops/internal/repository"
	"parking_ops/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}

// statusFor maps domain and repository errors onto HTTP statuses. Anything
// unmapped is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidSubscription),
		errors.Is(err, service.ErrInvalidSchedule),
		errors.Is(err, service.ErrInvalidRate),
		errors.Is(err, repository.ErrTicketClosed):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrCategoryMismatch):
		return http.StatusForbidden
	case errors.Is(err, service.ErrZoneClosed),
		errors.Is(err, service.ErrNoSlots),
		errors.Is(err, service.ErrCarLimitReached),
		errors.Is(err, service.ErrScheduleOverlap),
		errors.Is(err, repository.ErrDuplicateEntry):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondServiceError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	respondError(c, status, message)
}
