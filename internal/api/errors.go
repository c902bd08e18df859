package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/skillpilot/internal/learner"
	"github.com/abhisek/skillpilot/internal/program"
)

func statusFor(err error) int {
	var reviewErr *program.ReviewError
	switch {
	case errors.As(err, &reviewErr):
		return http.StatusBadGateway
	case errors.Is(err, learner.ErrProfileNotFound),
		errors.Is(err, learner.ErrUnknownUseCase),
		errors.Is(err, learner.ErrUnknownTree),
		errors.Is(err, program.ErrUnknownWeek):
		return http.StatusNotFound
	case errors.Is(err, learner.ErrProfileExists),
		errors.Is(err, learner.ErrNoProgram),
		errors.Is(err, learner.ErrProgramActive),
		errors.Is(err, learner.ErrOutOfDomain),
		errors.Is(err, program.ErrWeekLocked),
		errors.Is(err, program.ErrNotSubmitted):
		return http.StatusConflict
	case errors.Is(err, program.ErrEmptySubmission),
		errors.Is(err, learner.ErrInvalidPreview):
		return http.StatusBadRequest
	case errors.Is(err, learner.ErrNoReviewer):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": gin.H{"message": err.Error()}})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": msg}})
}
