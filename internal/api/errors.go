package api

import (
	"errors"
	"net/http"

	"github.com/employee-records-api/internal/repository"
	"github.com/employee-records-api/internal/service"
	"github.com/employee-records-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, validation.ErrInvalidEmployee), errors.Is(err, service.ErrUnsupportedFormat),
		errors.Is(err, service.ErrUnreadableUpload):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrConstraintViolation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrEmployeeNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrImportInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": ...}. Internal errors are logged
// and replaced by fallback so storage details never reach the client.
func respondError(c *gin.Context, log zerolog.Logger, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(fallback)
		c.JSON(status, gin.H{"error": fallback})
		return
	}

	// the driver message names tables and constraints
	if status == http.StatusUnprocessableEntity {
		log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("Database rejected the row")
		c.JSON(status, gin.H{"error": repository.ErrConstraintViolation.Error()})
		return
	}

	body := gin.H{"error": err.Error()}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		body["details"] = verrs
	}
	c.JSON(status, body)
}
