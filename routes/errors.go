package routes

import (
	"errors"
	"net/http"
	"strconv"

	"speshway-platform/middleware"
	"speshway-platform/services"
	"speshway-platform/utils"

	"github.com/gin-gonic/gin"
)

// errorStyle writes an error body. Most resources use the shared
// {error_code, message, details} envelope; home images answer with
// {success:false, message, error} which the admin UI expects.
type errorStyle func(c *gin.Context, status int, code, message string, details interface{})

func plainErrors(c *gin.Context, status int, code, message string, details interface{}) {
	switch status {
	case http.StatusNotFound:
		utils.RespondWithNotFound(c, message)
	case http.StatusBadRequest:
		utils.RespondWithBadRequest(c, message, details)
	case http.StatusInternalServerError:
		utils.RespondWithInternalError(c, message, details)
	default:
		utils.RespondWithError(c, status, code, message, details)
	}
}

func successEnvelopeErrors(c *gin.Context, status int, code, message string, details interface{}) {
	body := gin.H{"success": false, "message": message}
	if details != nil {
		body["error"] = details
	}
	c.JSON(status, body)
}

// respondServiceError maps the service error taxonomy onto HTTP statuses:
// not found → 404, validation → 400, anything else → 500.
func respondServiceError(c *gin.Context, style errorStyle, notFound, failure string, err error) {
	var ve *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		style(c, http.StatusNotFound, "not_found", notFound, nil)
	case errors.As(err, &ve):
		style(c, http.StatusBadRequest, "bad_request", ve.Message, gin.H{"field": ve.Field})
	default:
		middleware.GetLogger(c).Error(failure, "error", err, "path", c.FullPath())
		style(c, http.StatusInternalServerError, "internal_error", failure, err.Error())
	}
}

// includeAll reads the ?all=true switch used by admin listings.
func includeAll(c *gin.Context) bool {
	all, _ := strconv.ParseBool(c.Query("all"))
	return all
}
