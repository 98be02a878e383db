package helper

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todos/internal/core/model/response"
)

func SendError(c *gin.Context, statusCode int, code string, errors []response.ValidationError, details ...any) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errors,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.AbortWithStatusJSON(statusCode, errorResponse)
}

func SendInternalError(c *gin.Context, message string, details ...any) {
	errors := []response.ValidationError{
		{
			Field:   "server",
			Message: message,
		},
	}

	SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", errors, details...)
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	errors := []response.ValidationError{
		{
			Field:   field,
			Message: message,
		},
	}

	SendError(c, http.StatusBadRequest, "BAD_REQUEST", errors)
}

func SendNotFoundError(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "resource",
			Message: message,
		},
	}

	SendError(c, http.StatusNotFound, "NOT_FOUND", errors)
}
