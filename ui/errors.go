package ui

import (
	"errors"
	"log"
	"net/http"

	apperrors "samplemeta/internal/errors"

	"github.com/gin-gonic/gin"
)

// statusFor maps application error codes to HTTP status codes
func statusFor(err error) int {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case apperrors.CodeInvalidInput, apperrors.CodeValidationError,
		apperrors.CodeIOFailure, apperrors.CodeSchemaMismatch, apperrors.CodeMalformedInput:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[API] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": apperrors.GetCode(err)})
}
