package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wardwatch/wardwatch/apps/backend/internal/azure"
	"github.com/wardwatch/wardwatch/apps/backend/internal/repository"
	"github.com/wardwatch/wardwatch/apps/backend/internal/service"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/api"
	"go.uber.org/zap"
)

// Error codes returned in api.ErrorResponse
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeInternal   = "INTERNAL_ERROR"
)

// classify maps a service error onto an HTTP status and error code
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidID), service.IsValidation(err), errors.Is(err, azure.ErrEmptyBlobName):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrStorageDisabled), errors.Is(err, azure.ErrBlobNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, repository.ErrAlreadyAcknowledged), errors.Is(err, repository.ErrShiftNotOpen):
		return http.StatusConflict, CodeConflict
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// writeError responds with the api.ErrorResponse matching err. Server
// errors are logged; client errors are left to the request logger.
func writeError(c *gin.Context, logger *zap.Logger, err error, message string, fields ...zap.Field) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error(message, append(fields, zap.Error(err))...)
		_ = c.Error(err)
	}
	c.JSON(status, api.ErrorResponse{
		Code:    code,
		Message: message,
		Details: stringPtr(err.Error()),
	})
}

// badRequest responds with a VALIDATION_ERROR
func badRequest(c *gin.Context, message string, err error) {
	resp := api.ErrorResponse{
		Code:    CodeValidation,
		Message: message,
	}
	if err != nil {
		resp.Details = stringPtr(err.Error())
	}
	c.JSON(http.StatusBadRequest, resp)
}

// ParameterErrorHandler reports parameter binding failures of the generated
// server wrapper in the api.ErrorResponse shape
func ParameterErrorHandler(c *gin.Context, err error, statusCode int) {
	c.JSON(statusCode, api.ErrorResponse{
		Code:    CodeValidation,
		Message: "Invalid request parameters",
		Details: stringPtr(err.Error()),
	})
}

// origin extracts the audit origin of a request
func origin(c *gin.Context) service.Origin {
	return service.Origin{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
