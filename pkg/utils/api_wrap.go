package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusCreated, data, message)
}

func respond(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Success: true,
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Success: false,
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Error:   message,
	})
}

// HandleServiceError maps a service error onto the response status. Errors
// outside the known taxonomy are logged and answered with a generic 500.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusConflict, "Email already exists")
	case errors.Is(err, ErrWorkspaceNotFound):
		RespondError(c, http.StatusNotFound, "Workspace not found")
	case errors.Is(err, ErrMoodboardNotFound):
		RespondError(c, http.StatusNotFound, "Moodboard not found")
	case errors.Is(err, ErrAccountNotFound):
		RespondError(c, http.StatusNotFound, "Account not found")
	case errors.Is(err, ErrItemNotFound):
		RespondError(c, http.StatusNotFound, "Item not found")
	case errors.Is(err, ErrShareNotFound):
		RespondError(c, http.StatusNotFound, "Share not found")
	case errors.Is(err, ErrShareExpired):
		RespondError(c, http.StatusGone, "Share link has expired")
	case errors.Is(err, ErrInvalidToken):
		RespondError(c, http.StatusBadRequest, "Invalid or expired token")
	case errors.Is(err, ErrInvalidPage):
		RespondError(c, http.StatusBadRequest, "Page must be greater than 0")
	case errors.Is(err, ErrInvalidPageSize):
		RespondError(c, http.StatusBadRequest, "Page size must be between 1 and 100")
	case errors.Is(err, ErrInvalidStep),
		errors.Is(err, ErrInvalidFocusArea),
		errors.Is(err, ErrInvalidImageType),
		errors.Is(err, ErrInvalidItemType),
		errors.Is(err, ErrValidation):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrGenerationFailed):
		zap.L().Warn("generation failed", zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
		RespondError(c, http.StatusBadGateway, "Moodboard generation failed, please try again")
	case errors.Is(err, ErrDatabaseError):
		zap.L().Error("database error", zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		zap.L().Error("unknown error", zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
