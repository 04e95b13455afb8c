package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/talentflow-assessment/internal/runtime"
	"github.com/SAP-F-2025/talentflow-assessment/internal/services"
	"github.com/SAP-F-2025/talentflow-assessment/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// log returns the request-scoped logger, which already carries the request
// id, method and path.
func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.GetLoggerFromContext(c, h.logger)
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"remote_addr", c.ClientIP(),
		"user_id", getUserID(c),
		"timestamp", time.Now().Format(time.RFC3339),
	}
	fields = append(fields, additionalFields...)

	h.log(c).Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"user_id", getUserID(c),
	}
	fields = append(fields, additionalFields...)

	h.log(c).LogError(err, message, fields...)
}

// LogWarn logs warning messages with context
func (h *BaseHandler) LogWarn(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"user_id", getUserID(c),
	}
	fields = append(fields, additionalFields...)

	h.log(c).Warn(message, fields...)
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error, details ...interface{}) {
	errorResp := ErrorResponse{
		Message: message,
	}

	if len(details) > 0 {
		errorResp.Details = details[0]
	}

	if err != nil && statusCode >= http.StatusInternalServerError {
		h.LogError(c, err, message, "status_code", statusCode)
	} else if err != nil {
		h.LogWarn(c, message, "status_code", statusCode, "error", err.Error())
	}

	c.JSON(statusCode, errorResp)
}

// handleServiceError maps service errors to HTTP responses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	if answerErrs, ok := services.IsAnswerValidation(err); ok {
		h.RespondWithError(c, http.StatusUnprocessableEntity, "Answers failed validation", err, gin.H{"errors": answerErrs})
		return
	}

	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, validationErrors)
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		h.RespondWithError(c, http.StatusUnprocessableEntity, businessRuleError.Message, err, map[string]interface{}{
			"rule":    businessRuleError.Rule,
			"context": businessRuleError.Context,
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		h.RespondWithError(c, http.StatusForbidden, "Access denied", err, map[string]interface{}{
			"resource": permissionError.Resource,
			"action":   permissionError.Action,
			"reason":   permissionError.Reason,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrAssessmentEmpty):
		h.RespondWithError(c, http.StatusNotFound, "No assessment available for this job", err)
	case errors.Is(err, services.ErrSubmissionNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Submission not found", err)
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, "Resource not found", err, err.Error())
	case services.IsPreconditionFailed(err):
		h.RespondWithError(c, http.StatusPreconditionFailed, "Assessment was modified by someone else; reload and retry", err)
	case services.IsConflict(err):
		h.RespondWithError(c, http.StatusConflict, "Request conflicts with the current state", err, err.Error())
	case errors.Is(err, services.ErrAssessmentUnavailable):
		h.RespondWithError(c, http.StatusBadGateway, "Failed to load assessment", err)
	case errors.Is(err, services.ErrSubmissionFailed):
		h.RespondWithError(c, http.StatusServiceUnavailable, runtime.SubmitFailedNotice, err)
	case services.IsValidation(err), errors.Is(err, services.ErrBadRequest):
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		h.RespondWithError(c, http.StatusUnauthorized, "Unauthorized access", err)
	case errors.Is(err, services.ErrForbidden):
		h.RespondWithError(c, http.StatusForbidden, "Insufficient permissions", err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// bindJSON binds the request body and answers 400 on failure.
func (h *BaseHandler) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return false
	}
	return true
}

// ===== PARAMS =====

func parseJobID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("job_id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid job_id",
			Details: "job_id must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

func parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	value, err := strconv.Atoi(c.Query(param))
	if err != nil {
		return defaultValue
	}
	return value
}

func parseTimeQuery(c *gin.Context, param string) *time.Time {
	raw := c.Query(param)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

// ===== ETAG =====

// editContext reads the caller and the If-Match fingerprint. Weak and
// quoted entity tags are accepted.
func editContext(c *gin.Context) services.EditContext {
	ifMatch := strings.TrimSpace(c.GetHeader("If-Match"))
	if ifMatch == "*" {
		ifMatch = ""
	}
	ifMatch = strings.TrimPrefix(ifMatch, "W/")
	return services.EditContext{
		UserID:  getUserID(c),
		IfMatch: strings.Trim(ifMatch, `"`),
	}
}

func setETag(c *gin.Context, fingerprint string) {
	if fingerprint != "" {
		c.Header("ETag", `"`+fingerprint+`"`)
	}
}
