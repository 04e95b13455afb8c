package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/SAP-F-2025/talentflow-assessment/internal/utils"
)

// LogLevel represents different log levels for service operations
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
	config LogConfig
}

type LogConfig struct {
	Service     string
	Component   string
	EnableDebug bool
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
		config: config,
	}
}

// ===== OPERATION LOGGING =====

func (l *ServiceLogger) LogOperation(ctx context.Context, operation string, userID string, jobID uint, resourceType string, duration time.Duration, err error) {
	logLevel := LogLevelInfo
	status := "success"

	if err != nil {
		logLevel = LogLevelError
		status = "error"

		// Adjust log level based on error type
		if _, ok := IsAnswerValidation(err); ok || IsValidation(err) || IsBusinessRule(err) {
			logLevel = LogLevelWarn
			status = "validation_error"
		} else if IsUnauthorized(err) {
			logLevel = LogLevelWarn
			status = "unauthorized"
		} else if IsNotFound(err) {
			logLevel = LogLevelInfo
			status = "not_found"
		} else if IsPreconditionFailed(err) || IsConflict(err) {
			logLevel = LogLevelInfo
			status = "conflict"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("user_id", userID),
		slog.Uint64("job_id", uint64(jobID)),
		slog.String("resource_type", resourceType),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))

		// Add error details for different error types
		var validationErr ValidationErrors
		var businessErr *BusinessRuleError
		var permErr *PermissionError
		if errors.As(err, &validationErr) {
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErr)))
		} else if answerErrs, ok := IsAnswerValidation(err); ok {
			attrs = append(attrs, slog.Int("answer_errors_count", len(answerErrs)))
		} else if errors.As(err, &businessErr) {
			attrs = append(attrs, slog.String("business_rule", businessErr.Rule))
		} else if errors.As(err, &permErr) {
			attrs = append(attrs, slog.String("permission_action", permErr.Action))
		}
	}

	// Add request context if available
	if requestID, ok := ctx.Value(utils.RequestIDKey).(string); ok {
		attrs = append(attrs, slog.String("request_id", requestID))
	}

	// Add caller information for errors
	if err != nil && logLevel == LogLevelError {
		if pc, file, line, ok := runtime.Caller(2); ok {
			if fn := runtime.FuncForPC(pc); fn != nil {
				attrs = append(attrs,
					slog.String("caller_func", fn.Name()),
					slog.String("caller_file", file),
					slog.Int("caller_line", line),
				)
			}
		}
	}

	message := fmt.Sprintf("%s operation %s", operation, status)

	switch logLevel {
	case LogLevelDebug:
		if l.config.EnableDebug {
			l.logger.LogAttrs(ctx, slog.LevelDebug, message, attrs...)
		}
	case LogLevelInfo:
		l.logger.LogAttrs(ctx, slog.LevelInfo, message, attrs...)
	case LogLevelWarn:
		l.logger.LogAttrs(ctx, slog.LevelWarn, message, attrs...)
	case LogLevelError:
		l.logger.LogAttrs(ctx, slog.LevelError, message, attrs...)
	}
}

func (l *ServiceLogger) LogValidationError(ctx context.Context, operation string, userID string, validationErrors ValidationErrors) {
	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("user_id", userID),
		slog.Int("error_count", len(validationErrors)),
	}

	// Add individual validation errors
	for i, err := range validationErrors {
		if i < 5 { // Limit to first 5 errors to avoid log spam
			attrs = append(attrs, slog.Group(fmt.Sprintf("error_%d", i+1),
				slog.String("field", err.Field),
				slog.String("message", err.Message),
				slog.Any("value", err.Value),
			))
		}
	}

	l.logger.LogAttrs(ctx, slog.LevelWarn, "Validation failed", attrs...)
}

func (l *ServiceLogger) LogBusinessRuleViolation(ctx context.Context, operation string, userID string, rule *BusinessRuleError) {
	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("user_id", userID),
		slog.String("rule", rule.Rule),
		slog.String("message", rule.Message),
	}

	if rule.Context != nil {
		for key, value := range rule.Context {
			attrs = append(attrs, slog.Any(fmt.Sprintf("context_%s", key), value))
		}
	}

	l.logger.LogAttrs(ctx, slog.LevelWarn, "Business rule violation", attrs...)
}

// ===== MIDDLEWARE AND HELPERS =====

// ContextualLogger wraps operations with automatic logging
type ContextualLogger struct {
	logger    *ServiceLogger
	operation string
	userID    string
	startTime time.Time
	ctx       context.Context
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation string, userID string) *ContextualLogger {
	return &ContextualLogger{
		logger:    l,
		operation: operation,
		userID:    userID,
		startTime: time.Now(),
		ctx:       ctx,
	}
}

func (cl *ContextualLogger) LogResult(jobID uint, resourceType string, err error) {
	duration := time.Since(cl.startTime)
	cl.logger.LogOperation(cl.ctx, cl.operation, cl.userID, jobID, resourceType, duration, err)

	// Log specific error types with additional context
	var validationErrors ValidationErrors
	var businessErr *BusinessRuleError
	if errors.As(err, &validationErrors) {
		cl.logger.LogValidationError(cl.ctx, cl.operation, cl.userID, validationErrors)
	} else if errors.As(err, &businessErr) {
		cl.logger.LogBusinessRuleViolation(cl.ctx, cl.operation, cl.userID, businessErr)
	}
}

// ===== ERROR FORMATTING HELPERS =====

func FormatError(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	result := map[string]interface{}{
		"message": err.Error(),
		"type":    "unknown",
	}

	var validationErrs ValidationErrors
	var businessErr *BusinessRuleError
	var permErr *PermissionError

	if errors.As(err, &validationErrs) {
		result["type"] = "validation"
		result["count"] = len(validationErrs)

		fields := make([]map[string]interface{}, len(validationErrs))
		for i, validationErr := range validationErrs {
			fields[i] = map[string]interface{}{
				"field":   validationErr.Field,
				"message": validationErr.Message,
				"value":   validationErr.Value,
			}
		}
		result["errors"] = fields
	} else if answerErrs, ok := IsAnswerValidation(err); ok {
		result["type"] = "answers"
		result["count"] = len(answerErrs)
		result["errors"] = answerErrs
	} else if errors.As(err, &businessErr) {
		result["type"] = "business_rule"
		result["rule"] = businessErr.Rule
		result["context"] = businessErr.Context
	} else if errors.As(err, &permErr) {
		result["type"] = "permission"
		result["user_id"] = permErr.UserID
		result["job_id"] = permErr.JobID
		result["resource"] = permErr.Resource
		result["action"] = permErr.Action
		result["reason"] = permErr.Reason
	} else if IsNotFound(err) {
		result["type"] = "not_found"
	} else if IsUnauthorized(err) {
		result["type"] = "unauthorized"
	} else if IsPreconditionFailed(err) || IsConflict(err) {
		result["type"] = "conflict"
	}

	return result
}
