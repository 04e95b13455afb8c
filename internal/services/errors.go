package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/talentflow-assessment/internal/builder"
	apperrors "github.com/SAP-F-2025/talentflow-assessment/internal/errors"
	"github.com/SAP-F-2025/talentflow-assessment/internal/validator"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Assessment specific errors
	ErrAssessmentNotFound    = errors.New("assessment not found")
	ErrAssessmentModified    = errors.New("assessment was modified since it was loaded")
	ErrAssessmentEmpty       = errors.New("no assessment available for this job")
	ErrAssessmentUnavailable = errors.New("assessment could not be loaded")
	ErrInvalidDocument       = errors.New("invalid assessment document")

	// Submission specific errors
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrSubmissionFailed     = errors.New("submission could not be saved")
	ErrSubmissionInProgress = errors.New("submission already in progress")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

type PermissionError struct {
	UserID   string `json:"user_id"`
	JobID    uint   `json:"job_id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s of job %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.JobID, pe.Reason)
}

// ===== ERROR HELPERS =====

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

func NewPermissionError(userID string, jobID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		JobID:    jobID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

// builderRuleError turns a rejected builder operation into a business rule
// violation the handlers report as 422.
func builderRuleError(err error) error {
	rules := []struct {
		err  error
		rule string
	}{
		{builder.ErrInvalidQuestionType, "question_type"},
		{builder.ErrInvalidOperator, "condition_operator"},
		{builder.ErrSelfCondition, "self_condition"},
		{builder.ErrConditionCycle, "condition_cycle"},
		{builder.ErrLastOption, "options_required"},
		{builder.ErrInvalidRange, "range_order"},
	}
	for _, r := range rules {
		if errors.Is(err, r.err) {
			return fmt.Errorf("%w: %w", NewBusinessRuleError(r.rule, r.err.Error(), nil), err)
		}
	}
	return err
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAssessmentNotFound) ||
		errors.Is(err, ErrSubmissionNotFound) ||
		errors.Is(err, builder.ErrSectionNotFound) ||
		errors.Is(err, builder.ErrQuestionNotFound) ||
		errors.Is(err, builder.ErrOptionNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	var pe *PermissionError
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.As(err, &pe)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrInvalidDocument) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsAnswerValidation reports whether a submission was rejected because of
// its answers, and returns the per-question messages.
func IsAnswerValidation(err error) (validator.AnswerErrors, bool) {
	var ae validator.AnswerErrors
	if errors.As(err, &ae) && !ae.OK() {
		return ae, true
	}
	return nil, false
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrSubmissionInProgress)
}

// IsPreconditionFailed reports a stale If-Match fingerprint.
func IsPreconditionFailed(err error) bool {
	return errors.Is(err, ErrAssessmentModified)
}

// IsUnavailable reports a failure of a collaborator the caller may retry.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrAssessmentUnavailable) ||
		errors.Is(err, ErrSubmissionFailed)
}
