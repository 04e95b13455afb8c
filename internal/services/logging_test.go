package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SAP-F-2025/talentflow-assessment/internal/builder"
)

func TestFormatError(t *testing.T) {
	assert.Nil(t, FormatError(nil))

	perm := NewPermissionError("u-1", 4, "assessment", "PUT", "administrator role required")
	out := FormatError(fmt.Errorf("wrapped: %w", perm))
	assert.Equal(t, "permission", out["type"])
	assert.Equal(t, uint(4), out["job_id"])
	assert.Equal(t, "PUT", out["action"])
	assert.True(t, IsUnauthorized(perm))

	rule := FormatError(builderRuleError(builder.ErrSelfCondition))
	assert.Equal(t, "business_rule", rule["type"])
	assert.Equal(t, "self_condition", rule["rule"])

	assert.Equal(t, "not_found", FormatError(ErrSubmissionNotFound)["type"])
	assert.Equal(t, "conflict", FormatError(ErrAssessmentModified)["type"])
}

func TestLogOperation_PermissionDenied(t *testing.T) {
	var buf bytes.Buffer
	logger := NewServiceLogger(slog.New(slog.NewTextHandler(&buf, nil)), LogConfig{Service: "test", Component: "test"})

	perm := NewPermissionError("u-1", 4, "assessment", "DELETE", "administrator role required")
	logger.LogOperation(context.Background(), "remove_question", "u-1", 4, "assessment", 0, perm)

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "status=unauthorized")
	assert.Contains(t, buf.String(), "permission_action=DELETE")
}
