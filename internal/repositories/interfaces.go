package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrVersionConflict = errors.New("record was modified concurrently")
)

// IsNotFoundError reports whether err means the requested row does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// ===== AGGREGATE =====

// Repository groups the per-table repositories so services take a single
// dependency and can run several calls in one transaction.
type Repository interface {
	Assessment() AssessmentRepository
	Submission() SubmissionRepository

	// Transaction runs fn in a database transaction. Repository calls
	// inside fn must pass tx through.
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ===== SHARED FILTER STRUCTS =====

type SubmissionFilters struct {
	CandidateID *uint      `json:"candidate_id"`
	DateFrom    *time.Time `json:"date_from"`
	DateTo      *time.Time `json:"date_to"`
	Limit       int        `json:"limit"`
	Offset      int        `json:"offset"`
	SortOrder   string     `json:"sort_order"` // "asc", "desc"
}

// ===== SHARED STATISTICS STRUCTS =====

type SubmissionStats struct {
	TotalSubmissions int        `json:"total_submissions"`
	UniqueCandidates int        `json:"unique_candidates"`
	FirstSubmittedAt *time.Time `json:"first_submitted_at,omitempty"`
	LastSubmittedAt  *time.Time `json:"last_submitted_at,omitempty"`
}
