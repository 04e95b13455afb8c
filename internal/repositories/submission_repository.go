package repositories

import (
	"context"

	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
	"gorm.io/gorm"
)

// SubmissionRepository is insert-only: a submission is never updated or
// deleted, and a candidate may submit more than once.
type SubmissionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Submission, error)

	ListByJob(ctx context.Context, tx *gorm.DB, jobID uint, filters SubmissionFilters) ([]*models.Submission, int64, error)
	GetStats(ctx context.Context, tx *gorm.DB, jobID uint) (*SubmissionStats, error)
}
