package repositories

import (
	"context"

	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
	"gorm.io/gorm"
)

// AssessmentRepository stores one assessment per job. A nil tx uses the
// repository's own connection.
type AssessmentRepository interface {
	// GetByJobID returns ErrNotFound when the job has never been saved.
	GetByJobID(ctx context.Context, tx *gorm.DB, jobID uint) (*models.Assessment, error)

	// GetByJobIDForUpdate locks the row for the rest of tx.
	GetByJobIDForUpdate(ctx context.Context, tx *gorm.DB, jobID uint) (*models.Assessment, error)

	// Upsert inserts or replaces the structure for assessment.JobID and
	// writes the stored version and timestamps back into assessment.
	Upsert(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error

	ExistsByJobID(ctx context.Context, tx *gorm.DB, jobID uint) (bool, error)
}
