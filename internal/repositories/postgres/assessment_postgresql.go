package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
	"github.com/SAP-F-2025/talentflow-assessment/internal/repositories"
)

type AssessmentPostgreSQL struct {
	db *gorm.DB
}

func NewAssessmentPostgreSQL(db *gorm.DB) *AssessmentPostgreSQL {
	return &AssessmentPostgreSQL{db: db}
}

// GetByJobID retrieves the assessment attached to a job
func (a *AssessmentPostgreSQL) GetByJobID(ctx context.Context, tx *gorm.DB, jobID uint) (*models.Assessment, error) {
	return a.getByJobID(getDB(a.db, tx).WithContext(ctx), jobID)
}

func (a *AssessmentPostgreSQL) GetByJobIDForUpdate(ctx context.Context, tx *gorm.DB, jobID uint) (*models.Assessment, error) {
	return a.getByJobID(getDB(a.db, tx).WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), jobID)
}

func (a *AssessmentPostgreSQL) getByJobID(db *gorm.DB, jobID uint) (*models.Assessment, error) {
	var record AssessmentRecord
	if err := db.Where("job_id = ?", jobID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("assessment for job %d: %w", jobID, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get assessment for job %d: %w", jobID, err)
	}
	return record.toModel(), nil
}

// Upsert inserts the assessment at version 1, or replaces the structure of
// the existing row and bumps its version. The stored row is read back into
// assessment.
func (a *AssessmentPostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error {
	now := time.Now()
	record := newAssessmentRecord(assessment)
	record.Version = 1
	record.CreatedAt = now
	record.UpdatedAt = now

	err := getDB(a.db, tx).WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "job_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"structure":  gorm.Expr("excluded.structure"),
					"version":    gorm.Expr("assessments.version + 1"),
					"updated_at": now,
				}),
			},
			clause.Returning{},
		).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to save assessment for job %d: %w", assessment.JobID, err)
	}

	*assessment = *record.toModel()
	return nil
}

func (a *AssessmentPostgreSQL) ExistsByJobID(ctx context.Context, tx *gorm.DB, jobID uint) (bool, error) {
	var count int64
	if err := getDB(a.db, tx).WithContext(ctx).
		Model(&AssessmentRecord{}).
		Where("job_id = ?", jobID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
