package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/talentflow-assessment/internal/repositories"
)

// Repository is the gorm-backed repositories.Repository.
type Repository struct {
	db         *gorm.DB
	assessment *AssessmentPostgreSQL
	submission *SubmissionPostgreSQL
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		assessment: NewAssessmentPostgreSQL(db),
		submission: NewSubmissionPostgreSQL(db),
	}
}

func (r *Repository) Assessment() repositories.AssessmentRepository {
	return r.assessment
}

func (r *Repository) Submission() repositories.SubmissionRepository {
	return r.submission
}

func (r *Repository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// AutoMigrate creates or updates the tables this service owns.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&AssessmentRecord{}, &SubmissionRecord{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func getDB(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
