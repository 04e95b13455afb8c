package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
	"github.com/SAP-F-2025/talentflow-assessment/internal/repositories"
)

type SubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) *SubmissionPostgreSQL {
	return &SubmissionPostgreSQL{db: db}
}

// Create always inserts a new row; earlier submissions by the same
// candidate are kept.
func (s *SubmissionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	record, err := newSubmissionRecord(submission)
	if err != nil {
		return err
	}
	if err := getDB(s.db, tx).WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (s *SubmissionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Submission, error) {
	var record SubmissionRecord
	if err := getDB(s.db, tx).WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("submission %s: %w", id, repositories.ErrNotFound)
		}
		return nil, err
	}
	return record.toModel()
}

func (s *SubmissionPostgreSQL) ListByJob(ctx context.Context, tx *gorm.DB, jobID uint, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	var records []SubmissionRecord
	var total int64

	// apply filter first
	query := getDB(s.db, tx).WithContext(ctx).Model(&SubmissionRecord{}).Where("job_id = ?", jobID)
	query = applySubmissionFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = applySubmissionPagination(query, filters)

	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}

	submissions := make([]*models.Submission, 0, len(records))
	for _, record := range records {
		submission, err := record.toModel()
		if err != nil {
			return nil, 0, err
		}
		submissions = append(submissions, submission)
	}

	return submissions, total, nil
}

func (s *SubmissionPostgreSQL) GetStats(ctx context.Context, tx *gorm.DB, jobID uint) (*repositories.SubmissionStats, error) {
	var total, candidates int64
	var first, last sql.NullTime

	err := getDB(s.db, tx).WithContext(ctx).
		Model(&SubmissionRecord{}).
		Where("job_id = ?", jobID).
		Select("COUNT(*), COUNT(DISTINCT candidate_id), MIN(submitted_at), MAX(submitted_at)").
		Row().Scan(&total, &candidates, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission stats for job %d: %w", jobID, err)
	}

	stats := &repositories.SubmissionStats{
		TotalSubmissions: int(total),
		UniqueCandidates: int(candidates),
	}
	if first.Valid {
		stats.FirstSubmittedAt = &first.Time
	}
	if last.Valid {
		stats.LastSubmittedAt = &last.Time
	}
	return stats, nil
}

func applySubmissionFilters(query *gorm.DB, filters repositories.SubmissionFilters) *gorm.DB {
	if filters.CandidateID != nil {
		query = query.Where("candidate_id = ?", *filters.CandidateID)
	}
	if filters.DateFrom != nil {
		query = query.Where("submitted_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("submitted_at <= ?", *filters.DateTo)
	}
	return query
}

func applySubmissionPagination(query *gorm.DB, filters repositories.SubmissionFilters) *gorm.DB {
	order := "ASC"
	if strings.EqualFold(filters.SortOrder, "desc") {
		order = "DESC"
	}
	query = query.Order("submitted_at " + order).Order("id " + order)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
