package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
)

// AssessmentRecord is the row behind models.Assessment. The structure is
// stored whole as jsonb; sections and questions have no tables of their own.
type AssessmentRecord struct {
	ID        uint                                 `gorm:"primaryKey"`
	JobID     uint                                 `gorm:"uniqueIndex;not null"`
	Structure datatypes.JSONType[models.Structure] `gorm:"type:jsonb;not null"`
	Version   int                                  `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AssessmentRecord) TableName() string {
	return "assessments"
}

func newAssessmentRecord(a *models.Assessment) AssessmentRecord {
	return AssessmentRecord{
		JobID:     a.JobID,
		Structure: datatypes.NewJSONType(a.Structure),
		Version:   a.Version,
	}
}

func (r AssessmentRecord) toModel() *models.Assessment {
	structure := r.Structure.Data()
	if structure.Sections == nil {
		structure.Sections = []models.Section{}
	}
	createdAt, updatedAt := r.CreatedAt, r.UpdatedAt
	return &models.Assessment{
		JobID:     r.JobID,
		Structure: structure,
		Version:   r.Version,
		CreatedAt: &createdAt,
		UpdatedAt: &updatedAt,
	}
}

// SubmissionRecord is the row behind models.Submission.
type SubmissionRecord struct {
	ID          string         `gorm:"type:uuid;primaryKey"`
	JobID       uint           `gorm:"index;not null"`
	CandidateID uint           `gorm:"index;not null"`
	Answers     datatypes.JSON `gorm:"type:jsonb;not null"`
	SubmittedAt time.Time      `gorm:"index;not null"`
}

func (SubmissionRecord) TableName() string {
	return "submissions"
}

func newSubmissionRecord(s *models.Submission) (SubmissionRecord, error) {
	answers := s.Answers
	if answers == nil {
		answers = models.AnswerSet{}
	}
	data, err := json.Marshal(answers)
	if err != nil {
		return SubmissionRecord{}, fmt.Errorf("failed to encode answers: %w", err)
	}
	return SubmissionRecord{
		ID:          s.ID,
		JobID:       s.JobID,
		CandidateID: s.CandidateID,
		Answers:     datatypes.JSON(data),
		SubmittedAt: s.SubmittedAt,
	}, nil
}

func (r SubmissionRecord) toModel() (*models.Submission, error) {
	answers := models.AnswerSet{}
	if len(r.Answers) > 0 {
		if err := json.Unmarshal(r.Answers, &answers); err != nil {
			return nil, fmt.Errorf("failed to decode answers of submission %s: %w", r.ID, err)
		}
	}
	return &models.Submission{
		ID:          r.ID,
		JobID:       r.JobID,
		CandidateID: r.CandidateID,
		Answers:     answers,
		SubmittedAt: r.SubmittedAt,
	}, nil
}
