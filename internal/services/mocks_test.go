package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
	"github.com/SAP-F-2025/talentflow-assessment/internal/repositories"
)

// MockAssessmentRepository is a mock implementation of AssessmentRepository
type MockAssessmentRepository struct {
	mock.Mock
}

func (m *MockAssessmentRepository) GetByJobID(ctx context.Context, tx *gorm.DB, jobID uint) (*models.Assessment, error) {
	args := m.Called(ctx, tx, jobID)
	if a := args.Get(0); a != nil {
		return a.(*models.Assessment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAssessmentRepository) GetByJobIDForUpdate(ctx context.Context, tx *gorm.DB, jobID uint) (*models.Assessment, error) {
	args := m.Called(ctx, tx, jobID)
	if a := args.Get(0); a != nil {
		return a.(*models.Assessment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAssessmentRepository) Upsert(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error {
	args := m.Called(ctx, tx, assessment)
	return args.Error(0)
}

func (m *MockAssessmentRepository) ExistsByJobID(ctx context.Context, tx *gorm.DB, jobID uint) (bool, error) {
	args := m.Called(ctx, tx, jobID)
	return args.Bool(0), args.Error(1)
}

// MockSubmissionRepository is a mock implementation of SubmissionRepository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	args := m.Called(ctx, tx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Submission, error) {
	args := m.Called(ctx, tx, id)
	if s := args.Get(0); s != nil {
		return s.(*models.Submission), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSubmissionRepository) ListByJob(ctx context.Context, tx *gorm.DB, jobID uint, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	args := m.Called(ctx, tx, jobID, filters)
	return args.Get(0).([]*models.Submission), args.Get(1).(int64), args.Error(2)
}

func (m *MockSubmissionRepository) GetStats(ctx context.Context, tx *gorm.DB, jobID uint) (*repositories.SubmissionStats, error) {
	args := m.Called(ctx, tx, jobID)
	if s := args.Get(0); s != nil {
		return s.(*repositories.SubmissionStats), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRepository is a mock implementation of the main Repository interface.
// Transaction runs fn with a nil tx.
type MockRepository struct {
	assessmentRepo *MockAssessmentRepository
	submissionRepo *MockSubmissionRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		assessmentRepo: &MockAssessmentRepository{},
		submissionRepo: &MockSubmissionRepository{},
	}
}

func (m *MockRepository) Assessment() repositories.AssessmentRepository { return m.assessmentRepo }
func (m *MockRepository) Submission() repositories.SubmissionRepository { return m.submissionRepo }
func (m *MockRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sequentialIDs returns a generator yielding id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func fptr(v float64) *float64 { return &v }

func screening() models.Structure {
	return models.Structure{
		Title: "Backend Engineer",
		Sections: []models.Section{{
			ID:    "s1",
			Title: "Basics",
			Questions: []models.Question{
				{ID: "name", Type: models.ShortText, Label: "Name", Required: true},
				{ID: "remote", Type: models.SingleChoice, Label: "Remote?", Options: []models.Option{{ID: "o1", Value: "Yes"}, {ID: "o2", Value: "No"}}},
				{
					ID: "tz", Type: models.ShortText, Label: "Time zone", Required: true,
					Condition: &models.Condition{SourceQuestionID: "remote", Operator: models.OperatorEq, Value: "Yes"},
				},
				{ID: "years", Type: models.Numeric, Label: "Years", Range: &models.Range{Min: fptr(0), Max: fptr(50)}},
			},
		}},
	}
}
