package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/talentflow-assessment/internal/events"
	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
	"github.com/SAP-F-2025/talentflow-assessment/internal/repositories"
	"github.com/SAP-F-2025/talentflow-assessment/internal/validator"
)

type submissionFixture struct {
	repo      *MockRepository
	publisher *events.MockEventPublisher
	service   *submissionService
}

func newSubmissionFixture() *submissionFixture {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(discardLogger())
	svc := NewSubmissionService(repo, nil, NewEventNotifier(publisher, discardLogger()), discardLogger()).(*submissionService)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return &submissionFixture{repo: repo, publisher: publisher, service: svc}
}

func (f *submissionFixture) expectAssessment(jobID uint, s models.Structure) {
	f.repo.assessmentRepo.On("GetByJobID", mock.Anything, mock.Anything, jobID).
		Return(&models.Assessment{JobID: jobID, Structure: s, Version: 1}, nil)
}

func TestSubmissionService_LoadStructure(t *testing.T) {
	tests := []struct {
		name    string
		stored  *models.Assessment
		repoErr error
		wantErr error
	}{
		{name: "saved", stored: &models.Assessment{JobID: 1, Structure: screening()}},
		{name: "never saved", repoErr: repositories.ErrNotFound, wantErr: ErrAssessmentEmpty},
		{name: "no sections", stored: &models.Assessment{JobID: 1, Structure: models.DefaultStructure()}, wantErr: ErrAssessmentEmpty},
		{name: "store down", repoErr: errors.New("timeout"), wantErr: ErrAssessmentUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSubmissionFixture()
			if tt.stored != nil {
				f.repo.assessmentRepo.On("GetByJobID", mock.Anything, mock.Anything, uint(1)).Return(tt.stored, nil)
			} else {
				f.repo.assessmentRepo.On("GetByJobID", mock.Anything, mock.Anything, uint(1)).Return(nil, tt.repoErr)
			}

			s, err := f.service.LoadStructure(context.Background(), 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, screening(), s)
		})
	}
}

func TestSubmissionService_SubmitSuccess(t *testing.T) {
	f := newSubmissionFixture()
	f.expectAssessment(3, screening())

	answers := models.AnswerSet{
		"name":   models.TextAnswer("Ada"),
		"remote": models.TextAnswer("No"),
		"years":  models.NumberAnswer(7),
	}
	f.repo.submissionRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(s *models.Submission) bool {
		return s.JobID == 3 && s.CandidateID == 11 && len(s.Answers) == 3 && s.ID != ""
	})).Return(nil).Once()

	sub, err := f.service.Submit(context.Background(), 3, 11, answers)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), sub.SubmittedAt)
	assert.Equal(t, answers, sub.Answers)

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventSubmissionCreated, published[0].Type)
	assert.Equal(t, sub.ID, published[0].Data.(events.SubmissionCreatedEvent).SubmissionID)
	f.repo.submissionRepo.AssertExpectations(t)
}

func TestSubmissionService_SubmitEachCallCreatesRow(t *testing.T) {
	f := newSubmissionFixture()
	f.expectAssessment(3, screening())
	f.repo.submissionRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	answers := models.AnswerSet{"name": models.TextAnswer("Ada")}
	first, err := f.service.Submit(context.Background(), 3, 11, answers)
	require.NoError(t, err)
	second, err := f.service.Submit(context.Background(), 3, 11, answers)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	f.repo.submissionRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestSubmissionService_SubmitInvalidAnswers(t *testing.T) {
	f := newSubmissionFixture()
	f.expectAssessment(3, screening())

	_, err := f.service.Submit(context.Background(), 3, 11, models.AnswerSet{
		"remote": models.TextAnswer("Yes"),
		"years":  models.NumberAnswer(80),
	})
	require.Error(t, err)

	answerErrs, ok := IsAnswerValidation(err)
	require.True(t, ok)
	assert.Equal(t, validator.AnswerErrors{
		"name":  validator.MsgRequired,
		"tz":    validator.MsgRequired,
		"years": "Must be no more than 50.",
	}, answerErrs)
	f.repo.submissionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmissionService_SubmitPersistenceFailure(t *testing.T) {
	f := newSubmissionFixture()
	f.expectAssessment(3, screening())
	f.repo.submissionRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := f.service.Submit(context.Background(), 3, 11, models.AnswerSet{"name": models.TextAnswer("Ada")})
	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.True(t, IsUnavailable(err))
	assert.Empty(t, f.publisher.GetPublishedEvents())
}

func TestSubmissionService_SubmitWithoutAssessment(t *testing.T) {
	f := newSubmissionFixture()
	f.repo.assessmentRepo.On("GetByJobID", mock.Anything, mock.Anything, uint(3)).Return(nil, repositories.ErrNotFound)

	_, err := f.service.Submit(context.Background(), 3, 11, models.AnswerSet{})
	assert.ErrorIs(t, err, ErrAssessmentEmpty)
}

func TestSubmissionService_Validate(t *testing.T) {
	f := newSubmissionFixture()
	f.expectAssessment(3, screening())

	resp, err := f.service.Validate(context.Background(), 3, models.AnswerSet{"remote": models.TextAnswer("Yes")})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Equal(t, validator.AnswerErrors{"name": validator.MsgRequired, "tz": validator.MsgRequired}, resp.Errors)
	assert.Equal(t, map[string]bool{"name": true, "remote": true, "tz": true, "years": true}, resp.Visibility)

	resp, err = f.service.Validate(context.Background(), 3, models.AnswerSet{"name": models.TextAnswer("Ada"), "remote": models.TextAnswer("No")})
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.False(t, resp.Visibility["tz"])
}

func TestSubmissionService_Form(t *testing.T) {
	f := newSubmissionFixture()
	f.expectAssessment(3, screening())

	form, err := f.service.Form(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint(3), form.JobID)
	require.Len(t, form.Preview.Sections, 1)
	assert.Len(t, form.Preview.Sections[0].Questions, 4)
}

func TestSubmissionService_Get(t *testing.T) {
	f := newSubmissionFixture()
	id := "5f0c3a9e-7a1b-4a52-9d55-8f0f3d9e2c11"
	f.repo.submissionRepo.On("GetByID", mock.Anything, mock.Anything, id).Return(&models.Submission{ID: id, JobID: 3}, nil)

	sub, err := f.service.Get(context.Background(), 3, id)
	require.NoError(t, err)
	assert.Equal(t, id, sub.ID)

	_, err = f.service.Get(context.Background(), 4, id)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)

	_, err = f.service.Get(context.Background(), 3, "not-a-uuid")
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestSubmissionService_ListNormalizesFilters(t *testing.T) {
	f := newSubmissionFixture()
	expected := repositories.SubmissionFilters{Limit: maxSubmissionLimit, Offset: 0, SortOrder: "desc"}
	f.repo.submissionRepo.On("ListByJob", mock.Anything, mock.Anything, uint(3), expected).
		Return([]*models.Submission{{ID: "a"}}, int64(1), nil)

	resp, err := f.service.List(context.Background(), 3, repositories.SubmissionFilters{Limit: 10000, Offset: -5, SortOrder: "sideways"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	assert.Equal(t, maxSubmissionLimit, resp.Limit)
	f.repo.submissionRepo.AssertExpectations(t)
}
