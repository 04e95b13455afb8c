package runtime

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
	"github.com/SAP-F-2025/talentflow-assessment/internal/validator"
)

type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) LoadStructure(ctx context.Context, jobID uint) (models.Structure, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(models.Structure), args.Error(1)
}

type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) SubmitAnswers(ctx context.Context, jobID, candidateID uint, answers models.AnswerSet) (*models.Submission, error) {
	args := m.Called(ctx, jobID, candidateID, answers)
	if sub := args.Get(0); sub != nil {
		return sub.(*models.Submission), args.Error(1)
	}
	return nil, args.Error(1)
}

func screeningStructure() models.Structure {
	return models.Structure{
		Title: "Screening",
		Sections: []models.Section{{
			ID: "s1",
			Questions: []models.Question{
				{ID: "name", Type: models.ShortText, Required: true},
				{ID: "relocate", Type: models.SingleChoice, Options: []models.Option{{ID: "o1", Value: "Yes"}, {ID: "o2", Value: "No"}}},
				{
					ID: "city", Type: models.ShortText, Required: true,
					Condition: &models.Condition{SourceQuestionID: "relocate", Operator: models.OperatorEq, Value: "Yes"},
				},
			},
		}},
	}
}

func loadedController(t *testing.T, submitter Submitter) *Controller {
	t.Helper()
	loader := new(MockLoader)
	loader.On("LoadStructure", mock.Anything, uint(7)).Return(screeningStructure(), nil)

	c := NewController(loader, submitter, 7, 42)
	require.NoError(t, c.Load(context.Background()))
	require.Equal(t, StateEditing, c.State())
	return c
}

func TestController_LoadError(t *testing.T) {
	loader := new(MockLoader)
	loader.On("LoadStructure", mock.Anything, uint(7)).Return(models.Structure{}, errors.New("connection refused")).Once()
	loader.On("LoadStructure", mock.Anything, uint(7)).Return(screeningStructure(), nil).Once()

	c := NewController(loader, new(MockSubmitter), 7, 42)
	assert.Equal(t, StateLoading, c.State())
	assert.False(t, c.Visible("name"))

	err := c.Load(context.Background())
	assert.ErrorIs(t, err, ErrSchemaLoad)
	assert.Equal(t, StateLoadError, c.State())
	assert.ErrorIs(t, c.LoadErr(), ErrSchemaLoad)
	assert.ErrorIs(t, c.SetAnswer("name", models.TextAnswer("x")), ErrInvalidState)

	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, StateEditing, c.State())
	assert.NoError(t, c.LoadErr())
	assert.ErrorIs(t, c.Load(context.Background()), ErrInvalidState)
	loader.AssertExpectations(t)
}

func TestController_VisibilityFollowsAnswers(t *testing.T) {
	c := loadedController(t, new(MockSubmitter))

	assert.True(t, c.Visible("name"))
	assert.False(t, c.Visible("city"))

	require.NoError(t, c.SetAnswer("relocate", models.TextAnswer("Yes")))
	assert.True(t, c.Visible("city"))
	assert.Len(t, c.VisibleQuestions(), 3)

	require.NoError(t, c.ClearAnswer("relocate"))
	assert.False(t, c.Visible("city"))
	assert.Empty(t, c.Answers())
}

func TestController_SubmitValidationFailure(t *testing.T) {
	submitter := new(MockSubmitter)
	c := loadedController(t, submitter)

	require.NoError(t, c.SetAnswer("relocate", models.TextAnswer("Yes")))

	sub, err := c.Submit(context.Background())
	assert.Nil(t, sub)
	assert.ErrorIs(t, err, ErrValidationFailed)

	var answerErrs validator.AnswerErrors
	require.True(t, errors.As(err, &answerErrs))
	assert.Equal(t, validator.AnswerErrors{"name": validator.MsgRequired, "city": validator.MsgRequired}, answerErrs)

	assert.Equal(t, StateEditing, c.State())
	assert.Len(t, c.Errors(), 2)

	// editing a question clears only its own error
	require.NoError(t, c.SetAnswer("name", models.TextAnswer("Ada")))
	assert.Equal(t, validator.AnswerErrors{"city": validator.MsgRequired}, c.Errors())

	submitter.AssertNotCalled(t, "SubmitAnswers", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestController_SubmitSuccess(t *testing.T) {
	submitter := new(MockSubmitter)
	c := loadedController(t, submitter)

	// a stale answer to a hidden question is still sent
	expected := models.AnswerSet{
		"name":     models.TextAnswer("Ada"),
		"relocate": models.TextAnswer("No"),
		"city":     models.TextAnswer("Lisbon"),
	}
	saved := &models.Submission{ID: "sub-1", JobID: 7, CandidateID: 42, Answers: expected}
	submitter.On("SubmitAnswers", mock.Anything, uint(7), uint(42), expected).Return(saved, nil).Once()

	for id, v := range expected {
		require.NoError(t, c.SetAnswer(id, v))
	}

	sub, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, saved, sub)
	assert.Equal(t, StateSubmitted, c.State())
	assert.Equal(t, saved, c.Submission())
	assert.Empty(t, c.Errors())

	_, err = c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.ErrorIs(t, c.SetAnswer("name", models.TextAnswer("Bob")), ErrInvalidState)
	submitter.AssertExpectations(t)
}

func TestController_SubmitPersistenceFailureKeepsAnswers(t *testing.T) {
	submitter := new(MockSubmitter)
	c := loadedController(t, submitter)

	submitter.On("SubmitAnswers", mock.Anything, uint(7), uint(42), mock.Anything).Return(nil, errors.New("db down")).Once()
	submitter.On("SubmitAnswers", mock.Anything, uint(7), uint(42), mock.Anything).Return(&models.Submission{ID: "sub-2"}, nil).Once()

	require.NoError(t, c.SetAnswer("name", models.TextAnswer("Ada")))

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, StateEditing, c.State())
	assert.Equal(t, SubmitFailedNotice, c.Notice())
	assert.Equal(t, models.TextAnswer("Ada"), c.Answers()["name"])

	sub, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sub-2", sub.ID)
	assert.Empty(t, c.Notice())
	submitter.AssertNumberOfCalls(t, "SubmitAnswers", 2)
}

func TestController_SubmitWhileSubmitting(t *testing.T) {
	submitter := new(MockSubmitter)
	c := loadedController(t, submitter)
	require.NoError(t, c.SetAnswer("name", models.TextAnswer("Ada")))

	entered := make(chan struct{})
	release := make(chan struct{})
	submitter.On("SubmitAnswers", mock.Anything, uint(7), uint(42), mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(&models.Submission{ID: "sub-3"}, nil).Once()

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = c.Submit(context.Background())
	}()

	<-entered
	assert.Equal(t, StateSubmitting, c.State())
	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	assert.ErrorIs(t, c.SetAnswer("name", models.TextAnswer("Bob")), ErrInvalidState)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, StateSubmitted, c.State())
	submitter.AssertNumberOfCalls(t, "SubmitAnswers", 1)
}

func TestController_ContextPassedThrough(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "trace")

	submitter := new(MockSubmitter)
	c := loadedController(t, submitter)
	require.NoError(t, c.SetAnswer("name", models.TextAnswer("Ada")))

	submitter.On("SubmitAnswers", ctx, uint(7), uint(42), mock.Anything).Return(&models.Submission{}, nil).Once()

	_, err := c.Submit(ctx)
	require.NoError(t, err)
	submitter.AssertExpectations(t)
}
