package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/talentflow-assessment/internal/cache"
	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
	"github.com/SAP-F-2025/talentflow-assessment/internal/repositories"
	"github.com/SAP-F-2025/talentflow-assessment/internal/rules"
	"github.com/SAP-F-2025/talentflow-assessment/internal/runtime"
	"github.com/SAP-F-2025/talentflow-assessment/internal/validator"
)

const (
	defaultSubmissionLimit = 50
	maxSubmissionLimit     = 500
)

type submissionService struct {
	repo     repositories.Repository
	cache    *cache.AssessmentCache
	notifier *EventNotifier
	logger   *slog.Logger
	opLogger *ServiceLogger
	now      func() time.Time
}

func NewSubmissionService(
	repo repositories.Repository,
	assessmentCache *cache.AssessmentCache,
	notifier *EventNotifier,
	logger *slog.Logger,
) SubmissionService {
	return &submissionService{
		repo:     repo,
		cache:    assessmentCache,
		notifier: notifier,
		logger:   logger,
		opLogger: NewServiceLogger(logger, LogConfig{Service: "submission", Component: "runtime"}),
		now:      time.Now,
	}
}

// ===== runtime.Loader / runtime.Submitter =====

// LoadStructure returns the structure a candidate fills out. A job with no
// saved assessment, or one with no sections, has nothing to fill out.
func (s *submissionService) LoadStructure(ctx context.Context, jobID uint) (models.Structure, error) {
	if cached, ok := s.cache.Get(ctx, jobID); ok {
		if cached.Structure.IsEmpty() {
			return models.Structure{}, ErrAssessmentEmpty
		}
		return cached.Structure, nil
	}

	a, err := s.repo.Assessment().GetByJobID(ctx, nil, jobID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return models.Structure{}, ErrAssessmentEmpty
		}
		return models.Structure{}, fmt.Errorf("%w: %w", ErrAssessmentUnavailable, err)
	}
	s.cache.Put(ctx, a)

	if a.Structure.IsEmpty() {
		return models.Structure{}, ErrAssessmentEmpty
	}
	return a.Structure, nil
}

// SubmitAnswers stores a new submission. Every call creates a new row.
func (s *submissionService) SubmitAnswers(ctx context.Context, jobID, candidateID uint, answers models.AnswerSet) (*models.Submission, error) {
	submission := &models.Submission{
		ID:          uuid.NewString(),
		JobID:       jobID,
		CandidateID: candidateID,
		Answers:     answers.Clone(),
		SubmittedAt: s.now().UTC(),
	}
	if submission.Answers == nil {
		submission.Answers = models.AnswerSet{}
	}

	if err := s.repo.Submission().Create(ctx, nil, submission); err != nil {
		return nil, err
	}

	s.notifier.NotifySubmissionCreated(ctx, submission)
	return submission, nil
}

// ===== CANDIDATE OPERATIONS =====

func (s *submissionService) Form(ctx context.Context, jobID uint) (*FormResponse, error) {
	structure, err := s.LoadStructure(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &FormResponse{
		JobID:     jobID,
		Structure: structure,
		Preview:   RenderPreview(structure),
	}, nil
}

// Validate checks answers without storing them and reports which questions
// the answers make visible.
func (s *submissionService) Validate(ctx context.Context, jobID uint, answers models.AnswerSet) (*ValidationResponse, error) {
	structure, err := s.LoadStructure(ctx, jobID)
	if err != nil {
		return nil, err
	}

	errs := validator.ValidateAnswers(structure, answers)
	return &ValidationResponse{
		Valid:      errs.OK(),
		Errors:     errs,
		Visibility: rules.NewEvaluator(structure).VisibilityMap(answers),
	}, nil
}

// Submit drives a runtime.Controller through one load-edit-submit cycle.
func (s *submissionService) Submit(ctx context.Context, jobID, candidateID uint, answers models.AnswerSet) (*models.Submission, error) {
	op := s.opLogger.WithOperation(ctx, "submit_answers", fmt.Sprint(candidateID))

	submission, err := s.submit(ctx, jobID, candidateID, answers)
	op.LogResult(jobID, "submission", err)
	return submission, err
}

func (s *submissionService) submit(ctx context.Context, jobID, candidateID uint, answers models.AnswerSet) (*models.Submission, error) {
	controller := runtime.NewController(s, s, jobID, candidateID)

	if err := controller.Load(ctx); err != nil {
		// the loader's own error already says whether the job is empty or
		// the store is down
		if errors.Is(err, ErrAssessmentEmpty) {
			return nil, ErrAssessmentEmpty
		}
		if errors.Is(err, ErrAssessmentUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrAssessmentUnavailable, err)
	}

	for id, value := range answers {
		if err := controller.SetAnswer(id, value); err != nil {
			return nil, err
		}
	}

	submission, err := controller.Submit(ctx)
	switch {
	case err == nil:
		return submission, nil
	case errors.Is(err, runtime.ErrValidationFailed):
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, controller.Errors())
	case errors.Is(err, runtime.ErrPersistence):
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	case errors.Is(err, runtime.ErrSubmitInProgress):
		return nil, ErrSubmissionInProgress
	default:
		return nil, err
	}
}

// ===== REVIEW =====

func (s *submissionService) Get(ctx context.Context, jobID uint, submissionID string) (*models.Submission, error) {
	if _, err := uuid.Parse(submissionID); err != nil {
		return nil, ErrSubmissionNotFound
	}

	submission, err := s.repo.Submission().GetByID(ctx, nil, submissionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission.JobID != jobID {
		return nil, ErrSubmissionNotFound
	}
	return submission, nil
}

func (s *submissionService) List(ctx context.Context, jobID uint, filters repositories.SubmissionFilters) (*SubmissionListResponse, error) {
	switch {
	case filters.Limit <= 0:
		filters.Limit = defaultSubmissionLimit
	case filters.Limit > maxSubmissionLimit:
		filters.Limit = maxSubmissionLimit
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	if filters.SortOrder != "asc" {
		filters.SortOrder = "desc"
	}

	submissions, total, err := s.repo.Submission().ListByJob(ctx, nil, jobID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	return &SubmissionListResponse{
		Submissions: submissions,
		Total:       total,
		Limit:       filters.Limit,
		Offset:      filters.Offset,
	}, nil
}

func (s *submissionService) Stats(ctx context.Context, jobID uint) (*repositories.SubmissionStats, error) {
	stats, err := s.repo.Submission().GetStats(ctx, nil, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission stats: %w", err)
	}
	return stats, nil
}
