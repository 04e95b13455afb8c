package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/talentflow-assessment/internal/builder"
	"github.com/SAP-F-2025/talentflow-assessment/internal/cache"
	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
	"github.com/SAP-F-2025/talentflow-assessment/internal/repositories"
	"github.com/SAP-F-2025/talentflow-assessment/internal/validator"
)

type assessmentService struct {
	repo      repositories.Repository
	cache     *cache.AssessmentCache
	notifier  *EventNotifier
	builder   *builder.Builder
	validator *validator.Validator
	logger    *slog.Logger
	opLogger  *ServiceLogger
}

func NewAssessmentService(
	repo repositories.Repository,
	assessmentCache *cache.AssessmentCache,
	notifier *EventNotifier,
	b *builder.Builder,
	logger *slog.Logger,
	validator *validator.Validator,
) AssessmentService {
	return &assessmentService{
		repo:      repo,
		cache:     assessmentCache,
		notifier:  notifier,
		builder:   b,
		validator: validator,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, LogConfig{Service: "assessment", Component: "builder"}),
	}
}

// ===== READ =====

// Get returns the job's assessment, or the unsaved default when the job has
// none yet.
func (s *assessmentService) Get(ctx context.Context, jobID uint) (*AssessmentResponse, error) {
	a, persisted, err := s.load(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return newAssessmentResponse(a, persisted)
}

func (s *assessmentService) Preview(ctx context.Context, jobID uint) (*Preview, error) {
	a, _, err := s.load(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return RenderPreview(a.Structure), nil
}

// ===== WHOLE-STRUCTURE SAVE =====

func (s *assessmentService) Save(ctx context.Context, jobID uint, req *SaveAssessmentRequest, edit EditContext) (*AssessmentResponse, error) {
	structure := req.Structure
	if structure.Sections == nil {
		structure.Sections = []models.Section{}
	}
	resp, _, err := s.apply(ctx, "save_assessment", jobID, edit, func(models.Structure) (models.Structure, string, error) {
		return structure, "", nil
	})
	return resp, err
}

// ===== STRUCTURE =====

func (s *assessmentService) SetTitle(ctx context.Context, jobID uint, title string, edit EditContext) (*AssessmentResponse, error) {
	resp, _, err := s.apply(ctx, "set_title", jobID, edit, noID(func(st models.Structure) (models.Structure, error) {
		return s.builder.SetTitle(st, title)
	}))
	return resp, err
}

// ===== SECTIONS =====

func (s *assessmentService) AddSection(ctx context.Context, jobID uint, title string, edit EditContext) (*EditResponse, error) {
	return s.applyCreate(ctx, "add_section", jobID, edit, func(st models.Structure) (models.Structure, string, error) {
		return s.builder.AddSection(st, title)
	})
}

func (s *assessmentService) RenameSection(ctx context.Context, jobID uint, sectionID, title string, edit EditContext) (*AssessmentResponse, error) {
	resp, _, err := s.apply(ctx, "rename_section", jobID, edit, noID(func(st models.Structure) (models.Structure, error) {
		return s.builder.RenameSection(st, sectionID, title)
	}))
	return resp, err
}

func (s *assessmentService) RemoveSection(ctx context.Context, jobID uint, sectionID string, edit EditContext) (*AssessmentResponse, error) {
	resp, _, err := s.apply(ctx, "remove_section", jobID, edit, noID(func(st models.Structure) (models.Structure, error) {
		return s.builder.RemoveSection(st, sectionID)
	}))
	return resp, err
}

// ===== QUESTIONS =====

func (s *assessmentService) AddQuestion(ctx context.Context, jobID uint, sectionID string, qType models.QuestionType, edit EditContext) (*EditResponse, error) {
	return s.applyCreate(ctx, "add_question", jobID, edit, func(st models.Structure) (models.Structure, string, error) {
		return s.builder.AddQuestion(st, sectionID, qType)
	})
}

func (s *assessmentService) UpdateQuestion(ctx context.Context, jobID uint, questionID string, req *UpdateQuestionRequest, edit EditContext) (*AssessmentResponse, error) {
	resp, _, err := s.apply(ctx, "update_question", jobID, edit, noID(func(st models.Structure) (models.Structure, error) {
		return s.builder.UpdateQuestion(st, questionID, req.patch())
	}))
	return resp, err
}

func (s *assessmentService) RemoveQuestion(ctx context.Context, jobID uint, questionID string, edit EditContext) (*AssessmentResponse, error) {
	resp, _, err := s.apply(ctx, "remove_question", jobID, edit, noID(func(st models.Structure) (models.Structure, error) {
		return s.builder.RemoveQuestion(st, questionID)
	}))
	return resp, err
}

func (s *assessmentService) MoveQuestion(ctx context.Context, jobID uint, questionID string, delta int, edit EditContext) (*AssessmentResponse, error) {
	resp, _, err := s.apply(ctx, "move_question", jobID, edit, noID(func(st models.Structure) (models.Structure, error) {
		return s.builder.MoveQuestion(st, questionID, delta)
	}))
	return resp, err
}

// ===== OPTIONS =====

func (s *assessmentService) AddOption(ctx context.Context, jobID uint, questionID string, edit EditContext) (*EditResponse, error) {
	return s.applyCreate(ctx, "add_option", jobID, edit, func(st models.Structure) (models.Structure, string, error) {
		return s.builder.AddOption(st, questionID)
	})
}

func (s *assessmentService) UpdateOption(ctx context.Context, jobID uint, questionID, optionID, value string, edit EditContext) (*AssessmentResponse, error) {
	resp, _, err := s.apply(ctx, "update_option", jobID, edit, noID(func(st models.Structure) (models.Structure, error) {
		return s.builder.UpdateOption(st, questionID, optionID, value)
	}))
	return resp, err
}

func (s *assessmentService) RemoveOption(ctx context.Context, jobID uint, questionID, optionID string, edit EditContext) (*AssessmentResponse, error) {
	resp, _, err := s.apply(ctx, "remove_option", jobID, edit, noID(func(st models.Structure) (models.Structure, error) {
		return s.builder.RemoveOption(st, questionID, optionID)
	}))
	return resp, err
}

// ===== CONDITIONS =====

func (s *assessmentService) SetCondition(ctx context.Context, jobID uint, questionID string, req *ConditionRequest, edit EditContext) (*AssessmentResponse, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}
	op, err := models.ParseConditionOperator(req.Operator)
	if err != nil {
		return nil, builderRuleError(fmt.Errorf("%w: %w", builder.ErrInvalidOperator, err))
	}
	cond := models.Condition{SourceQuestionID: req.SourceQuestionID, Operator: op, Value: req.Value}

	resp, _, err := s.apply(ctx, "set_condition", jobID, edit, noID(func(st models.Structure) (models.Structure, error) {
		return s.builder.SetCondition(st, questionID, cond)
	}))
	return resp, err
}

func (s *assessmentService) ClearCondition(ctx context.Context, jobID uint, questionID string, edit EditContext) (*AssessmentResponse, error) {
	resp, _, err := s.apply(ctx, "clear_condition", jobID, edit, noID(func(st models.Structure) (models.Structure, error) {
		return s.builder.ClearCondition(st, questionID)
	}))
	return resp, err
}
