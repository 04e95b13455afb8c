package services

import (
	"context"

	"github.com/SAP-F-2025/talentflow-assessment/internal/builder"
	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
	"github.com/SAP-F-2025/talentflow-assessment/internal/repositories"
	"github.com/SAP-F-2025/talentflow-assessment/internal/validator"
)

// ===== SERVICE INTERFACES =====

// AssessmentService is the builder side: load the job's assessment, apply
// one structural edit, save. Every edit takes the fingerprint the caller
// last saw; an empty fingerprint skips the check.
type AssessmentService interface {
	Get(ctx context.Context, jobID uint) (*AssessmentResponse, error)
	Save(ctx context.Context, jobID uint, req *SaveAssessmentRequest, edit EditContext) (*AssessmentResponse, error)
	Preview(ctx context.Context, jobID uint) (*Preview, error)

	SetTitle(ctx context.Context, jobID uint, title string, edit EditContext) (*AssessmentResponse, error)
	AddSection(ctx context.Context, jobID uint, title string, edit EditContext) (*EditResponse, error)
	RenameSection(ctx context.Context, jobID uint, sectionID, title string, edit EditContext) (*AssessmentResponse, error)
	RemoveSection(ctx context.Context, jobID uint, sectionID string, edit EditContext) (*AssessmentResponse, error)

	AddQuestion(ctx context.Context, jobID uint, sectionID string, qType models.QuestionType, edit EditContext) (*EditResponse, error)
	UpdateQuestion(ctx context.Context, jobID uint, questionID string, req *UpdateQuestionRequest, edit EditContext) (*AssessmentResponse, error)
	RemoveQuestion(ctx context.Context, jobID uint, questionID string, edit EditContext) (*AssessmentResponse, error)
	MoveQuestion(ctx context.Context, jobID uint, questionID string, delta int, edit EditContext) (*AssessmentResponse, error)

	AddOption(ctx context.Context, jobID uint, questionID string, edit EditContext) (*EditResponse, error)
	UpdateOption(ctx context.Context, jobID uint, questionID, optionID, value string, edit EditContext) (*AssessmentResponse, error)
	RemoveOption(ctx context.Context, jobID uint, questionID, optionID string, edit EditContext) (*AssessmentResponse, error)

	SetCondition(ctx context.Context, jobID uint, questionID string, req *ConditionRequest, edit EditContext) (*AssessmentResponse, error)
	ClearCondition(ctx context.Context, jobID uint, questionID string, edit EditContext) (*AssessmentResponse, error)
}

// SubmissionService is the candidate side.
type SubmissionService interface {
	Form(ctx context.Context, jobID uint) (*FormResponse, error)
	Validate(ctx context.Context, jobID uint, answers models.AnswerSet) (*ValidationResponse, error)
	Submit(ctx context.Context, jobID, candidateID uint, answers models.AnswerSet) (*models.Submission, error)

	Get(ctx context.Context, jobID uint, submissionID string) (*models.Submission, error)
	List(ctx context.Context, jobID uint, filters repositories.SubmissionFilters) (*SubmissionListResponse, error)
	Stats(ctx context.Context, jobID uint) (*repositories.SubmissionStats, error)
}

// ImportExportService moves assessments and submissions in and out of files.
type ImportExportService interface {
	ImportStructure(ctx context.Context, jobID uint, data []byte, format DocumentFormat, edit EditContext) (*AssessmentResponse, error)
	ExportStructure(ctx context.Context, jobID uint, format DocumentFormat) ([]byte, error)
	ExportSubmissionsToExcel(ctx context.Context, jobID uint) ([]byte, error)
}

// ===== REQUESTS =====

// EditContext identifies who edits and against which version.
type EditContext struct {
	UserID  string
	IfMatch string
}

type SaveAssessmentRequest struct {
	Structure models.Structure `json:"structure"`
}

type UpdateQuestionRequest struct {
	Type       *models.QuestionType `json:"type,omitempty"`
	Label      *string              `json:"label,omitempty"`
	Required   *bool                `json:"required,omitempty"`
	Range      *models.Range        `json:"range,omitempty"`
	ClearRange bool                 `json:"clearRange,omitempty"`
}

func (r *UpdateQuestionRequest) patch() builder.QuestionPatch {
	return builder.QuestionPatch{
		Type:       r.Type,
		Label:      r.Label,
		Required:   r.Required,
		Range:      r.Range,
		ClearRange: r.ClearRange,
	}
}

type ConditionRequest struct {
	SourceQuestionID string `json:"sourceQuestionId" validate:"required"`
	Operator         string `json:"operator" validate:"required"`
	Value            string `json:"value"`
}

type DocumentFormat string

const (
	FormatJSON DocumentFormat = "json"
	FormatYAML DocumentFormat = "yaml"
)

// ===== RESPONSES =====

type AssessmentResponse struct {
	*models.Assessment
	Fingerprint string `json:"fingerprint"`
	Persisted   bool   `json:"persisted"`
}

// EditResponse is returned by edits that create something.
type EditResponse struct {
	*AssessmentResponse
	CreatedID string `json:"createdId"`
}

// FormResponse is what a candidate needs to render the form.
type FormResponse struct {
	JobID     uint             `json:"jobId"`
	Structure models.Structure `json:"structure"`
	Preview   *Preview         `json:"preview"`
}

type ValidationResponse struct {
	Valid      bool                   `json:"valid"`
	Errors     validator.AnswerErrors `json:"errors"`
	Visibility map[string]bool        `json:"visibility"`
}

type SubmissionListResponse struct {
	Submissions []*models.Submission `json:"submissions"`
	Total       int64                `json:"total"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}
