package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
	"github.com/SAP-F-2025/talentflow-assessment/internal/repositories"
	"github.com/SAP-F-2025/talentflow-assessment/internal/validator"
)

const submissionsSheet = "Submissions"

var submissionColumns = []string{"Submission ID", "Candidate ID", "Submitted At"}

type importExportService struct {
	repo        repositories.Repository
	assessments AssessmentService
	logger      *slog.Logger
	validator   *validator.Validator
}

func NewImportExportService(repo repositories.Repository, assessments AssessmentService, logger *slog.Logger, validator *validator.Validator) ImportExportService {
	return &importExportService{
		repo:        repo,
		assessments: assessments,
		logger:      logger,
		validator:   validator,
	}
}

// ParseDocumentFormat maps a file extension or content type to a format.
func ParseDocumentFormat(s string) (DocumentFormat, bool) {
	switch s {
	case "json", ".json", "application/json":
		return FormatJSON, true
	case "yaml", "yml", ".yaml", ".yml", "application/yaml", "application/x-yaml", "text/yaml":
		return FormatYAML, true
	default:
		return "", false
	}
}

// ===== IMPORT =====

// DecodeDocument turns a JSON or YAML structure document into a Structure,
// checking it against the wire schema first.
func DecodeDocument(v *validator.Validator, data []byte, format DocumentFormat) (models.Structure, error) {
	raw, err := toJSON(data, format)
	if err != nil {
		return models.Structure{}, err
	}

	if err := v.Document().ValidateStructure(raw); err != nil {
		return models.Structure{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	structure, err := models.DecodeStructure(raw)
	if err != nil {
		return models.Structure{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return structure, nil
}

func (s *importExportService) ImportStructure(ctx context.Context, jobID uint, data []byte, format DocumentFormat, edit EditContext) (*AssessmentResponse, error) {
	s.logger.Info("Importing assessment structure", "job_id", jobID, "format", format, "user_id", edit.UserID)

	structure, err := DecodeDocument(s.validator, data, format)
	if err != nil {
		return nil, err
	}

	return s.assessments.Save(ctx, jobID, &SaveAssessmentRequest{Structure: structure}, edit)
}

func toJSON(data []byte, format DocumentFormat) ([]byte, error) {
	switch format {
	case FormatJSON:
		return data, nil
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidDocument, format)
	}
}

// ===== EXPORT =====

func (s *importExportService) ExportStructure(ctx context.Context, jobID uint, format DocumentFormat) ([]byte, error) {
	resp, err := s.assessments.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(resp.Structure)
	if err != nil {
		return nil, fmt.Errorf("failed to encode structure: %w", err)
	}

	switch format {
	case FormatJSON:
		return raw, nil
	case FormatYAML:
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to encode structure: %w", err)
		}
		return yaml.Marshal(doc)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrBadRequest, format)
	}
}

// ExportSubmissionsToExcel writes one row per submission and one column per
// question, in structure order. Answers to questions no longer in the
// structure are left out.
func (s *importExportService) ExportSubmissionsToExcel(ctx context.Context, jobID uint) ([]byte, error) {
	resp, err := s.assessments.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	questions := resp.Structure.Questions()

	submissions, err := s.allSubmissions(ctx, jobID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(submissionsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to prepare Excel file: %w", err)
	}

	header := make([]any, 0, len(submissionColumns)+len(questions))
	for _, c := range submissionColumns {
		header = append(header, c)
	}
	for _, q := range questions {
		header = append(header, columnLabel(q))
	}
	if err := f.SetSheetRow(submissionsSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write Excel header: %w", err)
	}

	for i, sub := range submissions {
		row := make([]any, 0, len(header))
		row = append(row, sub.ID, sub.CandidateID, sub.SubmittedAt.Format("2006-01-02 15:04:05"))
		for _, q := range questions {
			row = append(row, sub.Answers.Get(q.ID).String())
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(submissionsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write Excel row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported submissions", "job_id", jobID, "count", len(submissions))
	return buf.Bytes(), nil
}

func (s *importExportService) allSubmissions(ctx context.Context, jobID uint) ([]*models.Submission, error) {
	var out []*models.Submission
	filters := repositories.SubmissionFilters{Limit: maxSubmissionLimit, SortOrder: "asc"}

	for {
		page, total, err := s.repo.Submission().ListByJob(ctx, nil, jobID, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to list submissions: %w", err)
		}
		out = append(out, page...)
		filters.Offset += len(page)
		if len(page) == 0 || int64(filters.Offset) >= total {
			return out, nil
		}
	}
}

func columnLabel(q models.Question) string {
	if q.Label != "" {
		return q.Label
	}
	return q.ID
}
