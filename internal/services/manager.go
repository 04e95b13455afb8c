package services

import (
	"log/slog"

	"github.com/SAP-F-2025/talentflow-assessment/internal/builder"
	"github.com/SAP-F-2025/talentflow-assessment/internal/cache"
	"github.com/SAP-F-2025/talentflow-assessment/internal/events"
	"github.com/SAP-F-2025/talentflow-assessment/internal/repositories"
	"github.com/SAP-F-2025/talentflow-assessment/internal/validator"
)

// ServiceManager hands out the services the handlers use.
type ServiceManager interface {
	Assessment() AssessmentService
	Submission() SubmissionService
	ImportExport() ImportExportService
}

type serviceManager struct {
	assessment   AssessmentService
	submission   SubmissionService
	importExport ImportExportService
}

// NewServiceManager wires the services around one repository. assessmentCache
// and publisher may be nil.
func NewServiceManager(
	repo repositories.Repository,
	assessmentCache *cache.AssessmentCache,
	publisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
) ServiceManager {
	notifier := NewEventNotifier(publisher, logger)
	assessment := NewAssessmentService(repo, assessmentCache, notifier, builder.New(), logger, v)

	return &serviceManager{
		assessment:   assessment,
		submission:   NewSubmissionService(repo, assessmentCache, notifier, logger),
		importExport: NewImportExportService(repo, assessment, logger, v),
	}
}

func (m *serviceManager) Assessment() AssessmentService     { return m.assessment }
func (m *serviceManager) Submission() SubmissionService     { return m.submission }
func (m *serviceManager) ImportExport() ImportExportService { return m.importExport }
