package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/talentflow-assessment/internal/events"
	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
)

// EventNotifier publishes domain events after the change they describe has
// been committed. Publishing is best effort: a broker outage is logged and
// never fails the request that caused the event.
type EventNotifier struct {
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewEventNotifier(publisher events.EventPublisher, logger *slog.Logger) *EventNotifier {
	return &EventNotifier{publisher: publisher, logger: logger}
}

func (n *EventNotifier) NotifyAssessmentSaved(ctx context.Context, a *models.Assessment, fingerprint string) {
	n.publish(ctx, events.NewAssessmentSavedEvent(events.AssessmentSavedEvent{
		JobID:         a.JobID,
		Title:         a.Structure.Title,
		Version:       a.Version,
		Fingerprint:   fingerprint,
		SectionCount:  len(a.Structure.Sections),
		QuestionCount: len(a.Structure.Questions()),
	}))
}

func (n *EventNotifier) NotifySubmissionCreated(ctx context.Context, s *models.Submission) {
	n.publish(ctx, events.NewSubmissionCreatedEvent(events.SubmissionCreatedEvent{
		SubmissionID: s.ID,
		JobID:        s.JobID,
		CandidateID:  s.CandidateID,
		AnswerCount:  len(s.Answers),
		SubmittedAt:  s.SubmittedAt,
	}))
}

func (n *EventNotifier) publish(ctx context.Context, event *events.AssessmentEvent) {
	if n == nil || n.publisher == nil {
		return
	}
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.Warn("Failed to publish event",
			"event_id", event.ID,
			"event_type", event.Type,
			"job_id", event.JobID,
			"error", err)
	}
}
