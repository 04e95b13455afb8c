package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of assessment events this service emits
type EventType string

const (
	EventAssessmentSaved   EventType = "assessment.saved"
	EventSubmissionCreated EventType = "submission.created"
)

const (
	eventSource  = "talentflow-assessment"
	eventVersion = "1.0"
)

// AssessmentEvent is the envelope published for every event
type AssessmentEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	JobID     uint                   `json:"job_id"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type AssessmentSavedEvent struct {
	JobID         uint   `json:"job_id"`
	Title         string `json:"title"`
	Version       int    `json:"version"`
	Fingerprint   string `json:"fingerprint"`
	SectionCount  int    `json:"section_count"`
	QuestionCount int    `json:"question_count"`
}

type SubmissionCreatedEvent struct {
	SubmissionID string    `json:"submission_id"`
	JobID        uint      `json:"job_id"`
	CandidateID  uint      `json:"candidate_id"`
	AnswerCount  int       `json:"answer_count"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// Event factory functions

func NewAssessmentSavedEvent(payload AssessmentSavedEvent) *AssessmentEvent {
	return newEvent(EventAssessmentSaved, payload.JobID, payload)
}

func NewSubmissionCreatedEvent(payload SubmissionCreatedEvent) *AssessmentEvent {
	return newEvent(EventSubmissionCreated, payload.JobID, payload)
}

func newEvent(eventType EventType, jobID uint, data interface{}) *AssessmentEvent {
	return &AssessmentEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		JobID:     jobID,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}
