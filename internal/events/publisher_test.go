package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage_Metadata(t *testing.T) {
	event := NewAssessmentSavedEvent(AssessmentSavedEvent{
		JobID:         42,
		Title:         "Backend",
		Version:       3,
		Fingerprint:   "abc",
		SectionCount:  2,
		QuestionCount: 5,
	})

	msg, err := NewMessage(event)
	require.NoError(t, err)

	assert.Equal(t, event.ID, msg.UUID)
	assert.Equal(t, "assessment.saved", msg.Metadata.Get("event_type"))
	assert.Equal(t, "42", msg.Metadata.Get("job_id"))
	assert.Equal(t, "talentflow-assessment", msg.Metadata.Get("source"))

	var decoded struct {
		Type  string               `json:"type"`
		JobID uint                 `json:"job_id"`
		Data  AssessmentSavedEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
	assert.Equal(t, "assessment.saved", decoded.Type)
	assert.Equal(t, uint(42), decoded.JobID)
	assert.Equal(t, 5, decoded.Data.QuestionCount)
}

func TestEventFactories(t *testing.T) {
	submittedAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	a := NewSubmissionCreatedEvent(SubmissionCreatedEvent{SubmissionID: "s-1", JobID: 7, CandidateID: 9, SubmittedAt: submittedAt})
	b := NewSubmissionCreatedEvent(SubmissionCreatedEvent{SubmissionID: "s-2", JobID: 7})

	assert.Equal(t, EventSubmissionCreated, a.Type)
	assert.Equal(t, uint(7), a.JobID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "s-1", a.Data.(SubmissionCreatedEvent).SubmissionID)
}

func TestMockEventPublisher(t *testing.T) {
	p := NewMockEventPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, p.Publish(context.Background(), NewAssessmentSavedEvent(AssessmentSavedEvent{JobID: 1})))
	require.NoError(t, p.Publish(context.Background(), NewSubmissionCreatedEvent(SubmissionCreatedEvent{JobID: 1})))

	published := p.GetPublishedEvents()
	require.Len(t, published, 2)
	assert.Equal(t, EventAssessmentSaved, published[0].Type)
	assert.Equal(t, EventSubmissionCreated, published[1].Type)

	p.ClearEvents()
	assert.Empty(t, p.GetPublishedEvents())
	assert.NoError(t, p.Close())
}
