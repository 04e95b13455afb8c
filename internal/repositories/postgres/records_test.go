package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
)

func TestAssessmentRecord_RoundTrip(t *testing.T) {
	upper := 10.0
	a := &models.Assessment{
		JobID: 12,
		Structure: models.Structure{
			Title: "Backend",
			Sections: []models.Section{{
				ID: "s1",
				Questions: []models.Question{
					{ID: "q1", Type: models.Numeric, Range: &models.Range{Max: &upper}},
				},
			}},
		},
		Version: 3,
	}

	record := newAssessmentRecord(a)
	record.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	record.UpdatedAt = record.CreatedAt

	got := record.toModel()
	assert.Equal(t, a.JobID, got.JobID)
	assert.Equal(t, a.Structure, got.Structure)
	assert.Equal(t, 3, got.Version)
	require.NotNil(t, got.CreatedAt)
	assert.Equal(t, record.CreatedAt, *got.CreatedAt)
}

func TestAssessmentRecord_NilSections(t *testing.T) {
	got := newAssessmentRecord(&models.Assessment{JobID: 1}).toModel()
	assert.NotNil(t, got.Structure.Sections)
}

func TestSubmissionRecord_RoundTrip(t *testing.T) {
	s := &models.Submission{
		ID:          "8d1f2c9e-0000-4000-8000-000000000001",
		JobID:       12,
		CandidateID: 99,
		Answers: models.AnswerSet{
			"name":  models.TextAnswer("Ada"),
			"langs": models.ListAnswer("Go", "SQL"),
			"years": models.NumberAnswer(7),
			"cv":    models.FileAnswer("uploads/ada.pdf"),
		},
		SubmittedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	record, err := newSubmissionRecord(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Ada","langs":["Go","SQL"],"years":7,"cv":{"fileRef":"uploads/ada.pdf"}}`, string(record.Answers))

	got, err := record.toModel()
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestSubmissionRecord_EmptyAnswers(t *testing.T) {
	record, err := newSubmissionRecord(&models.Submission{ID: "x"})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(record.Answers))

	got, err := SubmissionRecord{ID: "x", Answers: []byte("not json")}.toModel()
	assert.Error(t, err)
	assert.Nil(t, got)
}
