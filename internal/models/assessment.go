package models

import (
	"time"
)

const DefaultAssessmentTitle = "New Assessment"

// Assessment is the question schema attached to one job.
type Assessment struct {
	JobID     uint      `json:"jobId"`
	Structure Structure `json:"structure"`

	// Metadata
	Version   int        `json:"version,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type Structure struct {
	Title    string    `json:"title" yaml:"title"`
	Sections []Section `json:"sections" yaml:"sections" validate:"dive"`
}

type Section struct {
	ID        string     `json:"id" yaml:"id" validate:"required"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions" validate:"dive"`
}

// DefaultStructure is the structure a job gets before anyone has edited it.
func DefaultStructure() Structure {
	return Structure{
		Title:    DefaultAssessmentTitle,
		Sections: []Section{},
	}
}

// NewAssessment returns the lazily created, never persisted assessment for a job.
func NewAssessment(jobID uint) *Assessment {
	return &Assessment{
		JobID:     jobID,
		Structure: DefaultStructure(),
	}
}

// Questions flattens every question across sections, preserving order.
func (s Structure) Questions() []Question {
	var out []Question
	for _, section := range s.Sections {
		out = append(out, section.Questions...)
	}
	return out
}

// FindQuestion returns the question with the given id.
func (s Structure) FindQuestion(id string) (Question, bool) {
	for _, section := range s.Sections {
		for _, q := range section.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return Question{}, false
}

// IsEmpty reports whether the structure has nothing a candidate could answer.
func (s Structure) IsEmpty() bool {
	return len(s.Sections) == 0
}
