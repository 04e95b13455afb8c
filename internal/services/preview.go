package services

import (
	"fmt"

	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
)

type InputKind string

const (
	InputText        InputKind = "text"
	InputTextarea    InputKind = "textarea"
	InputRadio       InputKind = "radio"
	InputCheckbox    InputKind = "checkbox"
	InputNumber      InputKind = "number"
	InputFile        InputKind = "file"
	InputUnsupported InputKind = "unsupported"
)

// OptionPlaceholder labels a choice whose value has not been filled in yet.
const OptionPlaceholder = "Option"

// Preview describes how each question renders, without any answers.
type Preview struct {
	Title    string           `json:"title"`
	Sections []PreviewSection `json:"sections"`
}

type PreviewSection struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Questions []PreviewQuestion `json:"questions"`
}

type PreviewQuestion struct {
	ID          string          `json:"id"`
	Label       string          `json:"label"`
	Required    bool            `json:"required"`
	Input       InputKind       `json:"input"`
	Choices     []PreviewChoice `json:"choices,omitempty"`
	Min         *float64        `json:"min,omitempty"`
	Max         *float64        `json:"max,omitempty"`
	Placeholder string          `json:"placeholder,omitempty"`
	DependsOn   string          `json:"dependsOn,omitempty"`
}

type PreviewChoice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// RenderPreview builds the preview of a structure.
func RenderPreview(s models.Structure) *Preview {
	p := &Preview{
		Title:    s.Title,
		Sections: make([]PreviewSection, 0, len(s.Sections)),
	}
	for _, section := range s.Sections {
		ps := PreviewSection{
			ID:        section.ID,
			Title:     section.Title,
			Questions: make([]PreviewQuestion, 0, len(section.Questions)),
		}
		for _, q := range section.Questions {
			ps.Questions = append(ps.Questions, previewQuestion(q))
		}
		p.Sections = append(p.Sections, ps)
	}
	return p
}

func previewQuestion(q models.Question) PreviewQuestion {
	pq := PreviewQuestion{
		ID:       q.ID,
		Label:    q.Label,
		Required: q.Required,
	}
	if q.Condition != nil {
		pq.DependsOn = q.Condition.SourceQuestionID
	}

	switch kind := q.Kind().(type) {
	case models.TextKind:
		pq.Input = InputText
		if kind.Long {
			pq.Input = InputTextarea
		}
	case models.ChoiceKind:
		pq.Input = InputRadio
		if kind.Multiple {
			pq.Input = InputCheckbox
		}
		pq.Choices = make([]PreviewChoice, 0, len(kind.Options))
		for _, opt := range kind.Options {
			label := opt.Value
			if label == "" {
				label = OptionPlaceholder
			}
			pq.Choices = append(pq.Choices, PreviewChoice{ID: opt.ID, Label: label})
		}
	case models.NumericKind:
		pq.Input = InputNumber
		pq.Min = kind.Range.Min
		pq.Max = kind.Range.Max
		pq.Placeholder = fmt.Sprintf("Number between %s and %s", bound(kind.Range.Min), bound(kind.Range.Max))
	case models.FileKind:
		pq.Input = InputFile
		pq.Placeholder = "No file chosen"
	case models.UnsupportedKind:
		pq.Input = InputUnsupported
	default:
		panic(fmt.Sprintf("unhandled question kind %T", kind))
	}
	return pq
}

func bound(v *float64) string {
	if v == nil {
		return "..."
	}
	return models.FormatNumber(*v)
}
