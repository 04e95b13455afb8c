// Package builder implements the structural edits an administrator makes to
// an assessment. Every operation takes a structure by value and returns a new
// one; the input is never modified.
package builder

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
)

// IDGenerator produces ids for new sections, questions and options.
type IDGenerator func() string

type Builder struct {
	newID IDGenerator
}

// New returns a builder that assigns random UUIDs.
func New() *Builder {
	return NewWithIDs(func() string { return uuid.NewString() })
}

func NewWithIDs(gen IDGenerator) *Builder {
	return &Builder{newID: gen}
}

// QuestionPatch lists the fields UpdateQuestion changes; nil fields are left alone.
type QuestionPatch struct {
	Type       *models.QuestionType `json:"type,omitempty"`
	Label      *string              `json:"label,omitempty"`
	Required   *bool                `json:"required,omitempty"`
	Range      *models.Range        `json:"range,omitempty"`
	ClearRange bool                 `json:"clearRange,omitempty"`
}

// ===== STRUCTURE =====

func (b *Builder) SetTitle(s models.Structure, title string) (models.Structure, error) {
	out, err := s.Clone()
	if err != nil {
		return models.Structure{}, err
	}
	out.Title = title
	return out, nil
}

// ===== SECTIONS =====

// AddSection appends an empty section and returns its id.
func (b *Builder) AddSection(s models.Structure, title string) (models.Structure, string, error) {
	out, err := s.Clone()
	if err != nil {
		return models.Structure{}, "", err
	}
	id := b.newID()
	out.Sections = append(out.Sections, models.Section{
		ID:        id,
		Title:     title,
		Questions: []models.Question{},
	})
	return out, id, nil
}

func (b *Builder) RenameSection(s models.Structure, sectionID, title string) (models.Structure, error) {
	out, err := s.Clone()
	if err != nil {
		return models.Structure{}, err
	}
	si := sectionIndex(out, sectionID)
	if si < 0 {
		return models.Structure{}, fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
	}
	out.Sections[si].Title = title
	return out, nil
}

// RemoveSection drops a section with all of its questions. Conditions in
// other sections that pointed at those questions are left dangling.
func (b *Builder) RemoveSection(s models.Structure, sectionID string) (models.Structure, error) {
	out, err := s.Clone()
	if err != nil {
		return models.Structure{}, err
	}
	si := sectionIndex(out, sectionID)
	if si < 0 {
		return models.Structure{}, fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
	}
	out.Sections = append(out.Sections[:si], out.Sections[si+1:]...)
	return out, nil
}

// ===== QUESTIONS =====

// AddQuestion appends a question of the given type to a section and returns
// its id. Choice questions start with one empty option.
func (b *Builder) AddQuestion(s models.Structure, sectionID string, qType models.QuestionType) (models.Structure, string, error) {
	if !qType.IsValid() {
		return models.Structure{}, "", fmt.Errorf("%w: %q", ErrInvalidQuestionType, qType)
	}
	out, err := s.Clone()
	if err != nil {
		return models.Structure{}, "", err
	}
	si := sectionIndex(out, sectionID)
	if si < 0 {
		return models.Structure{}, "", fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
	}

	q := models.Question{ID: b.newID(), Type: qType}
	b.ensureOptions(&q)
	out.Sections[si].Questions = append(out.Sections[si].Questions, q)
	return out, q.ID, nil
}

// UpdateQuestion applies patch to the question. Switching into a choice type
// with no options adds one empty option. Switching away keeps the options
// on the question; they are ignored while the type does not use them.
func (b *Builder) UpdateQuestion(s models.Structure, questionID string, patch QuestionPatch) (models.Structure, error) {
	if patch.Type != nil && !patch.Type.IsValid() {
		return models.Structure{}, fmt.Errorf("%w: %q", ErrInvalidQuestionType, *patch.Type)
	}
	if patch.Range != nil && patch.Range.Min != nil && patch.Range.Max != nil && *patch.Range.Min > *patch.Range.Max {
		return models.Structure{}, ErrInvalidRange
	}

	out, err := s.Clone()
	if err != nil {
		return models.Structure{}, err
	}
	q, ok := findQuestion(&out, questionID)
	if !ok {
		return models.Structure{}, fmt.Errorf("%w: %s", ErrQuestionNotFound, questionID)
	}

	if patch.Type != nil {
		q.Type = *patch.Type
		b.ensureOptions(q)
	}
	if patch.Label != nil {
		q.Label = *patch.Label
	}
	if patch.Required != nil {
		q.Required = *patch.Required
	}
	if patch.ClearRange {
		q.Range = nil
	} else if patch.Range != nil {
		r := *patch.Range
		q.Range = &r
	}
	return out, nil
}

// RemoveQuestion deletes a question. Conditions that used it as their source
// are not touched; the evaluator treats them as dangling.
func (b *Builder) RemoveQuestion(s models.Structure, questionID string) (models.Structure, error) {
	out, err := s.Clone()
	if err != nil {
		return models.Structure{}, err
	}
	si, qi := questionIndex(out, questionID)
	if si < 0 {
		return models.Structure{}, fmt.Errorf("%w: %s", ErrQuestionNotFound, questionID)
	}
	questions := out.Sections[si].Questions
	out.Sections[si].Questions = append(questions[:qi], questions[qi+1:]...)
	return out, nil
}

// MoveQuestion shifts a question by delta positions inside its section,
// clamping at either end.
func (b *Builder) MoveQuestion(s models.Structure, questionID string, delta int) (models.Structure, error) {
	out, err := s.Clone()
	if err != nil {
		return models.Structure{}, err
	}
	si, qi := questionIndex(out, questionID)
	if si < 0 {
		return models.Structure{}, fmt.Errorf("%w: %s", ErrQuestionNotFound, questionID)
	}
	questions := out.Sections[si].Questions
	target := min(max(qi+delta, 0), len(questions)-1)
	q := questions[qi]
	questions = append(questions[:qi], questions[qi+1:]...)
	questions = append(questions[:target], append([]models.Question{q}, questions[target:]...)...)
	out.Sections[si].Questions = questions
	return out, nil
}

// ===== OPTIONS =====

// AddOption appends an empty option and returns its id.
func (b *Builder) AddOption(s models.Structure, questionID string) (models.Structure, string, error) {
	out, err := s.Clone()
	if err != nil {
		return models.Structure{}, "", err
	}
	q, ok := findQuestion(&out, questionID)
	if !ok {
		return models.Structure{}, "", fmt.Errorf("%w: %s", ErrQuestionNotFound, questionID)
	}
	id := b.newID()
	q.Options = append(q.Options, models.Option{ID: id})
	return out, id, nil
}

func (b *Builder) UpdateOption(s models.Structure, questionID, optionID, value string) (models.Structure, error) {
	out, err := s.Clone()
	if err != nil {
		return models.Structure{}, err
	}
	q, ok := findQuestion(&out, questionID)
	if !ok {
		return models.Structure{}, fmt.Errorf("%w: %s", ErrQuestionNotFound, questionID)
	}
	oi := optionIndex(q, optionID)
	if oi < 0 {
		return models.Structure{}, fmt.Errorf("%w: %s", ErrOptionNotFound, optionID)
	}
	q.Options[oi].Value = value
	return out, nil
}

// RemoveOption deletes an option. A choice question keeps its last option.
func (b *Builder) RemoveOption(s models.Structure, questionID, optionID string) (models.Structure, error) {
	out, err := s.Clone()
	if err != nil {
		return models.Structure{}, err
	}
	q, ok := findQuestion(&out, questionID)
	if !ok {
		return models.Structure{}, fmt.Errorf("%w: %s", ErrQuestionNotFound, questionID)
	}
	oi := optionIndex(q, optionID)
	if oi < 0 {
		return models.Structure{}, fmt.Errorf("%w: %s", ErrOptionNotFound, optionID)
	}
	if q.Type.IsChoice() && len(q.Options) == 1 {
		return models.Structure{}, ErrLastOption
	}
	q.Options = append(q.Options[:oi], q.Options[oi+1:]...)
	return out, nil
}

// ===== CONDITIONS =====

// SetCondition makes questionID depend on another question's answer. The
// source must exist, must not be the question itself, and must not already
// depend on questionID.
func (b *Builder) SetCondition(s models.Structure, questionID string, cond models.Condition) (models.Structure, error) {
	if cond.Operator != models.OperatorEq && cond.Operator != models.OperatorNeq {
		return models.Structure{}, fmt.Errorf("%w: %q", ErrInvalidOperator, cond.Operator)
	}
	if cond.SourceQuestionID == questionID {
		return models.Structure{}, ErrSelfCondition
	}

	out, err := s.Clone()
	if err != nil {
		return models.Structure{}, err
	}
	q, ok := findQuestion(&out, questionID)
	if !ok {
		return models.Structure{}, fmt.Errorf("%w: %s", ErrQuestionNotFound, questionID)
	}
	if _, ok := out.FindQuestion(cond.SourceQuestionID); !ok {
		return models.Structure{}, fmt.Errorf("%w: %s", ErrQuestionNotFound, cond.SourceQuestionID)
	}
	if dependsOn(out, cond.SourceQuestionID, questionID) {
		return models.Structure{}, ErrConditionCycle
	}

	c := cond
	q.Condition = &c
	return out, nil
}

func (b *Builder) ClearCondition(s models.Structure, questionID string) (models.Structure, error) {
	out, err := s.Clone()
	if err != nil {
		return models.Structure{}, err
	}
	q, ok := findQuestion(&out, questionID)
	if !ok {
		return models.Structure{}, fmt.Errorf("%w: %s", ErrQuestionNotFound, questionID)
	}
	q.Condition = nil
	return out, nil
}

// ===== HELPERS =====

func (b *Builder) ensureOptions(q *models.Question) {
	if q.Type.IsChoice() && len(q.Options) == 0 {
		q.Options = []models.Option{{ID: b.newID(), Value: ""}}
	}
}

// dependsOn reports whether from's condition chain reaches target.
func dependsOn(s models.Structure, from, target string) bool {
	seen := map[string]bool{}
	current := from
	for !seen[current] {
		if current == target {
			return true
		}
		seen[current] = true
		q, ok := s.FindQuestion(current)
		if !ok || q.Condition == nil {
			return false
		}
		current = q.Condition.SourceQuestionID
	}
	return false
}

func sectionIndex(s models.Structure, id string) int {
	for i, section := range s.Sections {
		if section.ID == id {
			return i
		}
	}
	return -1
}

func questionIndex(s models.Structure, id string) (int, int) {
	for si, section := range s.Sections {
		for qi, q := range section.Questions {
			if q.ID == id {
				return si, qi
			}
		}
	}
	return -1, -1
}

func findQuestion(s *models.Structure, id string) (*models.Question, bool) {
	si, qi := questionIndex(*s, id)
	if si < 0 {
		return nil, false
	}
	return &s.Sections[si].Questions[qi], true
}

func optionIndex(q *models.Question, id string) int {
	for i, opt := range q.Options {
		if opt.ID == id {
			return i
		}
	}
	return -1
}
