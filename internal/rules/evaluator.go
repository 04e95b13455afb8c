// Package rules decides which questions of a structure are shown for a given
// set of answers.
package rules

import (
	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
)

// Evaluator answers visibility queries for one structure. It is immutable
// after construction and safe for concurrent use.
type Evaluator struct {
	questions map[string]models.Question
	order     []string
}

// NewEvaluator indexes the questions of s.
func NewEvaluator(s models.Structure) *Evaluator {
	e := &Evaluator{questions: make(map[string]models.Question)}
	for _, q := range s.Questions() {
		if _, dup := e.questions[q.ID]; dup {
			// first definition wins, matching FindQuestion
			continue
		}
		e.questions[q.ID] = q
		e.order = append(e.order, q.ID)
	}
	return e
}

// IsVisible is the one-shot form of Evaluator.IsVisible.
func IsVisible(s models.Structure, q models.Question, answers models.AnswerSet) bool {
	return NewEvaluator(s).IsVisible(q, answers)
}

// IsVisible reports whether q is shown given answers.
//
// A question without a condition is always visible. Otherwise its source
// question must exist, must itself be visible, must have an answer, and
// that answer must satisfy the condition. Conditions that reach back to a
// question already on the chain form a cycle; every question on or below a
// cycle is hidden.
func (e *Evaluator) IsVisible(q models.Question, answers models.AnswerSet) bool {
	seen := map[string]bool{q.ID: true}
	current := q
	for current.Condition != nil {
		cond := *current.Condition
		source, ok := e.questions[cond.SourceQuestionID]
		if !ok {
			return false
		}
		if seen[source.ID] {
			return false
		}
		if !Matches(cond, answers.Get(source.ID)) {
			return false
		}
		seen[source.ID] = true
		current = source
	}
	return true
}

// Visible returns the visibility of the question with the given id. Unknown
// ids are not visible.
func (e *Evaluator) Visible(id string, answers models.AnswerSet) bool {
	q, ok := e.questions[id]
	if !ok {
		return false
	}
	return e.IsVisible(q, answers)
}

// VisibilityMap evaluates every question in structure order.
func (e *Evaluator) VisibilityMap(answers models.AnswerSet) map[string]bool {
	out := make(map[string]bool, len(e.order))
	for _, id := range e.order {
		out[id] = e.IsVisible(e.questions[id], answers)
	}
	return out
}

// VisibleQuestions returns the visible questions in structure order.
func (e *Evaluator) VisibleQuestions(answers models.AnswerSet) []models.Question {
	var out []models.Question
	for _, id := range e.order {
		q := e.questions[id]
		if e.IsVisible(q, answers) {
			out = append(out, q)
		}
	}
	return out
}

// Matches applies a single condition to the source answer. An absent answer
// never matches, whichever the operator.
func Matches(cond models.Condition, actual models.AnswerValue) bool {
	if actual.IsAbsent() {
		return false
	}

	var equal bool
	if actual.Kind() == models.AnswerList {
		equal = actual.Contains(cond.Value)
	} else {
		equal = actual.String() == cond.Value
	}

	switch cond.Operator {
	case models.OperatorEq:
		return equal
	case models.OperatorNeq:
		return !equal
	default:
		return false
	}
}
