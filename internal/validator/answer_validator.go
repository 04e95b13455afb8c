package validator

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
	"github.com/SAP-F-2025/talentflow-assessment/internal/rules"
)

const (
	MsgRequired   = "This field is required."
	MsgNotANumber = "Must be a number."
)

// AnswerErrors maps question ids to the message shown under the question.
type AnswerErrors map[string]string

func (e AnswerErrors) Error() string {
	if len(e) == 0 {
		return "answers are valid"
	}
	ids := make([]string, 0, len(e))
	for id := range e {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if len(ids) == 1 {
		return fmt.Sprintf("invalid answer for %s: %s", ids[0], e[ids[0]])
	}
	return fmt.Sprintf("invalid answers for %d questions: %s", len(ids), strings.Join(ids, ", "))
}

// OK reports whether no question failed.
func (e AnswerErrors) OK() bool {
	return len(e) == 0
}

// ValidateAnswers checks answers against every visible question of s.
// Hidden questions are skipped entirely.
//
// File-upload questions are never reported as missing: nothing stores the
// uploads yet, so a candidate has no way to satisfy the requirement.
func ValidateAnswers(s models.Structure, answers models.AnswerSet) AnswerErrors {
	errs := make(AnswerErrors)
	evaluator := rules.NewEvaluator(s)

	for _, q := range s.Questions() {
		if _, done := errs[q.ID]; done {
			continue
		}
		if !evaluator.IsVisible(q, answers) {
			continue
		}
		if msg, failed := validateAnswer(q, answers.Get(q.ID)); failed {
			errs[q.ID] = msg
		}
	}

	return errs
}

func validateAnswer(q models.Question, answer models.AnswerValue) (string, bool) {
	switch kind := q.Kind().(type) {
	case models.FileKind:
		return "", false
	case models.NumericKind:
		if answer.IsBlank() {
			return requiredMessage(q)
		}
		return validateNumber(kind.Range, answer)
	case models.TextKind, models.ChoiceKind, models.UnsupportedKind:
		if answer.IsBlank() {
			return requiredMessage(q)
		}
		return "", false
	default:
		panic(fmt.Sprintf("unhandled question kind %T", kind))
	}
}

func requiredMessage(q models.Question) (string, bool) {
	if q.Required {
		return MsgRequired, true
	}
	return "", false
}

func validateNumber(r models.Range, answer models.AnswerValue) (string, bool) {
	n, ok := parseNumber(answer)
	if !ok {
		return MsgNotANumber, true
	}
	if r.Min != nil && n < *r.Min {
		return fmt.Sprintf("Must be at least %s.", models.FormatNumber(*r.Min)), true
	}
	if r.Max != nil && n > *r.Max {
		return fmt.Sprintf("Must be no more than %s.", models.FormatNumber(*r.Max)), true
	}
	return "", false
}

func parseNumber(answer models.AnswerValue) (float64, bool) {
	if n, ok := answer.Number(); ok {
		return n, isFinite(n)
	}
	text, ok := answer.Text()
	if !ok {
		return 0, false
	}
	// ParseFloat accepts "Inf" and "NaN" and overflows to Inf with ErrRange;
	// none of them is a usable answer
	n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || !isFinite(n) {
		return 0, false
	}
	return n, true
}

func isFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}
