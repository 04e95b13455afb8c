package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
)

func cond(source string, op models.ConditionOperator, value string) *models.Condition {
	return &models.Condition{SourceQuestionID: source, Operator: op, Value: value}
}

func structureOf(questions ...models.Question) models.Structure {
	return models.Structure{
		Title:    "Screening",
		Sections: []models.Section{{ID: "s1", Title: "Basics", Questions: questions}},
	}
}

func TestIsVisible_NoCondition(t *testing.T) {
	q := models.Question{ID: "q1", Type: models.ShortText}
	s := structureOf(q)

	assert.True(t, IsVisible(s, q, nil))
	assert.True(t, IsVisible(s, q, models.AnswerSet{"q1": models.TextAnswer("x")}))
}

func TestIsVisible_ScalarSource(t *testing.T) {
	source := models.Question{ID: "relocate", Type: models.SingleChoice, Options: []models.Option{{ID: "o1", Value: "Yes"}}}
	eq := models.Question{ID: "city", Type: models.ShortText, Condition: cond("relocate", models.OperatorEq, "Yes")}
	neq := models.Question{ID: "why", Type: models.LongText, Condition: cond("relocate", models.OperatorNeq, "Yes")}
	e := NewEvaluator(structureOf(source, eq, neq))

	tests := []struct {
		name    string
		answers models.AnswerSet
		eq      bool
		neq     bool
	}{
		{"matching answer", models.AnswerSet{"relocate": models.TextAnswer("Yes")}, true, false},
		{"different answer", models.AnswerSet{"relocate": models.TextAnswer("No")}, false, true},
		{"case sensitive", models.AnswerSet{"relocate": models.TextAnswer("yes")}, false, true},
		{"absent answer", models.AnswerSet{}, false, false},
		{"nil answers", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.eq, e.IsVisible(eq, tt.answers))
			assert.Equal(t, tt.neq, e.IsVisible(neq, tt.answers))
		})
	}
}

func TestIsVisible_NumberCoercion(t *testing.T) {
	source := models.Question{ID: "years", Type: models.Numeric}
	q := models.Question{ID: "senior", Type: models.ShortText, Condition: cond("years", models.OperatorEq, "5")}
	e := NewEvaluator(structureOf(source, q))

	assert.True(t, e.IsVisible(q, models.AnswerSet{"years": models.NumberAnswer(5)}))
	assert.True(t, e.IsVisible(q, models.AnswerSet{"years": models.TextAnswer("5")}))
	assert.False(t, e.IsVisible(q, models.AnswerSet{"years": models.NumberAnswer(5.5)}))
}

func TestIsVisible_SequenceSource(t *testing.T) {
	source := models.Question{ID: "langs", Type: models.MultiChoice}
	eq := models.Question{ID: "go", Type: models.ShortText, Condition: cond("langs", models.OperatorEq, "Go")}
	neq := models.Question{ID: "nogo", Type: models.ShortText, Condition: cond("langs", models.OperatorNeq, "Go")}
	e := NewEvaluator(structureOf(source, eq, neq))

	with := models.AnswerSet{"langs": models.ListAnswer("Rust", "Go")}
	without := models.AnswerSet{"langs": models.ListAnswer("Rust")}
	empty := models.AnswerSet{"langs": models.ListAnswer()}

	assert.True(t, e.IsVisible(eq, with))
	assert.False(t, e.IsVisible(neq, with))
	assert.False(t, e.IsVisible(eq, without))
	assert.True(t, e.IsVisible(neq, without))
	assert.True(t, e.IsVisible(neq, empty))
}

func TestIsVisible_DanglingSource(t *testing.T) {
	eq := models.Question{ID: "q2", Type: models.ShortText, Condition: cond("removed", models.OperatorEq, "x")}
	neq := models.Question{ID: "q3", Type: models.ShortText, Condition: cond("removed", models.OperatorNeq, "x")}
	e := NewEvaluator(structureOf(eq, neq))

	// an answer left behind for the removed question must not count
	answers := models.AnswerSet{"removed": models.TextAnswer("x")}
	assert.False(t, e.IsVisible(eq, answers))
	assert.False(t, e.IsVisible(neq, answers))
	assert.False(t, e.IsVisible(neq, nil))
}

func TestIsVisible_HiddenSourceHidesDependents(t *testing.T) {
	root := models.Question{ID: "a", Type: models.ShortText}
	mid := models.Question{ID: "b", Type: models.ShortText, Condition: cond("a", models.OperatorEq, "yes")}
	leaf := models.Question{ID: "c", Type: models.ShortText, Condition: cond("b", models.OperatorEq, "go")}
	e := NewEvaluator(structureOf(root, mid, leaf))

	assert.True(t, e.IsVisible(leaf, models.AnswerSet{"a": models.TextAnswer("yes"), "b": models.TextAnswer("go")}))
	assert.False(t, e.IsVisible(leaf, models.AnswerSet{"a": models.TextAnswer("no"), "b": models.TextAnswer("go")}))
}

func TestIsVisible_Cycles(t *testing.T) {
	a := models.Question{ID: "a", Type: models.ShortText, Condition: cond("b", models.OperatorEq, "1")}
	b := models.Question{ID: "b", Type: models.ShortText, Condition: cond("a", models.OperatorEq, "1")}
	downstream := models.Question{ID: "c", Type: models.ShortText, Condition: cond("a", models.OperatorEq, "1")}
	self := models.Question{ID: "self", Type: models.ShortText, Condition: cond("self", models.OperatorNeq, "z")}
	e := NewEvaluator(structureOf(a, b, downstream, self))

	answers := models.AnswerSet{
		"a":    models.TextAnswer("1"),
		"b":    models.TextAnswer("1"),
		"self": models.TextAnswer("y"),
	}

	assert.False(t, e.IsVisible(a, answers))
	assert.False(t, e.IsVisible(b, answers))
	assert.False(t, e.IsVisible(downstream, answers))
	assert.False(t, e.IsVisible(self, answers))
}

func TestEvaluator_VisibleQuestions(t *testing.T) {
	source := models.Question{ID: "q1", Type: models.SingleChoice}
	shown := models.Question{ID: "q2", Type: models.ShortText, Condition: cond("q1", models.OperatorEq, "A")}
	hidden := models.Question{ID: "q3", Type: models.ShortText, Condition: cond("q1", models.OperatorEq, "B")}
	e := NewEvaluator(structureOf(source, shown, hidden))
	answers := models.AnswerSet{"q1": models.TextAnswer("A")}

	visible := e.VisibleQuestions(answers)
	ids := make([]string, 0, len(visible))
	for _, q := range visible {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{"q1", "q2"}, ids)
	assert.Equal(t, map[string]bool{"q1": true, "q2": true, "q3": false}, e.VisibilityMap(answers))
	assert.False(t, e.Visible("missing", answers))
}

func TestMatches_UnknownOperator(t *testing.T) {
	c := models.Condition{SourceQuestionID: "q1", Operator: "gt", Value: "1"}
	assert.False(t, Matches(c, models.TextAnswer("1")))
}
