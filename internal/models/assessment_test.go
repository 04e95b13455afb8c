package models

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func sampleStructure() Structure {
	return Structure{
		Title: "Platform Engineer",
		Sections: []Section{
			{
				ID:    "s1",
				Title: "About you",
				Questions: []Question{
					{ID: "q1", Type: ShortText, Label: "Name", Required: true},
					{ID: "q2", Type: LongText, Label: "Summary"},
					{ID: "q3", Type: SingleChoice, Label: "Remote?", Options: []Option{{ID: "o1", Value: "Yes"}, {ID: "o2", Value: "No"}}},
				},
			},
			{
				ID:    "s2",
				Title: "Skills",
				Questions: []Question{
					{ID: "q4", Type: MultiChoice, Label: "Languages", Options: []Option{{ID: "o3", Value: "Go"}, {ID: "o4", Value: ""}}},
					{
						ID: "q5", Type: Numeric, Label: "Years", Required: true,
						Range:     &Range{Min: fp(0), Max: fp(40)},
						Condition: &Condition{SourceQuestionID: "q3", Operator: OperatorEq, Value: "Yes"},
					},
					{ID: "q6", Type: FileUpload, Label: "CV", Condition: &Condition{SourceQuestionID: "q4", Operator: OperatorNeq, Value: "Go"}},
				},
			},
		},
	}
}

func TestStructure_RoundTrip(t *testing.T) {
	original := sampleStructure()

	data, err := json.Marshal(original)
	require.NoError(t, err)

	decoded, err := DecodeStructure(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

// everyTypeStructure has two sections, each holding one question of every
// supported type.
func everyTypeStructure() Structure {
	s := Structure{Title: "Every type"}
	for si := 1; si <= 2; si++ {
		section := Section{ID: fmt.Sprintf("s%d", si), Title: fmt.Sprintf("Section %d", si), Questions: []Question{}}
		for qi, qt := range QuestionTypes {
			q := Question{
				ID:       fmt.Sprintf("s%d-q%d", si, qi),
				Type:     qt,
				Label:    string(qt),
				Required: qi%2 == 0,
			}
			switch qt {
			case SingleChoice, MultiChoice:
				q.Options = []Option{{ID: q.ID + "-o1", Value: "A"}, {ID: q.ID + "-o2", Value: ""}}
			case Numeric:
				q.Range = &Range{Min: fp(1), Max: fp(5)}
			}
			if si == 2 && qt == LongText {
				q.Condition = &Condition{SourceQuestionID: "s1-q2", Operator: OperatorEq, Value: "A"}
			}
			section.Questions = append(section.Questions, q)
		}
		s.Sections = append(s.Sections, section)
	}
	return s
}

func TestStructure_RoundTripEveryType(t *testing.T) {
	original := everyTypeStructure()
	require.Len(t, original.Sections, 2)
	for _, section := range original.Sections {
		require.Len(t, section.Questions, len(QuestionTypes))
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	decoded, err := DecodeStructure(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeStructure_StrictEqualityOperators(t *testing.T) {
	doc := `{"title":"t","sections":[{"id":"s","title":"","questions":[
		{"id":"a","type":"short-text","label":"","required":false},
		{"id":"b","type":"short-text","label":"","required":false,"condition":{"sourceQuestionId":"a","operator":"===","value":"x"}},
		{"id":"c","type":"short-text","label":"","required":false,"condition":{"sourceQuestionId":"a","operator":"!==","value":3}}
	]}]}`

	s, err := DecodeStructure([]byte(doc))
	require.NoError(t, err)

	b, _ := s.FindQuestion("b")
	c, _ := s.FindQuestion("c")
	assert.Equal(t, OperatorEq, b.Condition.Operator)
	assert.Equal(t, OperatorNeq, c.Condition.Operator)
	assert.Equal(t, "3", c.Condition.Value)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"operator":"eq"`)
	assert.Contains(t, string(out), `"operator":"neq"`)
}

func TestDecodeStructure_Errors(t *testing.T) {
	_, err := DecodeStructure([]byte(`{"title":"t","sections":[{"id":"s","questions":[{"id":"a","type":"short-text","condition":{"sourceQuestionId":"x","operator":">"}}]}]}`))
	assert.Error(t, err)

	_, err = DecodeStructure([]byte(`{"title":"t","sections":[{"id":"s","questions":[{"id":"a","type":"short-text","condition":{"sourceQuestionId":"x","operator":"eq","value":[1]}}]}]}`))
	assert.Error(t, err)

	s, err := DecodeStructure([]byte(`{"title":"t","sections":[{"id":"s"}]}`))
	require.NoError(t, err)
	assert.NotNil(t, s.Sections[0].Questions)
}

func TestStructure_Clone(t *testing.T) {
	original := sampleStructure()

	clone, err := original.Clone()
	require.NoError(t, err)
	require.Equal(t, original, clone)

	clone.Sections[1].Questions[0].Options[0].Value = "Rust"
	*clone.Sections[1].Questions[1].Range.Max = 99
	clone.Sections[1].Questions[1].Condition.Value = "No"
	clone.Sections[0].Questions = append(clone.Sections[0].Questions[:0], Question{ID: "z"})

	assert.Equal(t, sampleStructure(), original)
}

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint(sampleStructure())
	require.NoError(t, err)
	b, err := Fingerprint(sampleStructure())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 32)

	changed := sampleStructure()
	changed.Title = "Other"
	c, err := Fingerprint(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestStructure_Lookups(t *testing.T) {
	s := sampleStructure()

	assert.Len(t, s.Questions(), 6)
	q, ok := s.FindQuestion("q5")
	assert.True(t, ok)
	assert.Equal(t, Numeric, q.Type)
	_, ok = s.FindQuestion("missing")
	assert.False(t, ok)

	assert.False(t, s.IsEmpty())
	assert.True(t, DefaultStructure().IsEmpty())
	assert.Equal(t, DefaultAssessmentTitle, NewAssessment(4).Structure.Title)
}

func TestQuestion_Kind(t *testing.T) {
	tests := []struct {
		q    Question
		want QuestionKind
	}{
		{Question{Type: ShortText, Options: []Option{{ID: "o"}}}, TextKind{}},
		{Question{Type: LongText}, TextKind{Long: true}},
		{Question{Type: SingleChoice, Options: []Option{{ID: "o"}}}, ChoiceKind{Options: []Option{{ID: "o"}}}},
		{Question{Type: MultiChoice}, ChoiceKind{Multiple: true}},
		{Question{Type: Numeric, Range: &Range{Max: fp(2)}}, NumericKind{Range: Range{Max: fp(2)}}},
		{Question{Type: Numeric}, NumericKind{}},
		{Question{Type: FileUpload}, FileKind{}},
		{Question{Type: "rating"}, UnsupportedKind{Type: "rating"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.q.Type), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.Kind())
		})
	}
}
