package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type QuestionType string

const (
	ShortText    QuestionType = "short-text"
	LongText     QuestionType = "long-text"
	SingleChoice QuestionType = "single-choice"
	MultiChoice  QuestionType = "multi-choice"
	Numeric      QuestionType = "numeric"
	FileUpload   QuestionType = "file-upload"
)

// QuestionTypes lists every supported question type in builder order.
var QuestionTypes = []QuestionType{ShortText, LongText, SingleChoice, MultiChoice, Numeric, FileUpload}

func (t QuestionType) IsValid() bool {
	for _, qt := range QuestionTypes {
		if qt == t {
			return true
		}
	}
	return false
}

// IsChoice reports whether answers to this type are picked from options.
func (t QuestionType) IsChoice() bool {
	return t == SingleChoice || t == MultiChoice
}

type Question struct {
	ID        string       `json:"id" yaml:"id" validate:"required"`
	Type      QuestionType `json:"type" yaml:"type" validate:"required,question_type"`
	Label     string       `json:"label" yaml:"label"`
	Required  bool         `json:"required" yaml:"required"`
	Options   []Option     `json:"options,omitempty" yaml:"options,omitempty" validate:"omitempty,dive"`
	Range     *Range       `json:"range,omitempty" yaml:"range,omitempty"`
	Condition *Condition   `json:"condition,omitempty" yaml:"condition,omitempty" validate:"omitempty"`
}

type Option struct {
	ID    string `json:"id" yaml:"id" validate:"required"`
	Value string `json:"value" yaml:"value"`
}

// Range bounds a numeric answer; either side may be open.
type Range struct {
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// ===== CONDITIONS =====

type ConditionOperator string

const (
	OperatorEq  ConditionOperator = "eq"
	OperatorNeq ConditionOperator = "neq"
)

// ParseConditionOperator accepts both the canonical names and the
// strict-equality spellings used by older documents.
func ParseConditionOperator(s string) (ConditionOperator, error) {
	switch s {
	case "eq", "===", "==":
		return OperatorEq, nil
	case "neq", "!==", "!=":
		return OperatorNeq, nil
	default:
		return "", fmt.Errorf("unknown condition operator %q", s)
	}
}

func (o *ConditionOperator) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("condition operator must be a string: %w", err)
	}
	op, err := ParseConditionOperator(s)
	if err != nil {
		return err
	}
	*o = op
	return nil
}

// Condition makes a question visible only when another question's answer
// matches Value under Operator.
type Condition struct {
	SourceQuestionID string            `json:"sourceQuestionId" yaml:"sourceQuestionId" validate:"required"`
	Operator         ConditionOperator `json:"operator" yaml:"operator" validate:"required,condition_operator"`
	Value            string            `json:"value" yaml:"value"`
}

func (c *Condition) UnmarshalJSON(data []byte) error {
	var raw struct {
		SourceQuestionID string            `json:"sourceQuestionId"`
		Operator         ConditionOperator `json:"operator"`
		Value            json.RawMessage   `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	value, err := scalarString(raw.Value)
	if err != nil {
		return fmt.Errorf("condition value: %w", err)
	}
	c.SourceQuestionID = raw.SourceQuestionID
	c.Operator = raw.Operator
	c.Value = value
	return nil
}

// scalarString coerces a JSON scalar to its string form so that numeric and
// boolean condition values compare the same way string answers do.
func scalarString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return FormatNumber(t), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("expected a scalar, got %s", raw)
	}
}

// FormatNumber renders a number the way it is compared against string
// values: shortest decimal, no exponent, no trailing zeros.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ===== TYPE-KEYED VARIANTS =====

// QuestionKind is the type-specific view of a question. Code that renders,
// evaluates or validates questions switches on it instead of reading the
// optional fields of Question directly.
type QuestionKind interface {
	isQuestionKind()
}

type TextKind struct {
	Long bool
}

type ChoiceKind struct {
	Multiple bool
	Options  []Option
}

type NumericKind struct {
	Range Range
}

type FileKind struct{}

// UnsupportedKind is returned for types this build does not know about.
type UnsupportedKind struct {
	Type QuestionType
}

func (TextKind) isQuestionKind()        {}
func (ChoiceKind) isQuestionKind()      {}
func (NumericKind) isQuestionKind()     {}
func (FileKind) isQuestionKind()        {}
func (UnsupportedKind) isQuestionKind() {}

// Kind returns the variant for the question's current type. Fields left
// over from a previous type (options on a short-text question, say) are
// not visible through it.
func (q Question) Kind() QuestionKind {
	switch q.Type {
	case ShortText:
		return TextKind{}
	case LongText:
		return TextKind{Long: true}
	case SingleChoice:
		return ChoiceKind{Options: q.Options}
	case MultiChoice:
		return ChoiceKind{Multiple: true, Options: q.Options}
	case Numeric:
		var r Range
		if q.Range != nil {
			r = *q.Range
		}
		return NumericKind{Range: r}
	case FileUpload:
		return FileKind{}
	default:
		return UnsupportedKind{Type: q.Type}
	}
}
