package validator

import (
	"fmt"

	apperrors "github.com/SAP-F-2025/talentflow-assessment/internal/errors"
	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
)

// StructureValidator checks the rules that span more than one field of a
// structure: id uniqueness, option sets, ranges and condition sources.
type StructureValidator struct{}

// NewStructureValidator creates a new structure validator
func NewStructureValidator() *StructureValidator {
	return &StructureValidator{}
}

// Validate returns every violated rule, in structure order.
func (v *StructureValidator) Validate(s models.Structure) ValidationErrors {
	var errs ValidationErrors

	sectionIDs := make(map[string]bool)
	questionIDs := make(map[string]bool)

	for si, section := range s.Sections {
		sectionPath := fmt.Sprintf("sections[%d]", si)
		if sectionIDs[section.ID] {
			errs = append(errs, ruleError(sectionPath+".id", "unique_id", section.ID))
		}
		sectionIDs[section.ID] = true

		for qi, q := range section.Questions {
			path := fmt.Sprintf("%s.questions[%d]", sectionPath, qi)
			if questionIDs[q.ID] {
				errs = append(errs, ruleError(path+".id", "unique_id", q.ID))
			}
			questionIDs[q.ID] = true

			errs = append(errs, v.ValidateQuestion(path, q)...)
		}
	}

	return errs
}

// ValidateQuestion checks the rules local to one question.
func (v *StructureValidator) ValidateQuestion(path string, q models.Question) ValidationErrors {
	var errs ValidationErrors

	optionIDs := make(map[string]bool)
	for oi, opt := range q.Options {
		if optionIDs[opt.ID] {
			errs = append(errs, ruleError(fmt.Sprintf("%s.options[%d].id", path, oi), "unique_option", opt.ID))
		}
		optionIDs[opt.ID] = true
	}

	if q.Condition != nil && q.Condition.SourceQuestionID == q.ID {
		errs = append(errs, ruleError(path+".condition.sourceQuestionId", "self_condition", q.ID))
	}

	switch kind := q.Kind().(type) {
	case models.ChoiceKind:
		if len(kind.Options) == 0 {
			errs = append(errs, ruleError(path+".options", "options_required", nil))
		}
	case models.NumericKind:
		if kind.Range.Min != nil && kind.Range.Max != nil && *kind.Range.Min > *kind.Range.Max {
			errs = append(errs, ruleError(path+".range", "range_order", kind.Range))
		}
	case models.TextKind, models.FileKind, models.UnsupportedKind:
	}

	return errs
}

func ruleError(field, rule string, value interface{}) ValidationError {
	return *apperrors.NewValidationErrorWithRule(field, apperrors.Message(rule), rule, value)
}
