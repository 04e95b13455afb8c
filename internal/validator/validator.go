package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
)

// Validator is the main validator instance that combines all validation types
type Validator struct {
	structValidator    *validator.Validate
	structureValidator *StructureValidator
	documentValidator  *DocumentValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:    structValidator,
		structureValidator: NewStructureValidator(),
		documentValidator:  NewDocumentValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// ValidateStructure performs complete validation of an assessment structure:
// struct tags first, then the cross-question rules. The result is nil or a
// ValidationErrors value.
func (v *Validator) ValidateStructure(s models.Structure) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}

	if errs := v.structureValidator.Validate(s); len(errs) > 0 {
		return errs
	}

	return nil
}

// Structure returns the structure rule validator
func (v *Validator) Structure() *StructureValidator {
	return v.structureValidator
}

// Document returns the wire document validator
func (v *Validator) Document() *DocumentValidator {
	return v.documentValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("condition_operator", validateConditionOperator)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions
func validateQuestionType(fl validator.FieldLevel) bool {
	return models.QuestionType(fl.Field().String()).IsValid()
}

func validateConditionOperator(fl validator.FieldLevel) bool {
	value := models.ConditionOperator(fl.Field().String())
	return value == models.OperatorEq || value == models.OperatorNeq
}
