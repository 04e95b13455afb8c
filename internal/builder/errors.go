package builder

import "errors"

var (
	ErrSectionNotFound     = errors.New("section not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrOptionNotFound      = errors.New("option not found")
	ErrInvalidQuestionType = errors.New("invalid question type")
	ErrInvalidOperator     = errors.New("invalid condition operator")
	ErrSelfCondition       = errors.New("question cannot depend on itself")
	ErrConditionCycle      = errors.New("condition would create a dependency cycle")
	ErrLastOption          = errors.New("choice question must keep at least one option")
	ErrInvalidRange        = errors.New("range minimum exceeds maximum")
)
