package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
	"github.com/SAP-F-2025/talentflow-assessment/internal/rules"
	"github.com/SAP-F-2025/talentflow-assessment/internal/validator"
)

type State int

const (
	StateLoading State = iota
	StateEditing
	StateSubmitting
	StateSubmitted
	StateLoadError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	case StateLoadError:
		return "load_error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrSchemaLoad       = errors.New("failed to load assessment")
	ErrValidationFailed = errors.New("answers failed validation")
	ErrPersistence      = errors.New("failed to submit assessment")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrInvalidState     = errors.New("operation not allowed in current state")
)

// SubmitFailedNotice is shown to the candidate when persistence fails. The
// answers stay in the form so they can retry.
const SubmitFailedNotice = "Failed to submit assessment. Please try again."

// Loader fetches the structure a candidate fills out.
type Loader interface {
	LoadStructure(ctx context.Context, jobID uint) (models.Structure, error)
}

// Submitter persists a final answer set. Each call creates a new submission.
type Submitter interface {
	SubmitAnswers(ctx context.Context, jobID, candidateID uint, answers models.AnswerSet) (*models.Submission, error)
}

// Controller drives one candidate through one assessment:
// Loading -> Editing -> Submitting -> Submitted, with LoadError when the
// structure cannot be fetched and a return to Editing when submission fails.
type Controller struct {
	loader      Loader
	submitter   Submitter
	jobID       uint
	candidateID uint

	mu         sync.Mutex
	state      State
	structure  models.Structure
	evaluator  *rules.Evaluator
	answers    models.AnswerSet
	errs       validator.AnswerErrors
	notice     string
	loadErr    error
	submission *models.Submission
}

func NewController(loader Loader, submitter Submitter, jobID, candidateID uint) *Controller {
	return &Controller{
		loader:      loader,
		submitter:   submitter,
		jobID:       jobID,
		candidateID: candidateID,
		state:       StateLoading,
		evaluator:   rules.NewEvaluator(models.Structure{}),
		answers:     models.AnswerSet{},
		errs:        validator.AnswerErrors{},
	}
}

// Load fetches the structure. It may be called again after a LoadError.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateLoading && c.state != StateLoadError {
		c.mu.Unlock()
		return fmt.Errorf("load in state %s: %w", c.state, ErrInvalidState)
	}
	c.state = StateLoading
	c.mu.Unlock()

	structure, err := c.loader.LoadStructure(ctx, c.jobID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = StateLoadError
		c.loadErr = fmt.Errorf("%w: %w", ErrSchemaLoad, err)
		return c.loadErr
	}

	c.structure = structure
	c.evaluator = rules.NewEvaluator(structure)
	c.loadErr = nil
	c.state = StateEditing
	return nil
}

// SetAnswer records an answer and clears any error previously shown for
// that question.
func (c *Controller) SetAnswer(questionID string, value models.AnswerValue) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return fmt.Errorf("set answer in state %s: %w", c.state, ErrInvalidState)
	}
	c.answers = c.answers.With(questionID, value)
	delete(c.errs, questionID)
	return nil
}

func (c *Controller) ClearAnswer(questionID string) error {
	return c.SetAnswer(questionID, models.AnswerValue{})
}

// Submit validates the visible questions and, when they pass, hands the
// answers to the Submitter exactly once. The context is passed through
// unchanged; there is no retry.
func (c *Controller) Submit(ctx context.Context) (*models.Submission, error) {
	c.mu.Lock()
	switch c.state {
	case StateEditing:
	case StateSubmitting:
		c.mu.Unlock()
		return nil, ErrSubmitInProgress
	default:
		c.mu.Unlock()
		return nil, fmt.Errorf("submit in state %s: %w", c.state, ErrInvalidState)
	}

	errs := validator.ValidateAnswers(c.structure, c.answers)
	if !errs.OK() {
		c.errs = errs
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, errs)
	}

	c.errs = validator.AnswerErrors{}
	c.notice = ""
	c.state = StateSubmitting
	answers := c.answers.Clone()
	c.mu.Unlock()

	submission, err := c.submitter.SubmitAnswers(ctx, c.jobID, c.candidateID, answers)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = StateEditing
		c.notice = SubmitFailedNotice
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	c.state = StateSubmitted
	c.submission = submission
	return submission, nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Visible reports whether a question is currently shown. Unknown ids and
// any id before a successful load are not visible.
func (c *Controller) Visible(questionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evaluator.Visible(questionID, c.answers)
}

// VisibleQuestions returns the questions currently shown, in order.
func (c *Controller) VisibleQuestions() []models.Question {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evaluator.VisibleQuestions(c.answers)
}

func (c *Controller) Structure() models.Structure {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.structure
}

// Answers returns a copy of the current answers.
func (c *Controller) Answers() models.AnswerSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answers.Clone()
}

// Errors returns a copy of the per-question messages from the last failed
// submit, minus those cleared by later edits.
func (c *Controller) Errors() validator.AnswerErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(validator.AnswerErrors, len(c.errs))
	for id, msg := range c.errs {
		out[id] = msg
	}
	return out
}

// Notice is the form-level message, set after a failed submission.
func (c *Controller) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

func (c *Controller) LoadErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

func (c *Controller) Submission() *models.Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submission
}
