package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/SAP-F-2025/talentflow-assessment/internal/errors"
	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
	"github.com/SAP-F-2025/talentflow-assessment/internal/repositories"
)

// editFunc applies one builder operation and returns the id it created, if any.
type editFunc func(models.Structure) (models.Structure, string, error)

func noID(fn func(models.Structure) (models.Structure, error)) editFunc {
	return func(s models.Structure) (models.Structure, string, error) {
		out, err := fn(s)
		return out, "", err
	}
}

// validationFailed wraps a struct-tag failure so handlers can list the fields.
func validationFailed(err error) error {
	if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrValidationFailed, errs)
	}
	return fmt.Errorf("%w: %w", ErrValidationFailed, err)
}

// load reads through the cache. A job without a saved assessment gets the
// default structure, reported as not persisted.
func (s *assessmentService) load(ctx context.Context, jobID uint) (*models.Assessment, bool, error) {
	if cached, ok := s.cache.Get(ctx, jobID); ok {
		return cached, true, nil
	}

	a, err := s.repo.Assessment().GetByJobID(ctx, nil, jobID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return models.NewAssessment(jobID), false, nil
		}
		return nil, false, fmt.Errorf("failed to get assessment: %w", err)
	}

	s.cache.Put(ctx, a)
	return a, true, nil
}

// apply runs edit against the stored structure inside a transaction that
// holds the row lock, validates the result and upserts it.
func (s *assessmentService) apply(ctx context.Context, operation string, jobID uint, edit EditContext, fn editFunc) (*AssessmentResponse, string, error) {
	op := s.opLogger.WithOperation(ctx, operation, edit.UserID)

	var saved *models.Assessment
	var createdID string

	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		current, err := s.repo.Assessment().GetByJobIDForUpdate(ctx, tx, jobID)
		if err != nil {
			if !repositories.IsNotFoundError(err) {
				return fmt.Errorf("failed to get assessment: %w", err)
			}
			current = models.NewAssessment(jobID)
		}

		if edit.IfMatch != "" {
			fingerprint, err := models.Fingerprint(current.Structure)
			if err != nil {
				return err
			}
			if fingerprint != edit.IfMatch {
				return ErrAssessmentModified
			}
		}

		next, id, err := fn(current.Structure)
		if err != nil {
			return builderRuleError(err)
		}

		if err := s.validator.ValidateStructure(next); err != nil {
			return err
		}

		a := &models.Assessment{
			JobID:     jobID,
			Structure: next,
			Version:   current.Version,
			CreatedAt: current.CreatedAt,
		}
		if err := s.repo.Assessment().Upsert(ctx, tx, a); err != nil {
			return err
		}

		saved = a
		createdID = id
		return nil
	})
	if err != nil {
		var ve ValidationErrors
		if errors.As(err, &ve) {
			err = fmt.Errorf("%w: %w", ErrValidationFailed, ve)
		}
		op.LogResult(jobID, "assessment", err)
		return nil, "", err
	}

	s.cache.Invalidate(ctx, jobID)
	s.cache.Put(ctx, saved)

	resp, err := newAssessmentResponse(saved, true)
	if err != nil {
		op.LogResult(jobID, "assessment", err)
		return nil, "", err
	}
	s.notifier.NotifyAssessmentSaved(ctx, saved, resp.Fingerprint)

	op.LogResult(jobID, "assessment", nil)
	return resp, createdID, nil
}

func (s *assessmentService) applyCreate(ctx context.Context, operation string, jobID uint, edit EditContext, fn editFunc) (*EditResponse, error) {
	resp, id, err := s.apply(ctx, operation, jobID, edit, fn)
	if err != nil {
		return nil, err
	}
	return &EditResponse{AssessmentResponse: resp, CreatedID: id}, nil
}

func newAssessmentResponse(a *models.Assessment, persisted bool) (*AssessmentResponse, error) {
	fingerprint, err := models.Fingerprint(a.Structure)
	if err != nil {
		return nil, err
	}
	return &AssessmentResponse{
		Assessment:  a,
		Fingerprint: fingerprint,
		Persisted:   persisted,
	}, nil
}
