package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
)

const assessmentKeyPrefix = "talentflow:assessment:job:"

func AssessmentKey(jobID uint) string {
	return fmt.Sprintf("%s%d", assessmentKeyPrefix, jobID)
}

// AssessmentCache keeps the last saved assessment of each job. Cache errors
// never fail a request: they are logged and treated as misses.
type AssessmentCache struct {
	cache  CacheService
	ttl    time.Duration
	logger *slog.Logger
}

func NewAssessmentCache(cache CacheService, ttl time.Duration, logger *slog.Logger) *AssessmentCache {
	return &AssessmentCache{cache: cache, ttl: ttl, logger: logger}
}

// Get returns the cached assessment and whether there was one.
func (c *AssessmentCache) Get(ctx context.Context, jobID uint) (*models.Assessment, bool) {
	if c == nil || c.cache == nil {
		return nil, false
	}
	var a models.Assessment
	if err := c.cache.Get(ctx, AssessmentKey(jobID), &a); err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn("Assessment cache read failed", "job_id", jobID, "error", err)
		}
		return nil, false
	}
	if a.Structure.Sections == nil {
		a.Structure.Sections = []models.Section{}
	}
	return &a, true
}

func (c *AssessmentCache) Put(ctx context.Context, a *models.Assessment) {
	if c == nil || c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, AssessmentKey(a.JobID), a, c.ttl); err != nil {
		c.logger.Warn("Assessment cache write failed", "job_id", a.JobID, "error", err)
	}
}

func (c *AssessmentCache) Invalidate(ctx context.Context, jobID uint) {
	if c == nil || c.cache == nil {
		return
	}
	if err := c.cache.Delete(ctx, AssessmentKey(jobID)); err != nil {
		c.logger.Warn("Assessment cache invalidation failed", "job_id", jobID, "error", err)
	}
}

// Flush drops every cached assessment.
func (c *AssessmentCache) Flush(ctx context.Context) error {
	if c == nil || c.cache == nil {
		return nil
	}
	return c.cache.DeletePattern(ctx, assessmentKeyPrefix+"*")
}
