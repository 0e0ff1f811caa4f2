package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/yoojob/internal/cache"
	"github.com/yoockh/yoojob/internal/models"
	pgrepo "github.com/yoockh/yoojob/internal/repositories/postgres"
	"github.com/yoockh/yoojob/internal/utils"
	"github.com/yoockh/yoojob/internal/validation"
)

type JobInput struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Description string  `json:"description" validate:"required,min=20,max=2000"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
}

// JobPatch holds the fields of a partial update; nil means "leave as is".
// ClearLocation is set when the body carries "location": null.
type JobPatch struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Location      *string `json:"location"`
	ClearLocation bool    `json:"-"`
}

func (p *JobPatch) UnmarshalJSON(b []byte) error {
	type fields JobPatch
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}
	if err := json.Unmarshal(b, (*fields)(p)); err != nil {
		return err
	}
	if raw, ok := keys["location"]; ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		p.Location = nil
		p.ClearLocation = true
	}
	return nil
}

type JobService interface {
	Create(ctx context.Context, caller Caller, in JobInput) (*models.Job, error)
	Update(ctx context.Context, caller Caller, jobID string, patch JobPatch) (*models.Job, error)
	Delete(ctx context.Context, caller Caller, jobID string) error
	Browse(ctx context.Context, f models.JobFilter, p utils.Page) (*Paged[models.JobListing], error)
	Get(ctx context.Context, jobID string) (*models.JobListing, error)
	MyJobs(ctx context.Context, caller Caller, p utils.Page) (*Paged[models.OwnedJob], error)
}

type jobService struct {
	jobs     pgrepo.JobRepository
	validate *validation.Validator
	cache    cache.Cache
	cacheTTL time.Duration
	log      logrus.FieldLogger
}

func NewJobService(jobs pgrepo.JobRepository, validate *validation.Validator, c cache.Cache, cacheTTL time.Duration, log logrus.FieldLogger) JobService {
	if c == nil {
		c = cache.Noop{}
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &jobService{jobs: jobs, validate: validate, cache: c, cacheTTL: cacheTTL, log: log}
}

func jobCacheKey(id string) string { return "job:" + id }

// optionalText maps a blank optional field to nil.
func optionalText(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *jobService) Create(ctx context.Context, caller Caller, in JobInput) (*models.Job, error) {
	const op = "JobService.Create"

	if msgs := s.validate.Struct(in); len(msgs) > 0 {
		return nil, utils.Invalid(op, msgs...)
	}

	job := &models.Job{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Location:    optionalText(in.Location),
		CreatedBy:   caller.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.jobs.Insert(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create job", err)
	}
	return job, nil
}

// loadOwned fetches a job and checks the caller owns it.
func (s *jobService) loadOwned(ctx context.Context, op string, caller Caller, jobID string) (*models.Job, error) {
	if !validID(jobID) {
		return nil, utils.E(utils.CodeNotFound, op, "Job not found", nil)
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "Job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	if err := requireOwner(op, "Unauthorized access", caller, job.CreatedBy); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *jobService) Update(ctx context.Context, caller Caller, jobID string, patch JobPatch) (*models.Job, error) {
	const op = "JobService.Update"

	job, err := s.loadOwned(ctx, op, caller, jobID)
	if err != nil {
		return nil, err
	}

	// stored fields already satisfy the rules, so validating the merged
	// record checks exactly the provided ones
	merged := JobInput{Title: job.Title, Description: job.Description, Location: job.Location}
	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	switch {
	case patch.ClearLocation:
		merged.Location = nil
	case patch.Location != nil:
		merged.Location = patch.Location
	}
	if msgs := s.validate.Struct(merged); len(msgs) > 0 {
		return nil, utils.Invalid(op, msgs...)
	}

	job.Title = merged.Title
	job.Description = merged.Description
	job.Location = optionalText(merged.Location)

	if err := s.jobs.Update(ctx, job); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "Job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update job", err)
	}
	s.evict(ctx, job.ID)
	return job, nil
}

func (s *jobService) Delete(ctx context.Context, caller Caller, jobID string) error {
	const op = "JobService.Delete"

	job, err := s.loadOwned(ctx, op, caller, jobID)
	if err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, job.ID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "Job not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete job", err)
	}
	s.evict(ctx, job.ID)
	return nil
}

func (s *jobService) Browse(ctx context.Context, f models.JobFilter, p utils.Page) (*Paged[models.JobListing], error) {
	const op = "JobService.Browse"

	p = p.Normalize()
	f.Title = strings.TrimSpace(f.Title)
	f.Location = strings.TrimSpace(f.Location)
	f.CompanyName = strings.TrimSpace(f.CompanyName)

	rows, total, err := s.jobs.Browse(ctx, f, p)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to browse jobs", err)
	}
	return newPaged(rows, p, total), nil
}

func (s *jobService) Get(ctx context.Context, jobID string) (*models.JobListing, error) {
	const op = "JobService.Get"

	if !validID(jobID) {
		return nil, utils.E(utils.CodeNotFound, op, "Job not found", nil)
	}

	var cached models.JobListing
	if hit, err := s.cache.GetJSON(ctx, jobCacheKey(jobID), &cached); err != nil {
		s.log.WithError(err).WithField("job_id", jobID).Warn("job cache read failed")
	} else if hit {
		return &cached, nil
	}

	job, err := s.jobs.GetListing(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "Job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}

	if err := s.cache.SetJSON(ctx, jobCacheKey(jobID), job, s.cacheTTL); err != nil {
		s.log.WithError(err).WithField("job_id", jobID).Warn("job cache write failed")
	}
	return job, nil
}

func (s *jobService) MyJobs(ctx context.Context, caller Caller, p utils.Page) (*Paged[models.OwnedJob], error) {
	const op = "JobService.MyJobs"

	p = p.Normalize()
	rows, total, err := s.jobs.ListByOwner(ctx, caller.ID, p)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	return newPaged(rows, p, total), nil
}

func (s *jobService) evict(ctx context.Context, jobID string) {
	if err := s.cache.Del(ctx, jobCacheKey(jobID)); err != nil {
		s.log.WithError(err).WithField("job_id", jobID).Warn("job cache eviction failed")
	}
}
