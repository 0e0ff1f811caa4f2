package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/yoojob/internal/models"
	pgrepo "github.com/yoockh/yoojob/internal/repositories/postgres"
	"github.com/yoockh/yoojob/internal/utils"
	"github.com/yoockh/yoojob/internal/validation"
)

const (
	MsgJobIDRequired  = "Job ID is required."
	MsgResumeRequired = "Resume file is required."
	MsgCoverLetterLen = "Cover letter must be under 200 characters."
	MsgAlreadyApplied = "You have already applied to this job."
)

const (
	msgUnauthorized     = "Unauthorized"
	msgUnauthorizedJob  = "Unauthorized access"
	msgApplicationMiss  = "Application not found"
	msgDuplicateApplied = "Duplicate application"

	timelineFetchLimit = 200
)

// TimelineStore records application events. It is optional.
type TimelineStore interface {
	Insert(ctx context.Context, e *models.ApplicationEvent) error
	ListByApplication(ctx context.Context, applicationID string, limit int64) ([]models.ApplicationEvent, error)
}

type ApplyInput struct {
	JobID       string
	CoverLetter *string
	Resume      *Resume
}

type statusInput struct {
	Status models.ApplicationStatus `json:"status" validate:"appstatus"`
}

type ApplicationService interface {
	Apply(ctx context.Context, caller Caller, in ApplyInput) (*models.Application, error)
	MyApplications(ctx context.Context, caller Caller, p utils.Page) (*Paged[models.MyApplicationRow], error)
	ForJob(ctx context.Context, caller Caller, jobID string, p utils.Page) (*Paged[models.JobApplicationRow], error)
	UpdateStatus(ctx context.Context, caller Caller, applicationID string, status string) (*models.Application, error)
	Timeline(ctx context.Context, caller Caller, applicationID string) ([]models.ApplicationEvent, error)
}

type applicationService struct {
	apps     pgrepo.ApplicationRepository
	jobs     pgrepo.JobRepository
	resumes  ResumeGateway
	validate *validation.Validator
	timeline TimelineStore
	log      logrus.FieldLogger
}

// NewApplicationService wires the tracker. timeline may be nil.
func NewApplicationService(apps pgrepo.ApplicationRepository, jobs pgrepo.JobRepository, resumes ResumeGateway, validate *validation.Validator, timeline TimelineStore, log logrus.FieldLogger) ApplicationService {
	return &applicationService{apps: apps, jobs: jobs, resumes: resumes, validate: validate, timeline: timeline, log: log}
}

func (s *applicationService) Apply(ctx context.Context, caller Caller, in ApplyInput) (*models.Application, error) {
	const op = "ApplicationService.Apply"

	in.JobID = strings.TrimSpace(in.JobID)
	var msgs []string
	if in.JobID == "" {
		msgs = append(msgs, MsgJobIDRequired)
	}
	if in.Resume == nil {
		msgs = append(msgs, MsgResumeRequired)
	}
	if in.CoverLetter != nil && utf8.RuneCountInString(*in.CoverLetter) > models.MaxCoverLetterLen {
		msgs = append(msgs, MsgCoverLetterLen)
	}
	if len(msgs) > 0 {
		return nil, utils.Invalid(op, msgs...)
	}

	if !validID(in.JobID) {
		return nil, utils.E(utils.CodeNotFound, op, "Job not found", nil)
	}
	job, err := s.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "Job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}

	exists, err := s.apps.Exists(ctx, caller.ID, job.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to check application", err)
	}
	if exists {
		return nil, utils.EWith(utils.CodeConflict, op, msgDuplicateApplied, []string{MsgAlreadyApplied}, nil)
	}

	if err := s.resumes.Validate(in.Resume); err != nil {
		return nil, err
	}
	objectName, link, err := s.resumes.Store(ctx, caller.ID, in.Resume)
	if err != nil {
		return nil, err
	}

	app := &models.Application{
		ID:          uuid.NewString(),
		ApplicantID: caller.ID,
		JobID:       job.ID,
		ResumeLink:  link,
		CoverLetter: optionalText(in.CoverLetter),
		Status:      models.StatusApplied,
		AppliedAt:   time.Now().UTC(),
	}
	if err := s.apps.Insert(ctx, app); err != nil {
		if rmErr := s.resumes.Remove(ctx, objectName); rmErr != nil {
			s.log.WithError(rmErr).WithField("object", objectName).Warn("orphaned resume not removed")
		}
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.EWith(utils.CodeConflict, op, msgDuplicateApplied, []string{MsgAlreadyApplied}, err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create application", err)
	}

	s.record(ctx, &models.ApplicationEvent{
		ApplicationID: app.ID,
		JobID:         job.ID,
		ActorID:       caller.ID,
		Type:          models.EventSubmitted,
		ToStatus:      app.Status,
		Timestamp:     app.AppliedAt,
	})
	return app, nil
}

func (s *applicationService) MyApplications(ctx context.Context, caller Caller, p utils.Page) (*Paged[models.MyApplicationRow], error) {
	const op = "ApplicationService.MyApplications"

	p = p.Normalize()
	rows, total, err := s.apps.ListByApplicant(ctx, caller.ID, p)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return newPaged(rows, p, total), nil
}

func (s *applicationService) ForJob(ctx context.Context, caller Caller, jobID string, p utils.Page) (*Paged[models.JobApplicationRow], error) {
	const op = "ApplicationService.ForJob"

	job, err := s.loadJob(ctx, op, jobID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(op, msgUnauthorizedJob, caller, job.CreatedBy); err != nil {
		return nil, err
	}

	p = p.Normalize()
	rows, total, err := s.apps.ListByJob(ctx, job.ID, p)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return newPaged(rows, p, total), nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, caller Caller, applicationID string, status string) (*models.Application, error) {
	const op = "ApplicationService.UpdateStatus"

	next := models.ApplicationStatus(strings.TrimSpace(status))
	if msgs := s.validate.Struct(statusInput{Status: next}); len(msgs) > 0 {
		return nil, utils.EWith(utils.CodeInvalidArgument, op, validation.MsgStatus, msgs, nil)
	}

	app, job, err := s.loadApplication(ctx, op, applicationID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(op, msgUnauthorized, caller, job.CreatedBy); err != nil {
		return nil, err
	}

	prev := app.Status
	if err := s.apps.UpdateStatus(ctx, app.ID, next); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, msgApplicationMiss, err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update status", err)
	}
	app.Status = next

	s.record(ctx, &models.ApplicationEvent{
		ApplicationID: app.ID,
		JobID:         app.JobID,
		ActorID:       caller.ID,
		Type:          models.EventStatusChanged,
		FromStatus:    prev,
		ToStatus:      next,
		Timestamp:     time.Now().UTC(),
	})
	return app, nil
}

func (s *applicationService) Timeline(ctx context.Context, caller Caller, applicationID string) ([]models.ApplicationEvent, error) {
	const op = "ApplicationService.Timeline"

	app, job, err := s.loadApplication(ctx, op, applicationID)
	if err != nil {
		return nil, err
	}
	if !OwnsResource(caller.ID, app.ApplicantID) && !OwnsResource(caller.ID, job.CreatedBy) {
		return nil, utils.E(utils.CodeForbidden, op, msgUnauthorized, nil)
	}

	if s.timeline == nil {
		return []models.ApplicationEvent{}, nil
	}
	events, err := s.timeline.ListByApplication(ctx, app.ID, timelineFetchLimit)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "Timeline unavailable", err)
	}
	return events, nil
}

func (s *applicationService) loadJob(ctx context.Context, op, jobID string) (*models.Job, error) {
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
	return job, nil
}

// loadApplication returns the application with the job it references.
func (s *applicationService) loadApplication(ctx context.Context, op, applicationID string) (*models.Application, *models.Job, error) {
	if !validID(applicationID) {
		return nil, nil, utils.E(utils.CodeNotFound, op, msgApplicationMiss, nil)
	}
	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, nil, utils.E(utils.CodeNotFound, op, msgApplicationMiss, err)
		}
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to load application", err)
	}
	job, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		// applications cascade with their job, so a missing job means the
		// application is gone too
		if errors.Is(err, utils.ErrNotFound) {
			return nil, nil, utils.E(utils.CodeNotFound, op, msgApplicationMiss, err)
		}
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	return app, job, nil
}

// record appends to the timeline. Failures are logged, never returned: the
// relational write already succeeded.
func (s *applicationService) record(ctx context.Context, e *models.ApplicationEvent) {
	if s.timeline == nil {
		return
	}
	if err := s.timeline.Insert(ctx, e); err != nil {
		s.log.WithError(err).
			WithField("application_id", e.ApplicationID).
			WithField("event", e.Type).
			Warn("timeline event not recorded")
	}
}
