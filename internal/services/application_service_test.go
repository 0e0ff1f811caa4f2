package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/utils"
	"github.com/yoockh/yoojob/internal/validation"
)

type appFixture struct {
	svc      ApplicationService
	jobs     *fakeJobs
	apps     *fakeApps
	uploader *fakeUploader
	timeline *fakeTimeline
	job      models.Job
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()
	f := &appFixture{
		jobs:     newFakeJobs(),
		apps:     newFakeApps(),
		uploader: newFakeUploader(),
		timeline: &fakeTimeline{},
	}
	f.jobs.apps = f.apps
	f.job = models.Job{
		ID:          uuid.NewString(),
		Title:       "Backend Engineer",
		Description: "Build and operate the hiring platform APIs.",
		CreatedBy:   companyA.ID,
		CreatedAt:   time.Now().UTC(),
	}
	f.jobs.put(f.job)
	f.svc = NewApplicationService(f.apps, f.jobs, NewResumeGateway(f.uploader, 0, false), newValidator(t), f.timeline, quietLogger())
	return f
}

func (f *appFixture) apply(t *testing.T, caller Caller) *models.Application {
	t.Helper()
	app, err := f.svc.Apply(context.Background(), caller, ApplyInput{JobID: f.job.ID, Resume: pdfResume("cv.pdf")})
	require.NoError(t, err)
	return app
}

func TestApply_Success(t *testing.T) {
	f := newAppFixture(t)

	app, err := f.svc.Apply(context.Background(), applicant, ApplyInput{
		JobID:       f.job.ID,
		CoverLetter: strPtr("Hello there"),
		Resume:      pdfResume("resume.pdf"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApplied, app.Status)
	assert.Equal(t, applicant.ID, app.ApplicantID)
	assert.True(t, strings.HasPrefix(app.ResumeLink, "https://files.test/resumes/"+applicant.ID+"/"))
	assert.Len(t, f.uploader.objects, 1)

	require.Len(t, f.timeline.events, 1)
	assert.Equal(t, models.EventSubmitted, f.timeline.events[0].Type)
	assert.Equal(t, app.ID, f.timeline.events[0].ApplicationID)
}

func TestApply_Validation(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()

	t.Run("collects every missing field", func(t *testing.T) {
		_, err := f.svc.Apply(ctx, applicant, ApplyInput{CoverLetter: strPtr(strings.Repeat("a", 201))})
		var ae *utils.AppError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, utils.CodeInvalidArgument, ae.Code)
		assert.Equal(t, []string{MsgJobIDRequired, MsgResumeRequired, MsgCoverLetterLen}, ae.Details)
	})

	t.Run("cover letter of exactly 200 is fine", func(t *testing.T) {
		_, err := f.svc.Apply(ctx, applicant, ApplyInput{
			JobID: f.job.ID, CoverLetter: strPtr(strings.Repeat("a", 200)), Resume: pdfResume("cv.pdf"),
		})
		assert.NoError(t, err)
	})

	t.Run("non pdf", func(t *testing.T) {
		_, err := f.svc.Apply(ctx, Caller{ID: uuid.NewString(), Role: models.RoleApplicant}, ApplyInput{
			JobID: f.job.ID, Resume: pdfResume("cv.txt"),
		})
		var ae *utils.AppError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, MsgResumeNotPDF, ae.Message)
		assert.Equal(t, []string{MsgResumeNotPDF}, ae.Messages())
	})

	t.Run("unknown job", func(t *testing.T) {
		_, err := f.svc.Apply(ctx, applicant, ApplyInput{JobID: uuid.NewString(), Resume: pdfResume("cv.pdf")})
		assert.True(t, utils.IsCode(err, utils.CodeNotFound))
		_, err = f.svc.Apply(ctx, applicant, ApplyInput{JobID: "42", Resume: pdfResume("cv.pdf")})
		assert.True(t, utils.IsCode(err, utils.CodeNotFound))
	})
}

func TestApply_Duplicate(t *testing.T) {
	f := newAppFixture(t)
	f.apply(t, applicant)

	_, err := f.svc.Apply(context.Background(), applicant, ApplyInput{JobID: f.job.ID, Resume: pdfResume("cv.pdf")})
	var ae *utils.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, utils.CodeConflict, ae.Code)
	assert.Equal(t, []string{MsgAlreadyApplied}, ae.Messages())
	assert.Len(t, f.uploader.objects, 1, "a rejected duplicate uploads nothing")
}

func TestApply_ConcurrentDuplicateRemovesUpload(t *testing.T) {
	f := newAppFixture(t)
	f.apply(t, applicant)
	f.apps.hideExisting = true

	_, err := f.svc.Apply(context.Background(), applicant, ApplyInput{JobID: f.job.ID, Resume: pdfResume("cv.pdf")})
	assert.True(t, utils.IsCode(err, utils.CodeConflict))
	assert.Len(t, f.uploader.deleted, 1)
	assert.Len(t, f.uploader.objects, 1)
}

func TestApply_ParallelSubmissionsYieldOneRow(t *testing.T) {
	f := newAppFixture(t)
	f.apps.hideExisting = true

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Apply(context.Background(), applicant, ApplyInput{JobID: f.job.ID, Resume: pdfResume("cv.pdf")})
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, utils.IsCode(err, utils.CodeConflict))
	}
	assert.Equal(t, 1, ok)
	assert.EqualValues(t, 1, f.apps.countForJob(f.job.ID))
}

func TestApply_UploadFailure(t *testing.T) {
	f := newAppFixture(t)
	f.uploader.uploadErr = errBoom

	_, err := f.svc.Apply(context.Background(), applicant, ApplyInput{JobID: f.job.ID, Resume: pdfResume("cv.pdf")})
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
	assert.EqualValues(t, 0, f.apps.countForJob(f.job.ID))
}

func TestApply_TimelineFailureIsNotFatal(t *testing.T) {
	f := newAppFixture(t)
	f.timeline.insertErr = errBoom

	app := f.apply(t, applicant)
	assert.Equal(t, models.StatusApplied, app.Status)
}

func TestForJob(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()
	f.apply(t, applicant)
	f.apply(t, Caller{ID: uuid.NewString(), Role: models.RoleApplicant})

	page, err := f.svc.ForJob(ctx, companyA, f.job.ID, utils.Page{Number: 1, Size: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Len(t, page.Items, 1)

	_, err = f.svc.ForJob(ctx, companyB, f.job.ID, utils.Page{})
	var ae *utils.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, utils.CodeForbidden, ae.Code)
	assert.Equal(t, "Unauthorized access", ae.Message)

	_, err = f.svc.ForJob(ctx, companyA, uuid.NewString(), utils.Page{})
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestMyApplications(t *testing.T) {
	f := newAppFixture(t)
	f.apply(t, applicant)
	f.apply(t, Caller{ID: uuid.NewString(), Role: models.RoleApplicant})

	page, err := f.svc.MyApplications(context.Background(), applicant, utils.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, f.job.ID, page.Items[0].JobID)
}

func TestUpdateStatus(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()
	app := f.apply(t, applicant)

	t.Run("owner moves through any status", func(t *testing.T) {
		for _, st := range []string{"Hired", "Applied", "Interview"} {
			got, err := f.svc.UpdateStatus(ctx, companyA, app.ID, st)
			require.NoError(t, err)
			assert.Equal(t, models.ApplicationStatus(st), got.Status)
		}
		stored, err := f.apps.GetByID(ctx, app.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusInterview, stored.Status)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(ctx, companyA, app.ID, "Pending")
		var ae *utils.AppError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, utils.CodeInvalidArgument, ae.Code)
		assert.Equal(t, validation.MsgStatus, ae.Message)
		assert.Equal(t, []string{validation.MsgStatus}, ae.Messages())

		_, err = f.svc.UpdateStatus(ctx, companyA, app.ID, "  ")
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, []string{validation.MsgStatus}, ae.Messages())
	})

	t.Run("non owner", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(ctx, companyB, app.ID, "Rejected")
		var ae *utils.AppError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, utils.CodeForbidden, ae.Code)
		assert.Equal(t, "Unauthorized", ae.Message)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(ctx, companyA, uuid.NewString(), "Rejected")
		assert.True(t, utils.IsCode(err, utils.CodeNotFound))
	})
}

func TestTimeline(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()
	app := f.apply(t, applicant)

	_, err := f.svc.UpdateStatus(ctx, companyA, app.ID, "Reviewed")
	require.NoError(t, err)

	events, err := f.svc.Timeline(ctx, applicant, app.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventSubmitted, events[0].Type)
	assert.Equal(t, models.EventStatusChanged, events[1].Type)
	assert.Equal(t, models.StatusApplied, events[1].FromStatus)
	assert.Equal(t, models.StatusReviewed, events[1].ToStatus)

	_, err = f.svc.Timeline(ctx, companyA, app.ID)
	assert.NoError(t, err)

	_, err = f.svc.Timeline(ctx, companyB, app.ID)
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))

	noStore := NewApplicationService(f.apps, f.jobs, NewResumeGateway(f.uploader, 0, false), newValidator(t), nil, quietLogger())
	events, err = noStore.Timeline(ctx, applicant, app.ID)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDeletingJobRemovesItsApplications(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()
	app := f.apply(t, applicant)

	jobs := NewJobService(f.jobs, newValidator(t), nil, 0, quietLogger())
	require.NoError(t, jobs.Delete(ctx, companyA, f.job.ID))

	_, err := f.svc.UpdateStatus(ctx, companyA, app.ID, "Hired")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}
