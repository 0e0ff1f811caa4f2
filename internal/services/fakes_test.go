package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/utils"
	"github.com/yoockh/yoojob/internal/validation"
)

func newValidator(t *testing.T) *validation.Validator {
	t.Helper()
	v, err := validation.New()
	require.NoError(t, err)
	return v
}

func quietLogger() logrus.FieldLogger {
	l, _ := test.NewNullLogger()
	return l
}

type fakeUsers struct {
	mu   sync.Mutex
	byID map[string]*models.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[string]*models.User{}} }

func (f *fakeUsers) Insert(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return utils.ErrConflict
		}
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

type fakeJobs struct {
	mu      sync.Mutex
	byID    map[string]*models.Job
	names   map[string]string // owner id -> company name
	apps    *fakeApps
	getHits int
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{byID: map[string]*models.Job{}, names: map[string]string{}}
}

func (f *fakeJobs) put(j models.Job) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[j.ID] = &j
}

func (f *fakeJobs) Insert(_ context.Context, j *models.Job) error {
	f.put(*j)
	return nil
}

func (f *fakeJobs) GetByID(_ context.Context, id string) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (f *fakeJobs) GetListing(ctx context.Context, id string) (*models.JobListing, error) {
	f.mu.Lock()
	f.getHits++
	f.mu.Unlock()
	j, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.JobListing{Job: *j, CompanyName: f.names[j.CreatedBy]}, nil
}

func (f *fakeJobs) Update(_ context.Context, j *models.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[j.ID]; !ok {
		return utils.ErrNotFound
	}
	cp := *j
	f.byID[j.ID] = &cp
	return nil
}

func (f *fakeJobs) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return utils.ErrNotFound
	}
	delete(f.byID, id)
	if f.apps != nil {
		f.apps.dropJob(id)
	}
	return nil
}

func (f *fakeJobs) sorted() []models.Job {
	out := make([]models.Job, 0, len(f.byID))
	for _, j := range f.byID {
		out = append(out, *j)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].ID > out[b].ID
		}
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out
}

func pageOf[T any](rows []T, p utils.Page) []T {
	start := min(p.Offset(), len(rows))
	end := min(start+p.Size, len(rows))
	return rows[start:end]
}

func (f *fakeJobs) Browse(_ context.Context, flt models.JobFilter, p utils.Page) ([]models.JobListing, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	contains := func(have, want string) bool {
		return want == "" || strings.Contains(strings.ToLower(have), strings.ToLower(want))
	}
	var rows []models.JobListing
	for _, j := range f.sorted() {
		loc := ""
		if j.Location != nil {
			loc = *j.Location
		}
		company := f.names[j.CreatedBy]
		if contains(j.Title, flt.Title) && contains(loc, flt.Location) && contains(company, flt.CompanyName) {
			rows = append(rows, models.JobListing{Job: j, CompanyName: company})
		}
	}
	return pageOf(rows, p), int64(len(rows)), nil
}

func (f *fakeJobs) ListByOwner(_ context.Context, ownerID string, p utils.Page) ([]models.OwnedJob, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []models.OwnedJob
	for _, j := range f.sorted() {
		if j.CreatedBy != ownerID {
			continue
		}
		var n int64
		if f.apps != nil {
			n = f.apps.countForJob(j.ID)
		}
		rows = append(rows, models.OwnedJob{Job: j, ApplicationCount: n})
	}
	return pageOf(rows, p), int64(len(rows)), nil
}

type fakeApps struct {
	mu        sync.Mutex
	byID      map[string]*models.Application
	insertErr error

	// hideExisting makes Exists report false so the insert path sees the
	// constraint violation, as with two concurrent submissions
	hideExisting bool
}

func newFakeApps() *fakeApps { return &fakeApps{byID: map[string]*models.Application{}} }

func (f *fakeApps) dropJob(jobID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, a := range f.byID {
		if a.JobID == jobID {
			delete(f.byID, id)
		}
	}
}

func (f *fakeApps) countForJob(jobID string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, a := range f.byID {
		if a.JobID == jobID {
			n++
		}
	}
	return n
}

func (f *fakeApps) Insert(_ context.Context, a *models.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, existing := range f.byID {
		if existing.ApplicantID == a.ApplicantID && existing.JobID == a.JobID {
			return utils.ErrConflict
		}
	}
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeApps) GetByID(_ context.Context, id string) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeApps) Exists(_ context.Context, applicantID, jobID string) (bool, error) {
	if f.hideExisting {
		return false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.ApplicantID == applicantID && a.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApps) UpdateStatus(_ context.Context, id string, status models.ApplicationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return utils.ErrNotFound
	}
	a.Status = status
	return nil
}

func (f *fakeApps) ListByApplicant(_ context.Context, applicantID string, p utils.Page) ([]models.MyApplicationRow, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []models.MyApplicationRow
	for _, a := range f.byID {
		if a.ApplicantID == applicantID {
			rows = append(rows, models.MyApplicationRow{ID: a.ID, JobID: a.JobID, Status: a.Status, AppliedAt: a.AppliedAt})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].AppliedAt.After(rows[j].AppliedAt) })
	return pageOf(rows, p), int64(len(rows)), nil
}

func (f *fakeApps) ListByJob(_ context.Context, jobID string, p utils.Page) ([]models.JobApplicationRow, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []models.JobApplicationRow
	for _, a := range f.byID {
		if a.JobID == jobID {
			rows = append(rows, models.JobApplicationRow{
				ID: a.ID, ApplicantID: a.ApplicantID, ResumeLink: a.ResumeLink,
				CoverLetter: a.CoverLetter, Status: a.Status, AppliedAt: a.AppliedAt,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].AppliedAt.After(rows[j].AppliedAt) })
	return pageOf(rows, p), int64(len(rows)), nil
}

type fakeUploader struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	uploadErr error
}

func newFakeUploader() *fakeUploader { return &fakeUploader{objects: map[string][]byte{}} }

func (f *fakeUploader) Upload(_ context.Context, objectName, _ string, r io.Reader) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[objectName] = b
	return "https://files.test/" + objectName, nil
}

func (f *fakeUploader) Delete(_ context.Context, objectName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, objectName)
	f.deleted = append(f.deleted, objectName)
	return nil
}

type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemCache() *memCache { return &memCache{items: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = b
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

type fakeTimeline struct {
	mu        sync.Mutex
	events    []models.ApplicationEvent
	insertErr error
}

func (f *fakeTimeline) Insert(_ context.Context, e *models.ApplicationEvent) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, *e)
	return nil
}

func (f *fakeTimeline) ListByApplication(_ context.Context, applicationID string, _ int64) ([]models.ApplicationEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ApplicationEvent{}
	for _, e := range f.events {
		if e.ApplicationID == applicationID {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubTokens struct{ err error }

func (s stubTokens) Issue(userID, role string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "tok:" + userID + ":" + role, nil
}

var errBoom = errors.New("boom")
