package postgres

import (
	"context"

	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/utils"
	"gorm.io/gorm"
)

type ApplicationRepository interface {
	Insert(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	Exists(ctx context.Context, applicantID, jobID string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error
	ListByApplicant(ctx context.Context, applicantID string, p utils.Page) ([]models.MyApplicationRow, int64, error)
	ListByJob(ctx context.Context, jobID string, p utils.Page) ([]models.JobApplicationRow, int64, error)
}

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

// Insert relies on the unique_application constraint; a concurrent duplicate
// comes back as utils.ErrConflict.
func (r *applicationRepo) Insert(ctx context.Context, a *models.Application) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var a models.Application
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *applicationRepo) Exists(ctx context.Context, applicantID, jobID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("applicant_id = ? AND job_id = ?", applicantID, jobID).
		Count(&count).Error
	return count > 0, err
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) ListByApplicant(ctx context.Context, applicantID string, p utils.Page) ([]models.MyApplicationRow, int64, error) {
	q := r.db.WithContext(ctx).
		Table("applications").
		Where("applications.applicant_id = ?", applicantID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []models.MyApplicationRow{}
	err := q.
		Select("applications.id, applications.job_id, jobs.title AS job_title, users.name AS company_name, applications.status, applications.applied_at").
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Joins("JOIN users ON users.id = jobs.created_by").
		Order("applications.applied_at DESC, applications.id DESC").
		Offset(p.Offset()).
		Limit(p.Size).
		Scan(&rows).Error
	return rows, total, err
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID string, p utils.Page) ([]models.JobApplicationRow, int64, error) {
	q := r.db.WithContext(ctx).
		Table("applications").
		Where("applications.job_id = ?", jobID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []models.JobApplicationRow{}
	err := q.
		Select("applications.id, applications.applicant_id, users.name AS applicant_name, applications.resume_link, applications.cover_letter, applications.status, applications.applied_at").
		Joins("JOIN users ON users.id = applications.applicant_id").
		Order("applications.applied_at DESC, applications.id DESC").
		Offset(p.Offset()).
		Limit(p.Size).
		Scan(&rows).Error
	return rows, total, err
}
