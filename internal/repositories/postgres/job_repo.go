package postgres

import (
	"context"

	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/utils"
	"gorm.io/gorm"
)

type JobRepository interface {
	Insert(ctx context.Context, j *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	GetListing(ctx context.Context, id string) (*models.JobListing, error)
	Update(ctx context.Context, j *models.Job) error
	Delete(ctx context.Context, id string) error
	Browse(ctx context.Context, f models.JobFilter, p utils.Page) ([]models.JobListing, int64, error)
	ListByOwner(ctx context.Context, ownerID string, p utils.Page) ([]models.OwnedJob, int64, error)
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Insert(ctx context.Context, j *models.Job) error {
	return translate(r.db.WithContext(ctx).Create(j).Error)
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	var j models.Job
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&j).Error
	if err != nil {
		return nil, translate(err)
	}
	return &j, nil
}

func (r *jobRepo) GetListing(ctx context.Context, id string) (*models.JobListing, error) {
	var rows []models.JobListing
	err := r.db.WithContext(ctx).
		Table("jobs").
		Select("jobs.*, users.name AS company_name").
		Joins("JOIN users ON users.id = jobs.created_by").
		Where("jobs.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, utils.ErrNotFound
	}
	return &rows[0], nil
}

func (r *jobRepo) Update(ctx context.Context, j *models.Job) error {
	res := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ?", j.ID).
		Updates(map[string]any{
			"title":       j.Title,
			"description": j.Description,
			"location":    j.Location,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *jobRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Job{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *jobRepo) Browse(ctx context.Context, f models.JobFilter, p utils.Page) ([]models.JobListing, int64, error) {
	q := r.db.WithContext(ctx).
		Table("jobs").
		Joins("JOIN users ON users.id = jobs.created_by")
	if f.Title != "" {
		q = q.Where("jobs.title ILIKE ?", containsPattern(f.Title))
	}
	if f.Location != "" {
		q = q.Where("jobs.location ILIKE ?", containsPattern(f.Location))
	}
	if f.CompanyName != "" {
		q = q.Where("users.name ILIKE ?", containsPattern(f.CompanyName))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []models.JobListing{}
	err := q.
		Select("jobs.*, users.name AS company_name").
		Order("jobs.created_at DESC, jobs.id DESC").
		Offset(p.Offset()).
		Limit(p.Size).
		Scan(&rows).Error
	return rows, total, err
}

func (r *jobRepo) ListByOwner(ctx context.Context, ownerID string, p utils.Page) ([]models.OwnedJob, int64, error) {
	q := r.db.WithContext(ctx).
		Table("jobs").
		Where("jobs.created_by = ?", ownerID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []models.OwnedJob{}
	err := q.
		Select("jobs.*, (SELECT COUNT(*) FROM applications WHERE applications.job_id = jobs.id) AS application_count").
		Order("jobs.created_at DESC, jobs.id DESC").
		Offset(p.Offset()).
		Limit(p.Size).
		Scan(&rows).Error
	return rows, total, err
}
