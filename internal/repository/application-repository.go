package repository

import (
	"github.com/hirewire/jobboard/internal/domain"
	"gorm.io/gorm"
)

type JobApplicationRepository interface {
	Create(app *domain.JobApplication) error
	FindByID(appID uint) (*domain.JobApplication, error)
	ExistsForAdvert(advertID uint, email string) (bool, error)
	ListByAdvert(advertID uint, limit, offset int) ([]domain.JobApplication, int64, error)
	ListByEmail(email string, limit, offset int) ([]domain.JobApplication, int64, error)
	UpdateStatus(appID uint, status string) error
}

type jobApplicationRepository struct {
	db *gorm.DB
}

func NewJobApplicationRepository(db *gorm.DB) JobApplicationRepository {
	return &jobApplicationRepository{db: db}
}

func (r *jobApplicationRepository) Create(app *domain.JobApplication) error {
	return r.db.Create(app).Error
}

func (r *jobApplicationRepository) FindByID(appID uint) (*domain.JobApplication, error) {
	var app domain.JobApplication
	if err := r.db.Preload("JobAdvert").First(&app, appID).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *jobApplicationRepository) ExistsForAdvert(advertID uint, email string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.JobApplication{}).
		Where("job_advert_id = ? AND LOWER(email) = LOWER(?)", advertID, email).
		Count(&count).Error
	return count > 0, err
}

func (r *jobApplicationRepository) ListByAdvert(advertID uint, limit, offset int) ([]domain.JobApplication, int64, error) {
	var total int64
	err := r.db.Model(&domain.JobApplication{}).
		Where("job_advert_id = ?", advertID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var apps []domain.JobApplication
	err = r.db.Where("job_advert_id = ?", advertID).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (r *jobApplicationRepository) ListByEmail(email string, limit, offset int) ([]domain.JobApplication, int64, error) {
	var total int64
	err := r.db.Model(&domain.JobApplication{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var apps []domain.JobApplication
	err = r.db.Preload("JobAdvert").
		Where("LOWER(email) = LOWER(?)", email).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (r *jobApplicationRepository) UpdateStatus(appID uint, status string) error {
	res := r.db.Model(&domain.JobApplication{}).
		Where("id = ?", appID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
