package repository

import (
	"github.com/hirewire/jobboard/internal/domain"
	"gorm.io/gorm"
)

type JobAdvertRepository interface {
	Create(advert *domain.JobAdvert) error
	FindByID(advertID uint) (*domain.JobAdvert, error)
	Save(advert *domain.JobAdvert) error
	Delete(advertID uint) error
	ListActive(limit, offset int) ([]domain.JobAdvert, int64, error)
	Search(keyword, location string, limit, offset int) ([]domain.JobAdvert, int64, error)
	ListByCreator(userID uint, limit, offset int) ([]domain.JobAdvert, int64, error)
	CountApplicants(advertID uint) (int64, error)
}

type jobAdvertRepository struct {
	db *gorm.DB
}

func NewJobAdvertRepository(db *gorm.DB) JobAdvertRepository {
	return &jobAdvertRepository{db: db}
}

// active scopes the query to published adverts whose deadline has not passed.
func active(db *gorm.DB) *gorm.DB {
	return db.Where("is_published = ? AND deadline >= CURRENT_DATE", true)
}

func (r *jobAdvertRepository) Create(advert *domain.JobAdvert) error {
	return r.db.Create(advert).Error
}

func (r *jobAdvertRepository) FindByID(advertID uint) (*domain.JobAdvert, error) {
	var advert domain.JobAdvert
	if err := r.db.First(&advert, advertID).Error; err != nil {
		return nil, err
	}
	return &advert, nil
}

func (r *jobAdvertRepository) Save(advert *domain.JobAdvert) error {
	return r.db.Save(advert).Error
}

func (r *jobAdvertRepository) Delete(advertID uint) error {
	return r.db.Delete(&domain.JobAdvert{}, advertID).Error
}

func (r *jobAdvertRepository) ListActive(limit, offset int) ([]domain.JobAdvert, int64, error) {
	var adverts []domain.JobAdvert
	var total int64

	q := active(r.db.Model(&domain.JobAdvert{}))
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := active(r.db).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&adverts).Error
	if err != nil {
		return nil, 0, err
	}
	return adverts, total, nil
}

func (r *jobAdvertRepository) Search(keyword, location string, limit, offset int) ([]domain.JobAdvert, int64, error) {
	build := func(db *gorm.DB) *gorm.DB {
		q := active(db)
		if keyword != "" {
			like := "%" + keyword + "%"
			q = q.Where(
				"title ILIKE ? OR company_name ILIKE ? OR description ILIKE ? OR skills ILIKE ?",
				like, like, like, like,
			)
		}
		if location != "" {
			q = q.Where("location ILIKE ?", "%"+location+"%")
		}
		return q
	}

	var total int64
	if err := build(r.db.Model(&domain.JobAdvert{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var adverts []domain.JobAdvert
	err := build(r.db).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&adverts).Error
	if err != nil {
		return nil, 0, err
	}
	return adverts, total, nil
}

func (r *jobAdvertRepository) ListByCreator(userID uint, limit, offset int) ([]domain.JobAdvert, int64, error) {
	var total int64
	err := r.db.Model(&domain.JobAdvert{}).
		Where("created_by_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var adverts []domain.JobAdvert
	err = r.db.Where("created_by_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&adverts).Error
	if err != nil {
		return nil, 0, err
	}
	return adverts, total, nil
}

func (r *jobAdvertRepository) CountApplicants(advertID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.JobApplication{}).
		Where("job_advert_id = ?", advertID).
		Count(&count).Error
	return count, err
}
