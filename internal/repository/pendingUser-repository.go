package repository

import (
	"github.com/hirewire/jobboard/internal/domain"
	"gorm.io/gorm"
)

type PendingUserRepository interface {
	Create(pending *domain.PendingUser) error
	FindByEmail(email string) (*domain.PendingUser, error)
	FindByEmailAndCode(email, code string) (*domain.PendingUser, error)
	Save(pending *domain.PendingUser) error

	// Promote turns a pending registration into an active user: the user row
	// is created with the pending password hash copied verbatim and the
	// pending row is deleted, both in one transaction. A concurrent promote
	// of the same row loses on the delete row count and gets
	// gorm.ErrRecordNotFound, so at most one active user can come out of a
	// pending registration.
	Promote(pending *domain.PendingUser) (*domain.User, error)
}

type pendingUserRepository struct {
	db *gorm.DB
}

func NewPendingUserRepository(db *gorm.DB) PendingUserRepository {
	return &pendingUserRepository{db: db}
}

func (r *pendingUserRepository) Create(pending *domain.PendingUser) error {
	return r.db.Create(pending).Error
}

func (r *pendingUserRepository) FindByEmail(email string) (*domain.PendingUser, error) {
	var pending domain.PendingUser
	if err := r.db.Where("email = ?", email).First(&pending).Error; err != nil {
		return nil, err
	}
	return &pending, nil
}

func (r *pendingUserRepository) FindByEmailAndCode(email, code string) (*domain.PendingUser, error) {
	var pending domain.PendingUser
	err := r.db.Where("email = ? AND verification_code = ?", email, code).First(&pending).Error
	if err != nil {
		return nil, err
	}
	return &pending, nil
}

func (r *pendingUserRepository) Save(pending *domain.PendingUser) error {
	return r.db.Save(pending).Error
}

func (r *pendingUserRepository) Promote(pending *domain.PendingUser) (*domain.User, error) {
	user := &domain.User{
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		IsActive:     true,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().Delete(&domain.PendingUser{}, pending.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Create(user).Error
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}
