package repository

import (
	"errors"
	"log"

	"github.com/hirewire/jobboard/internal/domain"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindActiveByEmail(email string) (*domain.User, error)
	FindUserById(userID uint) (*domain.User, error)
	SaveUser(user *domain.User) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindActiveByEmail(email string) (*domain.User, error) {
	user := &domain.User{}

	err := r.db.Where("email = ? AND is_active = ?", email, true).First(user).Error
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) FindUserById(userID uint) (*domain.User, error) {
	user := &domain.User{}

	if err := r.db.First(user, userID).Error; err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) SaveUser(user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}

	if err := r.db.Save(user).Error; err != nil {
		log.Printf("save user error: %v", err)
		return err
	}
	return nil
}
