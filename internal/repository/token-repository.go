package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/hirewire/jobboard/internal/domain"
	"gorm.io/gorm"
)

type TokenRepository interface {
	// Replace deletes any live token of the same kind for the user and
	// inserts a fresh one in a single transaction, keeping at most one live
	// token per (user, kind).
	Replace(userID uint, kind, value string) (*domain.Token, error)

	// FindForUser resolves a token by the owner's email plus value and kind.
	FindForUser(email, value, kind string) (*domain.Token, error)

	CountForUser(userID uint, kind string) (int64, error)

	// Redeem updates the owning user's password hash and deletes the token,
	// both in one transaction. Returns gorm.ErrRecordNotFound when the token
	// was already consumed by a concurrent request.
	Redeem(token *domain.Token, passwordHash string) error
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Replace(userID uint, kind, value string) (*domain.Token, error) {
	token := &domain.Token{
		ID:       uuid.New(),
		UserID:   userID,
		Value:    value,
		Kind:     kind,
		IssuedAt: time.Now(),
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Unscoped().
			Where("user_id = ? AND kind = ?", userID, kind).
			Delete(&domain.Token{}).Error
		if err != nil {
			return err
		}
		return tx.Create(token).Error
	})
	if err != nil {
		return nil, err
	}

	return token, nil
}

func (r *tokenRepository) FindForUser(email, value, kind string) (*domain.Token, error) {
	var token domain.Token
	err := r.db.
		Joins("JOIN users ON users.id = tokens.user_id").
		Where("users.email = ? AND tokens.value = ? AND tokens.kind = ?", email, value, kind).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) CountForUser(userID uint, kind string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Token{}).
		Where("user_id = ? AND kind = ?", userID, kind).
		Count(&count).Error
	return count, err
}

func (r *tokenRepository) Redeem(token *domain.Token, passwordHash string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().Delete(&domain.Token{}, "id = ?", token.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&domain.User{}).
			Where("id = ?", token.UserID).
			Update("password_hash", passwordHash).Error
	})
}
