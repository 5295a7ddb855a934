package domain

import "gorm.io/gorm"

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `json:"-"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`
	IsStaff      bool   `gorm:"not null;default:false" json:"is_staff"`
	gorm.Model
}
