package domain

import (
	"time"

	"gorm.io/gorm"
)

// codeLifetime is how long a verification code stays redeemable after issue.
const codeLifetime = 20 * time.Minute

// PendingUser holds a signup that has not confirmed its email yet. There is
// at most one row per email; re-registering refreshes the code in place.
type PendingUser struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Email            string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string    `json:"-"`
	VerificationCode string    `gorm:"type:varchar(16);not null" json:"-"`
	CodeIssuedAt     time.Time `gorm:"not null" json:"code_issued_at"`
	gorm.Model
}

func (p *PendingUser) IsValid() bool {
	return time.Since(p.CodeIssuedAt).Seconds() <= codeLifetime.Seconds()
}
