package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const TokenKindPasswordReset = "PASSWORD_RESET"

const tokenLifetime = 20 * time.Minute

// Token is a single-use credential mailed to a user. One live token per
// (user, kind); requesting a new one replaces the old row.
type Token struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;uniqueIndex:uidx_tokens_user_kind" json:"user_id"`
	User     User      `json:"-"`
	Value    string    `gorm:"type:varchar(64);not null" json:"-"`
	Kind     string    `gorm:"type:varchar(50);not null;uniqueIndex:uidx_tokens_user_kind" json:"kind"`
	IssuedAt time.Time `gorm:"not null" json:"issued_at"`
	gorm.Model
}

func (t *Token) IsValid() bool {
	return time.Since(t.IssuedAt).Seconds() <= tokenLifetime.Seconds()
}
