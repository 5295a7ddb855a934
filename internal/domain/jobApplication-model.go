package domain

import "gorm.io/gorm"

const (
	ApplicationApplied   = "APPLIED"
	ApplicationInterview = "INTERVIEW"
	ApplicationRejected  = "REJECTED"
	ApplicationHired     = "HIRED"
)

type JobApplication struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(150);not null" json:"name"`
	Email        string    `gorm:"index;not null" json:"email"`
	PortfolioURL string    `json:"portfolio_url"`
	CVURL        string    `json:"cv_url"`
	Status       string    `gorm:"type:varchar(50);not null;default:APPLIED" json:"status"`
	JobAdvertID  uint      `gorm:"index;not null" json:"job_advert_id"`
	JobAdvert    JobAdvert `json:"-"`
	gorm.Model
}

func IsDecisionStatus(status string) bool {
	switch status {
	case ApplicationApplied, ApplicationInterview, ApplicationRejected, ApplicationHired:
		return true
	}
	return false
}
