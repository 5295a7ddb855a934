package domain

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	EmploymentFullTime   = "Full Time"
	EmploymentPartTime   = "Part Time"
	EmploymentContract   = "Contract"
	EmploymentInternship = "Internship"
	EmploymentTemporary  = "Temporary"
	EmploymentVolunteer  = "Volunteer"
	EmploymentOther      = "Other"
)

const (
	ExperienceEntry     = "Entry Level"
	ExperienceMid       = "Mid Level"
	ExperienceSenior    = "Senior Level"
	ExperienceExecutive = "Executive Level"
	ExperienceOther     = "Other"
)

const (
	WorkModeOnsite = "Onsite"
	WorkModeRemote = "Remote"
	WorkModeHybrid = "Hybrid"
)

type JobAdvert struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"type:varchar(150);not null" json:"title"`
	CompanyName     string     `gorm:"type:varchar(150);not null" json:"company_name"`
	EmploymentType  string     `gorm:"type:varchar(50);not null" json:"employment_type"`
	ExperienceLevel string     `gorm:"type:varchar(50);not null" json:"experience_level"`
	Description     string     `gorm:"type:text;not null" json:"description"`
	WorkMode        string     `gorm:"type:varchar(50);not null" json:"work_mode"`
	Salary          *float64   `gorm:"type:numeric(10,2)" json:"salary,omitempty"`
	Location        *string    `json:"location,omitempty"`
	IsPublished     bool       `gorm:"not null;default:true" json:"is_published"`
	Deadline        time.Time  `gorm:"type:date;not null" json:"deadline"`
	Skills          string     `json:"skills"` // comma separated
	CreatedByID     uint       `gorm:"index;not null" json:"created_by"`
	CreatedBy       User       `json:"-"`
	gorm.Model
}

// IsActive reports whether the advert still accepts applications: published
// and the deadline date has not passed.
func (a *JobAdvert) IsActive() bool {
	today := time.Now().Truncate(24 * time.Hour)
	return a.IsPublished && !a.Deadline.Before(today)
}

func (a *JobAdvert) SkillsList() []string {
	if strings.TrimSpace(a.Skills) == "" {
		return nil
	}
	parts := strings.Split(a.Skills, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
