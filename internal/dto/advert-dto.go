package dto

import "time"

type AdvertRequest struct {
	Title           string   `json:"title" validate:"required"`
	CompanyName     string   `json:"company_name" validate:"required"`
	EmploymentType  string   `json:"employment_type" validate:"required"`
	ExperienceLevel string   `json:"experience_level" validate:"required"`
	Description     string   `json:"description" validate:"required"`
	WorkMode        string   `json:"work_mode" validate:"required,oneof=Onsite Remote Hybrid"`
	Salary          *float64 `json:"salary,omitempty"`
	Location        *string  `json:"location,omitempty"`
	IsPublished     *bool    `json:"is_published,omitempty"`
	Deadline        string   `json:"deadline" validate:"required"` // YYYY-MM-DD
	Skills          string   `json:"skills"`
}

type AdvertResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	CompanyName     string    `json:"company_name"`
	EmploymentType  string    `json:"employment_type"`
	ExperienceLevel string    `json:"experience_level"`
	Description     string    `json:"description"`
	WorkMode        string    `json:"work_mode"`
	Salary          *float64  `json:"salary,omitempty"`
	Location        *string   `json:"location,omitempty"`
	IsPublished     bool      `json:"is_published"`
	Deadline        time.Time `json:"deadline"`
	Skills          []string  `json:"skills"`
	TotalApplicants int64     `json:"total_applicants"`
}

type AdvertPage struct {
	Adverts  []AdvertResponse `json:"adverts"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

type ApplicationInput struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	PortfolioURL string `json:"portfolio_url"`
	CVFilename   string `json:"-"`
	CVBytes      []byte `json:"-"`
}

type ApplicationResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PortfolioURL string `json:"portfolio_url"`
	CVURL        string `json:"cv_url"`
	Status       string `json:"status"`
	JobAdvertID  uint   `json:"job_advert_id"`
	JobTitle     string `json:"job_title,omitempty"`
}

type ApplicationPage struct {
	Applications []ApplicationResponse `json:"applications"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
}

type DecisionRequest struct {
	Status string `json:"status" validate:"required,oneof=APPLIED INTERVIEW REJECTED HIRED"`
}
