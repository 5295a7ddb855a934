package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hirewire/jobboard/internal/domain"
	"github.com/hirewire/jobboard/internal/dto"
	"github.com/hirewire/jobboard/internal/errs"
	"github.com/hirewire/jobboard/internal/interfaces"
	"github.com/hirewire/jobboard/internal/notify"
	"github.com/hirewire/jobboard/internal/repository"
	"gorm.io/gorm"
)

const advertPageSize = 10

type AdvertService interface {
	CreateAdvert(userID uint, input dto.AdvertRequest) (*domain.JobAdvert, error)
	GetAdvert(advertID uint) (*dto.AdvertResponse, error)
	UpdateAdvert(userID, advertID uint, input dto.AdvertRequest) (*domain.JobAdvert, error)
	DeleteAdvert(userID, advertID uint) error
	ListAdverts(page int) (*dto.AdvertPage, error)
	Search(keyword, location string, page int) (*dto.AdvertPage, error)
	MyJobs(userID uint, page int) (*dto.AdvertPage, error)

	Apply(ctx context.Context, advertID uint, input dto.ApplicationInput) (*domain.JobApplication, error)
	MyApplications(email string, page int) (*dto.ApplicationPage, error)
	AdvertApplications(userID, advertID uint, page int) (*dto.ApplicationPage, error)
	Decide(userID, applicationID uint, status string) error
}

type advertService struct {
	adverts      repository.JobAdvertRepository
	applications repository.JobApplicationRepository
	uploader     interfaces.Uploader
	notifier     notify.Notifier
}

func NewAdvertService(
	adverts repository.JobAdvertRepository,
	applications repository.JobApplicationRepository,
	uploader interfaces.Uploader,
	notifier notify.Notifier,
) AdvertService {
	return &advertService{
		adverts:      adverts,
		applications: applications,
		uploader:     uploader,
		notifier:     notifier,
	}
}

func parseDeadline(raw string) (time.Time, error) {
	deadline, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, errs.ErrInvalidInput
	}
	return deadline, nil
}

func advertFromInput(input dto.AdvertRequest) (*domain.JobAdvert, error) {
	title := strings.TrimSpace(input.Title)
	company := strings.TrimSpace(input.CompanyName)
	description := strings.TrimSpace(input.Description)
	if title == "" || company == "" || description == "" {
		return nil, errs.ErrInvalidInput
	}

	deadline, err := parseDeadline(input.Deadline)
	if err != nil {
		return nil, err
	}

	published := true
	if input.IsPublished != nil {
		published = *input.IsPublished
	}

	return &domain.JobAdvert{
		Title:           title,
		CompanyName:     company,
		EmploymentType:  strings.TrimSpace(input.EmploymentType),
		ExperienceLevel: strings.TrimSpace(input.ExperienceLevel),
		Description:     description,
		WorkMode:        strings.TrimSpace(input.WorkMode),
		Salary:          input.Salary,
		Location:        input.Location,
		IsPublished:     published,
		Deadline:        deadline,
		Skills:          strings.TrimSpace(input.Skills),
	}, nil
}

func (s *advertService) CreateAdvert(userID uint, input dto.AdvertRequest) (*domain.JobAdvert, error) {
	if userID == 0 {
		return nil, errs.ErrForbidden
	}

	advert, err := advertFromInput(input)
	if err != nil {
		return nil, err
	}
	advert.CreatedByID = userID

	if err := s.adverts.Create(advert); err != nil {
		return nil, err
	}
	return advert, nil
}

func (s *advertService) GetAdvert(advertID uint) (*dto.AdvertResponse, error) {
	advert, err := s.adverts.FindByID(advertID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrAdvertNotFound
		}
		return nil, err
	}

	applicants, err := s.adverts.CountApplicants(advertID)
	if err != nil {
		return nil, err
	}

	resp := advertResponse(*advert)
	resp.TotalApplicants = applicants
	return &resp, nil
}

// loadOwnedAdvert resolves an advert and enforces that userID created it.
func (s *advertService) loadOwnedAdvert(userID, advertID uint) (*domain.JobAdvert, error) {
	advert, err := s.adverts.FindByID(advertID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrAdvertNotFound
		}
		return nil, err
	}
	if advert.CreatedByID != userID {
		return nil, errs.ErrForbidden
	}
	return advert, nil
}

func (s *advertService) UpdateAdvert(userID, advertID uint, input dto.AdvertRequest) (*domain.JobAdvert, error) {
	advert, err := s.loadOwnedAdvert(userID, advertID)
	if err != nil {
		return nil, err
	}

	updated, err := advertFromInput(input)
	if err != nil {
		return nil, err
	}

	advert.Title = updated.Title
	advert.CompanyName = updated.CompanyName
	advert.EmploymentType = updated.EmploymentType
	advert.ExperienceLevel = updated.ExperienceLevel
	advert.Description = updated.Description
	advert.WorkMode = updated.WorkMode
	advert.Salary = updated.Salary
	advert.Location = updated.Location
	advert.IsPublished = updated.IsPublished
	advert.Deadline = updated.Deadline
	advert.Skills = updated.Skills

	if err := s.adverts.Save(advert); err != nil {
		return nil, err
	}
	return advert, nil
}

func (s *advertService) DeleteAdvert(userID, advertID uint) error {
	if _, err := s.loadOwnedAdvert(userID, advertID); err != nil {
		return err
	}
	return s.adverts.Delete(advertID)
}

func pageBounds(page int) (limit, offset, normalized int) {
	if page < 1 {
		page = 1
	}
	return advertPageSize, (page - 1) * advertPageSize, page
}

func advertResponse(a domain.JobAdvert) dto.AdvertResponse {
	return dto.AdvertResponse{
		ID:              a.ID,
		Title:           a.Title,
		CompanyName:     a.CompanyName,
		EmploymentType:  a.EmploymentType,
		ExperienceLevel: a.ExperienceLevel,
		Description:     a.Description,
		WorkMode:        a.WorkMode,
		Salary:          a.Salary,
		Location:        a.Location,
		IsPublished:     a.IsPublished,
		Deadline:        a.Deadline,
		Skills:          a.SkillsList(),
	}
}

func advertPage(adverts []domain.JobAdvert, total int64, page int) *dto.AdvertPage {
	out := make([]dto.AdvertResponse, 0, len(adverts))
	for _, a := range adverts {
		out = append(out, advertResponse(a))
	}
	return &dto.AdvertPage{
		Adverts:  out,
		Total:    total,
		Page:     page,
		PageSize: advertPageSize,
	}
}

func (s *advertService) ListAdverts(page int) (*dto.AdvertPage, error) {
	limit, offset, page := pageBounds(page)
	adverts, total, err := s.adverts.ListActive(limit, offset)
	if err != nil {
		return nil, err
	}
	return advertPage(adverts, total, page), nil
}

func (s *advertService) Search(keyword, location string, page int) (*dto.AdvertPage, error) {
	limit, offset, page := pageBounds(page)
	adverts, total, err := s.adverts.Search(
		strings.TrimSpace(keyword), strings.TrimSpace(location), limit, offset)
	if err != nil {
		return nil, err
	}
	return advertPage(adverts, total, page), nil
}

func (s *advertService) MyJobs(userID uint, page int) (*dto.AdvertPage, error) {
	limit, offset, page := pageBounds(page)
	adverts, total, err := s.adverts.ListByCreator(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return advertPage(adverts, total, page), nil
}

func (s *advertService) Apply(ctx context.Context, advertID uint, input dto.ApplicationInput) (*domain.JobApplication, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" || email == "" {
		return nil, errs.ErrInvalidInput
	}

	advert, err := s.adverts.FindByID(advertID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrAdvertNotFound
		}
		return nil, err
	}

	exists, err := s.applications.ExistsForAdvert(advert.ID, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.ErrDuplicateApplication
	}

	var cvURL string
	if len(input.CVBytes) > 0 && s.uploader != nil {
		folder := fmt.Sprintf("cv/%d", advert.ID)
		cvURL, err = s.uploader.UploadBytes(ctx, folder, input.CVFilename, input.CVBytes)
		if err != nil {
			return nil, err
		}
	}

	app := &domain.JobApplication{
		Name:         name,
		Email:        email,
		PortfolioURL: strings.TrimSpace(input.PortfolioURL),
		CVURL:        cvURL,
		Status:       domain.ApplicationApplied,
		JobAdvertID:  advert.ID,
	}
	if err := s.applications.Create(app); err != nil {
		return nil, err
	}
	return app, nil
}

func applicationPage(apps []domain.JobApplication, total int64, page int) *dto.ApplicationPage {
	out := make([]dto.ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, dto.ApplicationResponse{
			ID:           a.ID,
			Name:         a.Name,
			Email:        a.Email,
			PortfolioURL: a.PortfolioURL,
			CVURL:        a.CVURL,
			Status:       a.Status,
			JobAdvertID:  a.JobAdvertID,
			JobTitle:     a.JobAdvert.Title,
		})
	}
	return &dto.ApplicationPage{
		Applications: out,
		Total:        total,
		Page:         page,
		PageSize:     advertPageSize,
	}
}

func (s *advertService) MyApplications(email string, page int) (*dto.ApplicationPage, error) {
	limit, offset, page := pageBounds(page)
	apps, total, err := s.applications.ListByEmail(normalizeEmail(email), limit, offset)
	if err != nil {
		return nil, err
	}
	return applicationPage(apps, total, page), nil
}

func (s *advertService) AdvertApplications(userID, advertID uint, page int) (*dto.ApplicationPage, error) {
	if _, err := s.loadOwnedAdvert(userID, advertID); err != nil {
		return nil, err
	}

	limit, offset, page := pageBounds(page)
	apps, total, err := s.applications.ListByAdvert(advertID, limit, offset)
	if err != nil {
		return nil, err
	}
	return applicationPage(apps, total, page), nil
}

func (s *advertService) Decide(userID, applicationID uint, status string) error {
	if !domain.IsDecisionStatus(status) {
		return errs.ErrInvalidInput
	}

	app, err := s.applications.FindByID(applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrApplicationNotFound
		}
		return err
	}
	if app.JobAdvert.CreatedByID != userID {
		return errs.ErrForbidden
	}

	if err := s.applications.UpdateStatus(app.ID, status); err != nil {
		return err
	}

	// Outcome mail is best effort; the decision is already committed.
	mailCtx := map[string]string{
		"applicant_name": app.Name,
		"job_title":      app.JobAdvert.Title,
		"company_name":   app.JobAdvert.CompanyName,
	}
	switch status {
	case domain.ApplicationRejected:
		_ = s.notifier.Send(
			fmt.Sprintf("Application Outcome for %s", app.JobAdvert.Title),
			[]string{app.Email},
			notify.TemplateApplicationRejected,
			mailCtx,
		)
	case domain.ApplicationInterview:
		_ = s.notifier.Send(
			fmt.Sprintf("Interview Invitation for %s", app.JobAdvert.Title),
			[]string{app.Email},
			notify.TemplateApplicationInterview,
			mailCtx,
		)
	}

	return nil
}
