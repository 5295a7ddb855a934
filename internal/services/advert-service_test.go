package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hirewire/jobboard/internal/domain"
	"github.com/hirewire/jobboard/internal/dto"
	"github.com/hirewire/jobboard/internal/errs"
)

// ---------- in-memory fakes ----------

type fakeAdvertRepo struct {
	adverts      map[uint]*domain.JobAdvert
	applications *fakeApplicationRepo
	nextID       uint
}

func newFakeAdvertRepo() *fakeAdvertRepo {
	return &fakeAdvertRepo{adverts: map[uint]*domain.JobAdvert{}}
}

func (r *fakeAdvertRepo) Create(advert *domain.JobAdvert) error {
	r.nextID++
	advert.ID = r.nextID
	cp := *advert
	r.adverts[advert.ID] = &cp
	return nil
}

func (r *fakeAdvertRepo) FindByID(advertID uint) (*domain.JobAdvert, error) {
	a, ok := r.adverts[advertID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAdvertRepo) Save(advert *domain.JobAdvert) error {
	cp := *advert
	r.adverts[advert.ID] = &cp
	return nil
}

func (r *fakeAdvertRepo) Delete(advertID uint) error {
	delete(r.adverts, advertID)
	return nil
}

func (r *fakeAdvertRepo) sorted(match func(*domain.JobAdvert) bool) []domain.JobAdvert {
	out := []domain.JobAdvert{}
	for _, a := range r.adverts {
		if match(a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func paginate(all []domain.JobAdvert, limit, offset int) ([]domain.JobAdvert, int64) {
	total := int64(len(all))
	if offset >= len(all) {
		return []domain.JobAdvert{}, total
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total
}

func (r *fakeAdvertRepo) ListActive(limit, offset int) ([]domain.JobAdvert, int64, error) {
	all := r.sorted(func(a *domain.JobAdvert) bool { return a.IsActive() })
	page, total := paginate(all, limit, offset)
	return page, total, nil
}

func (r *fakeAdvertRepo) Search(keyword, location string, limit, offset int) ([]domain.JobAdvert, int64, error) {
	kw := strings.ToLower(keyword)
	all := r.sorted(func(a *domain.JobAdvert) bool {
		if !a.IsActive() {
			return false
		}
		if kw != "" {
			haystack := strings.ToLower(a.Title + " " + a.CompanyName + " " + a.Description + " " + a.Skills)
			if !strings.Contains(haystack, kw) {
				return false
			}
		}
		if location != "" {
			if a.Location == nil || !strings.EqualFold(*a.Location, location) {
				return false
			}
		}
		return true
	})
	page, total := paginate(all, limit, offset)
	return page, total, nil
}

func (r *fakeAdvertRepo) ListByCreator(userID uint, limit, offset int) ([]domain.JobAdvert, int64, error) {
	all := r.sorted(func(a *domain.JobAdvert) bool { return a.CreatedByID == userID })
	page, total := paginate(all, limit, offset)
	return page, total, nil
}

func (r *fakeAdvertRepo) CountApplicants(advertID uint) (int64, error) {
	var n int64
	for _, a := range r.applications.apps {
		if a.JobAdvertID == advertID {
			n++
		}
	}
	return n, nil
}

type fakeApplicationRepo struct {
	adverts *fakeAdvertRepo
	apps    map[uint]*domain.JobApplication
	nextID  uint
}

func newFakeApplicationRepo(adverts *fakeAdvertRepo) *fakeApplicationRepo {
	r := &fakeApplicationRepo{adverts: adverts, apps: map[uint]*domain.JobApplication{}}
	adverts.applications = r
	return r
}

func (r *fakeApplicationRepo) Create(app *domain.JobApplication) error {
	r.nextID++
	app.ID = r.nextID
	cp := *app
	r.apps[app.ID] = &cp
	return nil
}

func (r *fakeApplicationRepo) FindByID(appID uint) (*domain.JobApplication, error) {
	a, ok := r.apps[appID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	if advert, ok := r.adverts.adverts[a.JobAdvertID]; ok {
		cp.JobAdvert = *advert
	}
	return &cp, nil
}

func (r *fakeApplicationRepo) ExistsForAdvert(advertID uint, email string) (bool, error) {
	for _, a := range r.apps {
		if a.JobAdvertID == advertID && strings.EqualFold(a.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeApplicationRepo) list(match func(*domain.JobApplication) bool, limit, offset int) ([]domain.JobApplication, int64, error) {
	all := []domain.JobApplication{}
	for _, a := range r.apps {
		if match(a) {
			cp := *a
			if advert, ok := r.adverts.adverts[a.JobAdvertID]; ok {
				cp.JobAdvert = *advert
			}
			all = append(all, cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := int64(len(all))
	if offset >= len(all) {
		return []domain.JobApplication{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeApplicationRepo) ListByAdvert(advertID uint, limit, offset int) ([]domain.JobApplication, int64, error) {
	return r.list(func(a *domain.JobApplication) bool { return a.JobAdvertID == advertID }, limit, offset)
}

func (r *fakeApplicationRepo) ListByEmail(email string, limit, offset int) ([]domain.JobApplication, int64, error) {
	return r.list(func(a *domain.JobApplication) bool { return strings.EqualFold(a.Email, email) }, limit, offset)
}

func (r *fakeApplicationRepo) UpdateStatus(appID uint, status string) error {
	a, ok := r.apps[appID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Status = status
	return nil
}

type fakeUploader struct {
	calls int
}

func (u *fakeUploader) UploadBytes(_ context.Context, folder, filename string, _ []byte) (string, error) {
	u.calls++
	return fmt.Sprintf("https://cdn.example.com/%s/%s", folder, filename), nil
}

type advertFixture struct {
	adverts      *fakeAdvertRepo
	applications *fakeApplicationRepo
	uploader     *fakeUploader
	notifier     *fakeNotifier
	svc          AdvertService
}

func newAdvertFixture() *advertFixture {
	adverts := newFakeAdvertRepo()
	applications := newFakeApplicationRepo(adverts)
	uploader := &fakeUploader{}
	notifier := &fakeNotifier{}
	return &advertFixture{
		adverts:      adverts,
		applications: applications,
		uploader:     uploader,
		notifier:     notifier,
		svc:          NewAdvertService(adverts, applications, uploader, notifier),
	}
}

func advertInput(title string) dto.AdvertRequest {
	return dto.AdvertRequest{
		Title:           title,
		CompanyName:     "Acme Corp",
		EmploymentType:  domain.EmploymentFullTime,
		ExperienceLevel: domain.ExperienceMid,
		Description:     "Build and run backend services.",
		WorkMode:        domain.WorkModeRemote,
		Deadline:        time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
		Skills:          "Go, Postgres, Kafka",
	}
}

// ---------- tests ----------

func TestCreateAdvert(t *testing.T) {
	t.Run("stores the advert under its creator", func(t *testing.T) {
		f := newAdvertFixture()

		advert, err := f.svc.CreateAdvert(7, advertInput("Backend Engineer"))
		require.NoError(t, err)
		assert.EqualValues(t, 7, advert.CreatedByID)
		assert.True(t, advert.IsPublished, "published by default")
	})

	t.Run("rejects a malformed deadline", func(t *testing.T) {
		f := newAdvertFixture()
		input := advertInput("Backend Engineer")
		input.Deadline = "next month"

		_, err := f.svc.CreateAdvert(7, input)
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("rejects blank required fields", func(t *testing.T) {
		f := newAdvertFixture()
		input := advertInput("  ")

		_, err := f.svc.CreateAdvert(7, input)
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})
}

func TestAdvertOwnership(t *testing.T) {
	f := newAdvertFixture()
	advert, err := f.svc.CreateAdvert(1, advertInput("Backend Engineer"))
	require.NoError(t, err)

	t.Run("only the creator may update", func(t *testing.T) {
		_, err := f.svc.UpdateAdvert(2, advert.ID, advertInput("Hijacked"))
		assert.ErrorIs(t, err, errs.ErrForbidden)

		updated, err := f.svc.UpdateAdvert(1, advert.ID, advertInput("Platform Engineer"))
		require.NoError(t, err)
		assert.Equal(t, "Platform Engineer", updated.Title)
	})

	t.Run("only the creator may delete", func(t *testing.T) {
		assert.ErrorIs(t, f.svc.DeleteAdvert(2, advert.ID), errs.ErrForbidden)
		require.NoError(t, f.svc.DeleteAdvert(1, advert.ID))

		_, err := f.svc.GetAdvert(advert.ID)
		assert.ErrorIs(t, err, errs.ErrAdvertNotFound)
	})
}

func TestListAndSearch(t *testing.T) {
	f := newAdvertFixture()

	location := "Berlin"
	input := advertInput("Go Developer")
	input.Location = &location
	_, err := f.svc.CreateAdvert(1, input)
	require.NoError(t, err)

	second := advertInput("Data Engineer")
	second.Skills = "Python, Spark"
	_, err = f.svc.CreateAdvert(1, second)
	require.NoError(t, err)

	// Past deadline keeps the advert out of public listings.
	expired := advertInput("Old Role")
	expired.Deadline = time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	_, err = f.svc.CreateAdvert(2, expired)
	require.NoError(t, err)

	unpublished := advertInput("Draft Role")
	hidden := false
	unpublished.IsPublished = &hidden
	_, err = f.svc.CreateAdvert(2, unpublished)
	require.NoError(t, err)

	t.Run("listing shows only active adverts", func(t *testing.T) {
		page, err := f.svc.ListAdverts(1)
		require.NoError(t, err)
		assert.EqualValues(t, 2, page.Total)
		assert.Equal(t, 10, page.PageSize)
	})

	t.Run("search matches keyword and location", func(t *testing.T) {
		page, err := f.svc.Search("go", "", 1)
		require.NoError(t, err)
		require.Len(t, page.Adverts, 1)
		assert.Equal(t, "Go Developer", page.Adverts[0].Title)

		page, err = f.svc.Search("", "Berlin", 1)
		require.NoError(t, err)
		require.Len(t, page.Adverts, 1)
		assert.Equal(t, "Go Developer", page.Adverts[0].Title)

		page, err = f.svc.Search("cobol", "", 1)
		require.NoError(t, err)
		assert.Empty(t, page.Adverts)
	})

	t.Run("my jobs includes drafts and expired adverts", func(t *testing.T) {
		page, err := f.svc.MyJobs(2, 1)
		require.NoError(t, err)
		assert.EqualValues(t, 2, page.Total)
	})
}

func TestApply(t *testing.T) {
	newAdvert := func(t *testing.T, f *advertFixture) *domain.JobAdvert {
		t.Helper()
		advert, err := f.svc.CreateAdvert(1, advertInput("Backend Engineer"))
		require.NoError(t, err)
		return advert
	}

	t.Run("records the application with the uploaded cv", func(t *testing.T) {
		f := newAdvertFixture()
		advert := newAdvert(t, f)

		app, err := f.svc.Apply(context.Background(), advert.ID, dto.ApplicationInput{
			Name:       "Jan Kowalski",
			Email:      "Jan@Example.com",
			CVFilename: "cv.pdf",
			CVBytes:    []byte("%PDF-1.4"),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationApplied, app.Status)
		assert.Equal(t, "jan@example.com", app.Email)
		assert.Contains(t, app.CVURL, fmt.Sprintf("cv/%d", advert.ID))
		assert.Equal(t, 1, f.uploader.calls)
	})

	t.Run("one application per email per advert", func(t *testing.T) {
		f := newAdvertFixture()
		advert := newAdvert(t, f)

		_, err := f.svc.Apply(context.Background(), advert.ID, dto.ApplicationInput{
			Name:  "Jan Kowalski",
			Email: "jan@example.com",
		})
		require.NoError(t, err)

		_, err = f.svc.Apply(context.Background(), advert.ID, dto.ApplicationInput{
			Name:  "Jan Kowalski",
			Email: "JAN@example.com",
		})
		assert.ErrorIs(t, err, errs.ErrDuplicateApplication)
	})

	t.Run("unknown advert", func(t *testing.T) {
		f := newAdvertFixture()
		_, err := f.svc.Apply(context.Background(), 999, dto.ApplicationInput{
			Name:  "Jan Kowalski",
			Email: "jan@example.com",
		})
		assert.ErrorIs(t, err, errs.ErrAdvertNotFound)
	})

	t.Run("applicant count lands on the advert detail", func(t *testing.T) {
		f := newAdvertFixture()
		advert := newAdvert(t, f)

		_, err := f.svc.Apply(context.Background(), advert.ID, dto.ApplicationInput{
			Name:  "Jan Kowalski",
			Email: "jan@example.com",
		})
		require.NoError(t, err)

		detail, err := f.svc.GetAdvert(advert.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, detail.TotalApplicants)
	})
}

func TestDecide(t *testing.T) {
	setup := func(t *testing.T) (*advertFixture, *domain.JobApplication) {
		t.Helper()
		f := newAdvertFixture()
		advert, err := f.svc.CreateAdvert(1, advertInput("Backend Engineer"))
		require.NoError(t, err)

		app, err := f.svc.Apply(context.Background(), advert.ID, dto.ApplicationInput{
			Name:  "Jan Kowalski",
			Email: "jan@example.com",
		})
		require.NoError(t, err)
		return f, app
	}

	t.Run("owner moves the application to interview and mail goes out", func(t *testing.T) {
		f, app := setup(t)

		require.NoError(t, f.svc.Decide(1, app.ID, domain.ApplicationInterview))
		assert.Equal(t, domain.ApplicationInterview, f.applications.apps[app.ID].Status)

		mail := f.notifier.last()
		assert.Equal(t, "application_interview", mail.Template)
		assert.Equal(t, []string{"jan@example.com"}, mail.Recipients)
		assert.Equal(t, "Jan Kowalski", mail.Context["applicant_name"])
		assert.Equal(t, "Backend Engineer", mail.Context["job_title"])
	})

	t.Run("rejection mails the outcome", func(t *testing.T) {
		f, app := setup(t)

		require.NoError(t, f.svc.Decide(1, app.ID, domain.ApplicationRejected))
		assert.Equal(t, "application_rejected", f.notifier.last().Template)
	})

	t.Run("hired stays silent", func(t *testing.T) {
		f, app := setup(t)
		before := len(f.notifier.sent)

		require.NoError(t, f.svc.Decide(1, app.ID, domain.ApplicationHired))
		assert.Len(t, f.notifier.sent, before)
	})

	t.Run("non-owner is refused", func(t *testing.T) {
		f, app := setup(t)
		assert.ErrorIs(t, f.svc.Decide(2, app.ID, domain.ApplicationRejected), errs.ErrForbidden)
	})

	t.Run("unknown status is refused", func(t *testing.T) {
		f, app := setup(t)
		assert.ErrorIs(t, f.svc.Decide(1, app.ID, "MAYBE"), errs.ErrInvalidInput)
	})
}

func TestMyApplications(t *testing.T) {
	f := newAdvertFixture()
	a1, err := f.svc.CreateAdvert(1, advertInput("Backend Engineer"))
	require.NoError(t, err)
	a2, err := f.svc.CreateAdvert(1, advertInput("Data Engineer"))
	require.NoError(t, err)

	for _, id := range []uint{a1.ID, a2.ID} {
		_, err := f.svc.Apply(context.Background(), id, dto.ApplicationInput{
			Name:  "Jan Kowalski",
			Email: "jan@example.com",
		})
		require.NoError(t, err)
	}

	page, err := f.svc.MyApplications("Jan@Example.com", 1)
	require.NoError(t, err)
	require.Len(t, page.Applications, 2)
	assert.Equal(t, "Backend Engineer", page.Applications[0].JobTitle)

	t.Run("advert applications are owner only", func(t *testing.T) {
		_, err := f.svc.AdvertApplications(2, a1.ID, 1)
		assert.ErrorIs(t, err, errs.ErrForbidden)

		page, err := f.svc.AdvertApplications(1, a1.ID, 1)
		require.NoError(t, err)
		assert.Len(t, page.Applications, 1)
	})
}
