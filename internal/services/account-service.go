package services

import (
	"errors"
	"strings"
	"time"

	"github.com/hirewire/jobboard/internal/domain"
	"github.com/hirewire/jobboard/internal/dto"
	"github.com/hirewire/jobboard/internal/errs"
	"github.com/hirewire/jobboard/internal/helper"
	"github.com/hirewire/jobboard/internal/helper/utils"
	"github.com/hirewire/jobboard/internal/notify"
	"github.com/hirewire/jobboard/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	verificationCodeLength = 6
	resetTokenLength       = 20
	resendCooldown         = 5 * time.Minute
)

type AccountService interface {
	// Register creates or refreshes a pending registration. The returned
	// flag reports whether a pending registration already existed for the
	// email, so the caller can phrase its message accordingly.
	Register(input dto.RegisterRequest) (bool, error)

	// ResendCode issues a fresh verification code subject to the cooldown.
	// A missing pending registration is reported, not an error.
	ResendCode(email string) (bool, error)

	// VerifyCode promotes a pending registration into an active user.
	VerifyCode(email, code string) (*domain.User, error)

	Login(input dto.UserLogin) (*domain.User, error)

	// RequestReset issues a password-reset token, replacing any live one.
	RequestReset(email string) error

	// ValidateResetLink checks a reset link without consuming the token.
	ValidateResetLink(email, token string) (*domain.Token, error)

	// CompleteReset consumes the token and sets the new password.
	CompleteReset(input dto.SetNewPasswordRequest) error

	GetUser(userID uint) (*domain.User, error)
}

type accountService struct {
	users    repository.UserRepository
	pending  repository.PendingUserRepository
	tokens   repository.TokenRepository
	notifier notify.Notifier
}

func NewAccountService(
	users repository.UserRepository,
	pending repository.PendingUserRepository,
	tokens repository.TokenRepository,
	notifier notify.Notifier,
) AccountService {
	return &accountService{
		users:    users,
		pending:  pending,
		tokens:   tokens,
		notifier: notifier,
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (s *accountService) Register(input dto.RegisterRequest) (bool, error) {
	email := normalizeEmail(input.Email)
	password := strings.TrimSpace(input.Password)

	if email == "" || password == "" {
		return false, errs.ErrInvalidInput
	}
	if len(password) < 6 {
		return false, errs.ErrInvalidInput
	}

	if existing, err := s.users.FindActiveByEmail(email); err == nil && existing != nil {
		return false, errs.ErrDuplicateEmail
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	// An existing pending registration is refreshed in place, never
	// duplicated.
	pending, err := s.pending.FindByEmail(email)
	if err == nil && pending != nil {
		if err := s.issueCode(pending); err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	code, err := utils.RandomString(verificationCodeLength)
	if err != nil {
		return false, err
	}

	pending = &domain.PendingUser{
		Email:            email,
		PasswordHash:     string(hashed),
		VerificationCode: code,
		CodeIssuedAt:     time.Now(),
	}
	if err := s.pending.Create(pending); err != nil {
		// Two concurrent first registrations race on the unique email
		// index; the loser reports duplicate instead of creating a
		// second row.
		if helper.IsUniqueViolation(err) {
			return false, errs.ErrDuplicateEmail
		}
		return false, err
	}

	s.notifyCode(email, code)
	return false, nil
}

func (s *accountService) ResendCode(email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, errs.ErrInvalidInput
	}

	pending, err := s.pending.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if time.Since(pending.CodeIssuedAt) < resendCooldown {
		return false, errs.ErrCooldownActive
	}

	if err := s.issueCode(pending); err != nil {
		return false, err
	}
	return true, nil
}

// issueCode rotates the verification code and resets the validity window.
func (s *accountService) issueCode(pending *domain.PendingUser) error {
	code, err := utils.RandomString(verificationCodeLength)
	if err != nil {
		return err
	}

	pending.VerificationCode = code
	pending.CodeIssuedAt = time.Now()
	if err := s.pending.Save(pending); err != nil {
		return err
	}

	s.notifyCode(pending.Email, code)
	return nil
}

func (s *accountService) notifyCode(email, code string) {
	_ = s.notifier.Send(
		"Verify your account",
		[]string{email},
		notify.TemplateEmailVerification,
		map[string]string{"email": email, "code": code},
	)
}

func (s *accountService) VerifyCode(email, code string) (*domain.User, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, errs.ErrInvalidCode
	}

	pending, err := s.pending.FindByEmailAndCode(email, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrInvalidCode
		}
		return nil, err
	}

	if !pending.IsValid() {
		return nil, errs.ErrCodeExpired
	}

	// The hash moves over verbatim; the password is never rehashed.
	user, err := s.pending.Promote(pending)
	if err != nil {
		// A concurrent verification already consumed the pending row.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrInvalidCode
		}
		if helper.IsUniqueViolation(err) {
			return nil, errs.ErrDuplicateEmail
		}
		return nil, err
	}

	return user, nil
}

func (s *accountService) Login(input dto.UserLogin) (*domain.User, error) {
	email := normalizeEmail(input.Email)
	password := strings.TrimSpace(input.Password)

	if email == "" || password == "" {
		return nil, errs.ErrInvalidCredentials
	}

	user, err := s.users.FindActiveByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errs.ErrInvalidCredentials
	}

	return user, nil
}

func (s *accountService) RequestReset(email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return errs.ErrInvalidInput
	}

	user, err := s.users.FindActiveByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Reported as-is; the caller learns whether the email is
			// registered. Kept deliberately, see DESIGN.md.
			return errs.ErrUnknownEmail
		}
		return err
	}

	value, err := utils.RandomString(resetTokenLength)
	if err != nil {
		return err
	}

	token, err := s.tokens.Replace(user.ID, domain.TokenKindPasswordReset, value)
	if err != nil {
		return err
	}

	_ = s.notifier.Send(
		"Your password reset link",
		[]string{email},
		notify.TemplatePasswordReset,
		map[string]string{"email": email, "token": token.Value},
	)
	return nil
}

func (s *accountService) ValidateResetLink(email, tokenValue string) (*domain.Token, error) {
	email = normalizeEmail(email)
	tokenValue = strings.TrimSpace(tokenValue)
	if email == "" || tokenValue == "" {
		return nil, errs.ErrInvalidLink
	}

	token, err := s.tokens.FindForUser(email, tokenValue, domain.TokenKindPasswordReset)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrInvalidLink
		}
		return nil, err
	}

	// Expired and missing look identical to the caller.
	if !token.IsValid() {
		return nil, errs.ErrInvalidLink
	}

	return token, nil
}

func (s *accountService) CompleteReset(input dto.SetNewPasswordRequest) error {
	// Checked before any storage access.
	if input.Password1 != input.Password2 {
		return errs.ErrPasswordMismatch
	}
	if strings.TrimSpace(input.Password1) == "" || len(input.Password1) < 6 {
		return errs.ErrInvalidInput
	}

	token, err := s.ValidateResetLink(input.Email, input.Token)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password1), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.tokens.Redeem(token, string(hashed)); err != nil {
		// Lost a race against another redemption of the same token.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrInvalidLink
		}
		return err
	}

	return nil
}

func (s *accountService) GetUser(userID uint) (*domain.User, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidInput
	}
	return s.users.FindUserById(userID)
}
