package errs

import "errors"

// Workflow errors surfaced to callers. Handlers map these onto HTTP statuses
// and user-visible messages; none is fatal.
var (
	ErrDuplicateEmail = errors.New("email already registered")
	ErrUnknownEmail   = errors.New("email does not exist")
	ErrInvalidCode    = errors.New("invalid verification code")
	ErrCodeExpired    = errors.New("verification code expired")
	// ErrCooldownActive: a new code was requested less than five minutes
	// after the previous one.
	ErrCooldownActive = errors.New("you can request a new code only every 5 minutes")
	// ErrInvalidLink covers both a missing and an expired reset token so a
	// caller cannot probe which tokens exist.
	ErrInvalidLink          = errors.New("invalid link")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidInput         = errors.New("invalid input")
	ErrAdvertNotFound       = errors.New("advert not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("you have already applied for this job")
	ErrForbidden            = errors.New("forbidden")
)
