package domain

import "errors"

// Domain errors - these are business logic errors that should be translated
// to appropriate HTTP status codes by the handler layer

var (
	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")

	// Daily challenge errors
	ErrChallengeNotAvailable = errors.New("no challenge available today")
	ErrSourceUnavailable     = errors.New("problem source unavailable")

	// Submission errors
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadySubmitted   = errors.New("solution already submitted for this day")

	// Review errors
	ErrNotesRequired          = errors.New("rejection requires admin notes")
	ErrInvalidTransition      = errors.New("invalid submission status transition")
	ErrConcurrentModification = errors.New("submission was modified by another reviewer")

	// Campaign errors
	ErrCampaignNotFound    = errors.New("campaign not found")
	ErrCampaignClosed      = errors.New("campaign is not accepting applications")
	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyApplied      = errors.New("user already applied to this campaign")

	// General errors
	ErrInternalServer   = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("reviewer capability required")
)

// DomainError wraps an error with additional context
type DomainError struct {
	Err     error
	Message string
	Code    string
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &DomainError{
		Err:     err,
		Message: message,
	}
}
