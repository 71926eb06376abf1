package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeBrowserUnavailable = "BROWSER_UNAVAILABLE"
	ErrCodeNavigation         = "NAVIGATION_FAILED"
	ErrCodeTimeout            = "SCRAPE_TIMEOUT"
	ErrCodeExtraction         = "EXTRACTION_FAILED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// Cause returns the text of the wrapped error, or the message when nothing
// is wrapped. It is what clients see in the "error" field.
func (e *ScrapeError) Cause() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}
