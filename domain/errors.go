package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingURL          = errors.New("request body must contain a Url")
	ErrEmptyArticle        = errors.New("could not find text for the selected article")
	ErrNoLanguageDetected  = errors.New("no dominant language detected")
	ErrUnsupportedLanguage = errors.New("no narration voice for language")
	ErrRecordNotFound      = errors.New("metadata record not found")
	ErrStaleTransition     = errors.New("metadata status already advanced")
	ErrNoRoute             = errors.New("no stage is subscribed to key")
	ErrInvocationTimeout   = errors.New("invocation budget exhausted before item started")
	ErrUnexpectedKey       = errors.New("unexpected object key")
	ErrOverlappingRoutes   = errors.New("routes overlap")
)

// IntakeError aborts an intake after validation passed; Partial carries what was built so far.
type IntakeError struct {
	Step      string
	Err       error
	Partial   map[string]interface{}
	FailedOps []FailedOp
}

func (e *IntakeError) Error() string {
	return fmt.Sprintf("intake %s: %v", e.Step, e.Err)
}

func (e *IntakeError) Unwrap() error {
	return e.Err
}

// IsValidation reports errors that are terminal for the caller and must not be retried.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingURL) || errors.Is(err, ErrEmptyArticle)
}
