package form

import "errors"

// Validation gate failures. All are recoverable: the draft keeps its state
// and the applicant corrects and resubmits.
var (
	ErrConsentRequired     = errors.New("form: consent must be acknowledged before submitting")
	ErrResumeRequired      = errors.New("form: a resume file must be attached")
	ErrFileTooLarge        = errors.New("form: resume file exceeds the 5 MB limit")
	ErrUnsupportedFileType = errors.New("form: resume must be a PDF or Word document")
)

// Draft lifecycle failures.
var (
	ErrSubmitInFlight   = errors.New("form: a submission is already in flight")
	ErrAlreadySubmitted = errors.New("form: application already submitted")
	ErrDraftDiscarded   = errors.New("form: draft was discarded")
)

// MissingFieldError reports a required field left empty, named by its wire
// field name.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "form: required field missing: " + e.Field
}

// InvalidFieldError reports a field that is present but malformed (currently
// only the email address shape).
type InvalidFieldError struct {
	Field string
}

func (e *InvalidFieldError) Error() string {
	return "form: invalid value for field: " + e.Field
}
