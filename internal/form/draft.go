package form

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/aim-ba/ravenlink/internal/model"
)

// MaxResumeSize is the resume attachment limit in bytes (5 MB).
const MaxResumeSize = 5 * 1024 * 1024

// allowedResumeTypes: PDF plus legacy and modern Word documents.
var allowedResumeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// State tracks a draft through its lifecycle.
type State int

const (
	StateEditing State = iota
	StateSubmitting
	StateSubmitted
	StateDiscarded
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	case StateDiscarded:
		return "discarded"
	}
	return "unknown"
}

// Submitter delivers an assembled payload to the applications endpoint.
// submissionID identifies the draft so the endpoint can deduplicate.
type Submitter interface {
	SubmitApplication(ctx context.Context, submissionID, contentType string, body io.Reader) error
}

// Draft is one in-progress application, scoped to a single posting. It is
// created empty, mutated field by field, and discarded on successful
// submission or cancellation. Nothing is persisted across sessions.
type Draft struct {
	id     string
	jobID  string
	state  State
	fields Fields
	resume *model.ResumeFile
}

// NewDraft opens an empty draft for the posting with the given id.
func NewDraft(jobID string) *Draft {
	return &Draft{
		id:    uuid.NewString(),
		jobID: jobID,
		state: StateEditing,
	}
}

func (d *Draft) ID() string     { return d.id }
func (d *Draft) JobID() string  { return d.jobID }
func (d *Draft) State() State   { return d.state }
func (d *Draft) Fields() Fields { return d.fields }

// Resume returns the attached file, or nil.
func (d *Draft) Resume() *model.ResumeFile { return d.resume }

// SetFields replaces the draft's field values. Invariant: Indigenous
// Participation values are retained even while SelfIdentifyIndigenous is
// false; hiding the section never wipes it, and serialization includes its
// values purely by the non-empty rule. Rejected once the draft has left the
// editing state.
func (d *Draft) SetFields(f Fields) error {
	if err := d.editable(); err != nil {
		return err
	}
	d.fields = f
	return nil
}

// SetIndigenousSelfIdentify toggles the Indigenous Participation section.
// Invariant: turning the section off hides it but keeps its values; turning
// it back on reveals exactly what was entered before. Serialization includes
// section values purely by the non-empty rule, independent of the flag.
func (d *Draft) SetIndigenousSelfIdentify(v bool) error {
	if err := d.editable(); err != nil {
		return err
	}
	d.fields.SelfIdentifyIndigenous = v
	return nil
}

// AttachResume validates and attaches a resume file. The same size and type
// rules run again at submit time, so a stale attachment cannot slip through.
func (d *Draft) AttachResume(f model.ResumeFile) error {
	if err := d.editable(); err != nil {
		return err
	}
	if err := validateResume(&f); err != nil {
		return err
	}
	d.resume = &f
	return nil
}

// Discard cancels the draft. A submission response that lands afterwards is
// ignored; see Submit.
func (d *Draft) Discard() {
	d.state = StateDiscarded
}

func (d *Draft) editable() error {
	switch d.state {
	case StateSubmitted:
		return ErrAlreadySubmitted
	case StateDiscarded:
		return ErrDraftDiscarded
	case StateSubmitting:
		return ErrSubmitInFlight
	}
	return nil
}

// Submit runs the validation gates in order, short-circuiting at the first
// failure, then assembles the payload and calls the endpoint exactly once.
// On failure the draft returns to editing with every field preserved. On
// success the draft becomes terminal and further submits are no-ops.
func (d *Draft) Submit(ctx context.Context, s Submitter) error {
	switch d.state {
	case StateSubmitted:
		return ErrAlreadySubmitted
	case StateDiscarded:
		return ErrDraftDiscarded
	case StateSubmitting:
		return ErrSubmitInFlight
	}

	if err := d.validate(); err != nil {
		return err
	}

	contentType, body, err := EncodePayload(d.jobID, d.fields, *d.resume)
	if err != nil {
		return err
	}

	d.state = StateSubmitting
	submitErr := s.SubmitApplication(ctx, d.id, contentType, body)

	// The view may have been closed while the request was in flight. The
	// response must not commit against a discarded draft.
	if d.state == StateDiscarded {
		return ErrDraftDiscarded
	}

	if submitErr != nil {
		d.state = StateEditing
		return submitErr
	}
	d.state = StateSubmitted
	return nil
}

// validate runs the submission gates: consent, resume attached, resume size,
// resume type, then required text fields. First failure wins.
func (d *Draft) validate() error {
	if !d.fields.ConsentAcknowledged {
		return ErrConsentRequired
	}
	if d.resume == nil {
		return ErrResumeRequired
	}
	if err := validateResume(d.resume); err != nil {
		return err
	}
	return validateRequired(d.fields)
}

func validateResume(f *model.ResumeFile) error {
	if f.Size > MaxResumeSize || int64(len(f.Content)) > MaxResumeSize {
		return ErrFileTooLarge
	}

	if !allowedResumeTypes[resolveMIMEType(f)] {
		return ErrUnsupportedFileType
	}
	return nil
}

// resolveMIMEType prefers the picker's declared type and falls back to
// content sniffing when the picker gave nothing usable.
func resolveMIMEType(f *model.ResumeFile) string {
	if f.MIMEType != "" && f.MIMEType != "application/octet-stream" {
		return f.MIMEType
	}
	return mimetype.Detect(f.Content).String()
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// requiredFields mirrors the mandatory form inputs in gate-check order.
type requiredFields struct {
	ApplicantName      string `validate:"required"`
	Phone              string `validate:"required"`
	Email              string `validate:"required,email"`
	AvailableStartDate string `validate:"required"`
	Certificates       string `validate:"required"`
}

var wireNames = map[string]string{
	"ApplicantName":      "applicant_name",
	"Phone":              "phone",
	"Email":              "email",
	"AvailableStartDate": "available_start_date",
	"Certificates":       "certificates",
}

func validateRequired(f Fields) error {
	req := requiredFields{
		ApplicantName:      strings.TrimSpace(f.ApplicantName),
		Phone:              strings.TrimSpace(f.Phone),
		Email:              strings.TrimSpace(f.Email),
		AvailableStartDate: strings.TrimSpace(f.AvailableStartDate),
		Certificates:       strings.TrimSpace(f.Certificates),
	}

	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		field := wireNames[first.StructField()]
		if first.Tag() == "required" {
			return &MissingFieldError{Field: field}
		}
		return &InvalidFieldError{Field: field}
	}
	return err
}
