package form

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/aim-ba/ravenlink/internal/model"
)

// EncodePayload serializes a validated draft into the multipart body the
// applications endpoint expects. The resume part, the posting id, the core
// contact fields, and every boolean are always present; optional fields are
// written only when their trimmed value is non-empty.
func EncodePayload(jobID string, f Fields, resume model.ResumeFile) (contentType string, body *bytes.Buffer, err error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename=%q`, resume.Name))
	header.Set("Content-Type", resolveMIMEType(&resume))
	part, err := w.CreatePart(header)
	if err != nil {
		return "", nil, fmt.Errorf("form: creating resume part: %w", err)
	}
	if _, err := part.Write(resume.Content); err != nil {
		return "", nil, fmt.Errorf("form: writing resume part: %w", err)
	}

	always := []field{
		{"job_id", jobID},
		{"applicant_name", f.ApplicantName},
		{"email", f.Email},
		{"phone", f.Phone},
		{"cover_letter", f.CoverLetter},
		{"consent_acknowledged", strconv.FormatBool(f.ConsentAcknowledged)},
		{"self_identify_indigenous", strconv.FormatBool(f.SelfIdentifyIndigenous)},
		{"need_resume_help", strconv.FormatBool(f.NeedResumeHelp)},
		{"has_transportation", strconv.FormatBool(f.HasTransportation)},
		{"need_ppe", strconv.FormatBool(f.NeedPPE)},
		{"seeking_training", strconv.FormatBool(f.SeekingTraining)},
		{"interested_community_monitor", strconv.FormatBool(f.InterestedCommunityMonitor)},
	}
	for _, fl := range always {
		if err := w.WriteField(fl.name, fl.value); err != nil {
			return "", nil, fmt.Errorf("form: writing field %s: %w", fl.name, err)
		}
	}

	optional := []field{
		{"date_of_birth", f.DateOfBirth},
		{"mailing_address", f.MailingAddress},
		{"employment_barriers", f.EmploymentBarriers},
		{"areas_of_interest", f.AreasOfInterest},
		{"other_interest", f.OtherInterest},
		{"project", f.Project},
		{"other_project", f.OtherProject},
		{"preferred_location", f.PreferredLocation},
		{"other_location", f.OtherLocation},
		{"available_start_date", f.AvailableStartDate},
		{"education_level", f.EducationLevel},
		{"certificates", f.Certificates},
		{"years_experience", f.YearsExperience},
		{"band_affiliation", f.BandAffiliation},
		{"other_affiliation", f.OtherAffiliation},
		{"indigenous_community_contact", f.IndigenousCommunityContact},
	}
	for _, fl := range optional {
		value := strings.TrimSpace(fl.value)
		if value == "" {
			continue
		}
		if err := w.WriteField(fl.name, value); err != nil {
			return "", nil, fmt.Errorf("form: writing field %s: %w", fl.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, fmt.Errorf("form: closing payload: %w", err)
	}
	return w.FormDataContentType(), buf, nil
}

type field struct {
	name  string
	value string
}
