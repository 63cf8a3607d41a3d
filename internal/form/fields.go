package form

// Fields groups every user-entered value on the employment interest form,
// section by section. All values are kept as entered; trimming and
// empty-field elision happen at serialization time only.
type Fields struct {
	// Personal information
	ApplicantName          string
	DateOfBirth            string
	Phone                  string
	Email                  string
	MailingAddress         string
	SelfIdentifyIndigenous bool

	// Accessibility
	NeedResumeHelp     bool
	HasTransportation  bool
	NeedPPE            bool
	SeekingTraining    bool
	EmploymentBarriers string

	// Employment preferences
	AreasOfInterest    string
	OtherInterest      string
	Project            string
	OtherProject       string
	PreferredLocation  string
	OtherLocation      string
	AvailableStartDate string

	// Skills & experience
	CoverLetter     string
	EducationLevel  string
	Certificates    string
	YearsExperience string

	// Indigenous participation. Values survive toggling
	// SelfIdentifyIndigenous off and back on; see
	// Draft.SetIndigenousSelfIdentify.
	BandAffiliation            string
	OtherAffiliation           string
	IndigenousCommunityContact string
	InterestedCommunityMonitor bool

	// Consent
	ConsentAcknowledged bool
}
