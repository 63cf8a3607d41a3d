package model

// ResumeFile is a picked file attached to an application draft.
type ResumeFile struct {
	Name     string
	Size     int64
	MIMEType string // as declared by the picker; may be empty
	Content  []byte
}
