package model

// UploadedFile is a single multipart file part, fully buffered in memory.
type UploadedFile struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// Submission is one client's payment + verification data bound to a link
// identifier. It lives for the duration of validation and dispatch and is
// never persisted.
type Submission struct {
	ID         string // per-submission correlation ULID
	Name       string
	Email      string
	Phone      string
	CardDigits string
	LinkID     string

	CardPhoto          UploadedFile
	SelfieWithDocument UploadedFile
}

// Release drops the image buffers so they can be collected. Called by the
// deferred cleanup after dispatch; safe to call more than once.
func (s *Submission) Release() {
	s.CardPhoto.Data = nil
	s.SelfieWithDocument.Data = nil
}
