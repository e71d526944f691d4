package model

// Notification roles. A submission always produces exactly these two sends.
const (
	RoleCustomer = "customer"
	RoleReviewer = "reviewer"
)

// Attachment is one file carried by an outbound email.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NotificationPayload is a fully rendered outbound email. User-supplied
// strings are already HTML-escaped by the composer; the notifier treats the
// bodies as opaque.
type NotificationPayload struct {
	Recipient   string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

// SendFailure records one failed notification send.
type SendFailure struct {
	Recipient string
	Err       error
}

// DispatchOutcome aggregates the per-role result of sending both
// notifications for one submission. Failures is keyed by role, not address,
// so a customer who submits the reviewer's own address still yields two
// distinct outcomes.
type DispatchOutcome struct {
	AllSucceeded bool
	Failures     map[string]SendFailure
}

// Failed reports whether the send for the given role failed.
func (o DispatchOutcome) Failed(role string) bool {
	_, ok := o.Failures[role]
	return ok
}

// FirstError returns an arbitrary failure, or nil when all sends succeeded.
// Handlers use it for the generic 500 path.
func (o DispatchOutcome) FirstError() error {
	for _, f := range o.Failures {
		return f.Err
	}
	return nil
}
