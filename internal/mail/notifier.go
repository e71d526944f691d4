package mail

import (
	"context"
	"errors"
	"strings"

	"github.com/guaraci/paylink-gateway/internal/model"
)

// Notifier is the outbound-email capability. Implementations are constructed
// once per process and injected; the payload is already fully rendered.
type Notifier interface {
	Send(ctx context.Context, p model.NotificationPayload) error
}

var (
	ErrTransportUnavailable = errors.New("mail transport unavailable")
	ErrRecipientRejected    = errors.New("recipient rejected by transport")
	ErrAttachmentTooLarge   = errors.New("attachments exceed transport limit")
)

// sanitizeHeader strips CR/LF from values interpolated into mail headers.
func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
