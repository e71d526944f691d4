package mail

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/guaraci/paylink-gateway/internal/model"
)

// Fixed boundaries keep message building deterministic.
const (
	mixedBoundary = "paylink-mixed-3f1a9c"
	altBoundary   = "paylink-alt-3f1a9c"
)

// buildMessage assembles the raw RFC 2822 message: multipart/alternative for
// the text and HTML bodies, wrapped in multipart/mixed when attachments are
// present. Attachments are base64-encoded with wrapped lines.
func buildMessage(from, to string, p model.NotificationPayload) []byte {
	var sb strings.Builder

	fmt.Fprintf(&sb, "From: %s\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: %s\r\n", sanitizeHeader(p.Subject))
	sb.WriteString("MIME-Version: 1.0\r\n")

	if len(p.Attachments) > 0 {
		fmt.Fprintf(&sb, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mixedBoundary)
		fmt.Fprintf(&sb, "--%s\r\n", mixedBoundary)
	}

	writeAlternative(&sb, p.TextBody, p.HTMLBody)

	for _, a := range p.Attachments {
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		fmt.Fprintf(&sb, "--%s\r\n", mixedBoundary)
		fmt.Fprintf(&sb, "Content-Type: %s; name=%q\r\n", contentType, a.Filename)
		sb.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&sb, "Content-Disposition: attachment; filename=%q\r\n\r\n", a.Filename)
		writeBase64(&sb, a.Data)
		sb.WriteString("\r\n")
	}

	if len(p.Attachments) > 0 {
		fmt.Fprintf(&sb, "--%s--\r\n", mixedBoundary)
	}

	return []byte(sb.String())
}

func writeAlternative(sb *strings.Builder, text, html string) {
	fmt.Fprintf(sb, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", altBoundary)

	fmt.Fprintf(sb, "--%s\r\n", altBoundary)
	sb.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	sb.WriteString(text)
	sb.WriteString("\r\n")

	fmt.Fprintf(sb, "--%s\r\n", altBoundary)
	sb.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	sb.WriteString(html)
	sb.WriteString("\r\n")

	fmt.Fprintf(sb, "--%s--\r\n", altBoundary)
}

// writeBase64 encodes data in 76-column lines per RFC 2045.
func writeBase64(sb *strings.Builder, data []byte) {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		sb.WriteString(encoded[:76])
		sb.WriteString("\r\n")
		encoded = encoded[76:]
	}
	sb.WriteString(encoded)
}
