package mail

import (
	"bytes"
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/guaraci/paylink-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	calls []*ses.SendRawEmailInput
	err   error
}

func (f *fakeSES) SendRawEmail(ctx context.Context, in *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
	f.calls = append(f.calls, in)
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendRawEmailOutput{}, nil
}

func TestSESNotifierSend(t *testing.T) {
	fake := &fakeSES{}
	n := &SESNotifier{client: fake, from: "noreply@example.com", fromName: "Guaraci Pagamentos"}

	err := n.Send(context.Background(), model.NotificationPayload{
		Recipient: "to@example.com",
		Subject:   "Hello",
		HTMLBody:  "<p>Hi</p>",
		TextBody:  "Hi",
	})
	require.NoError(t, err)
	require.Len(t, fake.calls, 1)
	assert.Equal(t, []string{"to@example.com"}, fake.calls[0].Destinations)
	assert.Contains(t, string(fake.calls[0].RawMessage.Data), "Subject: Hello")
}

func TestSESNotifierRejectsOversizeRawMessage(t *testing.T) {
	fake := &fakeSES{}
	n := &SESNotifier{client: fake, from: "noreply@example.com"}

	err := n.Send(context.Background(), model.NotificationPayload{
		Recipient: "to@example.com",
		Subject:   "Big",
		HTMLBody:  "<p>x</p>",
		TextBody:  "x",
		Attachments: []model.Attachment{
			{Filename: "big.jpg", ContentType: "image/jpeg", Data: bytes.Repeat([]byte{1}, 9<<20)},
		},
	})
	assert.ErrorIs(t, err, ErrAttachmentTooLarge)
	assert.Empty(t, fake.calls, "oversize messages never reach the API")
}
