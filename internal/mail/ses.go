package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/guaraci/paylink-gateway/internal/model"
)

// maxRawMessageSize is the SES cap on a raw message including attachments.
const maxRawMessageSize = 10 << 20

type sesAPI interface {
	SendRawEmail(ctx context.Context, in *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

// SESNotifier sends rendered payloads through Amazon SES raw email.
type SESNotifier struct {
	client   sesAPI
	from     string
	fromName string
}

func NewSESNotifier(ctx context.Context, region, from, fromName string) (*SESNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SESNotifier{client: ses.NewFromConfig(cfg), from: from, fromName: fromName}, nil
}

func (n *SESNotifier) Send(ctx context.Context, p model.NotificationPayload) error {
	from := fmt.Sprintf("%q <%s>", sanitizeHeader(n.fromName), n.from)
	msg := buildMessage(from, p.Recipient, p)
	if len(msg) > maxRawMessageSize {
		return fmt.Errorf("%w: raw message is %d bytes", ErrAttachmentTooLarge, len(msg))
	}

	_, err := n.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		RawMessage:   &types.RawMessage{Data: msg},
		Source:       aws.String(n.from),
		Destinations: []string{p.Recipient},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransportUnavailable, err)
	}
	return nil
}
