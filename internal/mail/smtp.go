package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"time"

	"github.com/guaraci/paylink-gateway/internal/model"
)

const (
	smtpDialTimeout = 10 * time.Second
	smtpSendTimeout = 30 * time.Second

	// the submissions-over-TLS port: servers here run TLS from the first
	// byte instead of upgrading a plaintext session via STARTTLS
	implicitTLSPort = "465"
)

// SMTPConfig holds the outbound SMTP account. Username doubles as the
// envelope sender address.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
}

// SMTPNotifier sends rendered payloads through a plain-auth SMTP account.
type SMTPNotifier struct {
	cfg         SMTPConfig
	implicitTLS bool
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, implicitTLS: cfg.Port == implicitTLSPort}
}

func (n *SMTPNotifier) Send(ctx context.Context, p model.NotificationPayload) error {
	from := fmt.Sprintf("%q <%s>", sanitizeHeader(n.cfg.FromName), n.cfg.Username)
	msg := buildMessage(from, p.Recipient, p)

	client, err := n.dial(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransportUnavailable, err)
	}
	defer client.Close()

	// a cancelled context tears the connection down mid-session, so a
	// stalled server surfaces as an error instead of hanging the caller
	stop := context.AfterFunc(ctx, func() { _ = client.Close() })
	defer stop()

	if err := n.transmit(client, p.Recipient, msg); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrTransportUnavailable, ctx.Err())
		}
		return classifySMTPError(err, p.Recipient)
	}
	return nil
}

// dial opens the SMTP session. Every read and write is bounded by a deadline
// so a server that never answers cannot block the submit path.
func (n *SMTPNotifier) dial(ctx context.Context) (*smtp.Client, error) {
	d := net.Dialer{Timeout: smtpDialTimeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(n.cfg.Host, n.cfg.Port))
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(smtpSendTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = conn.SetDeadline(deadline)

	if n.implicitTLS {
		conn = tls.Client(conn, &tls.Config{ServerName: n.cfg.Host})
	}
	client, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if !n.implicitTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: n.cfg.Host}); err != nil {
				_ = client.Close()
				return nil, err
			}
		}
	}
	return client, nil
}

func (n *SMTPNotifier) transmit(client *smtp.Client, recipient string, msg []byte) error {
	if ok, _ := client.Extension("AUTH"); ok {
		auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(n.cfg.Username); err != nil {
		return err
	}
	if err := client.Rcpt(recipient); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

// classifySMTPError maps SMTP reply codes onto the dispatch error taxonomy.
func classifySMTPError(err error, recipient string) error {
	var proto *textproto.Error
	if errors.As(err, &proto) {
		switch proto.Code {
		case 550, 551, 553:
			return fmt.Errorf("%w: %s: %v", ErrRecipientRejected, recipient, err)
		case 552:
			return fmt.Errorf("%w: %v", ErrAttachmentTooLarge, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrTransportUnavailable, err)
}
