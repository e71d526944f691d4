package mail

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/guaraci/paylink-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSMTPServer speaks just enough of the protocol for one delivery. It
// never advertises AUTH or STARTTLS, so the client stays in plaintext.
func fakeSMTPServer(ln net.Listener, rcptCode int, got chan<- string) {
	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	var msg strings.Builder
	br := bufio.NewReader(conn)
	fmt.Fprintf(conn, "220 fake ready\r\n")
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			fmt.Fprintf(conn, "250-fake\r\n250 SIZE 10485760\r\n")
		case strings.HasPrefix(cmd, "MAIL"):
			fmt.Fprintf(conn, "250 ok\r\n")
		case strings.HasPrefix(cmd, "RCPT"):
			fmt.Fprintf(conn, "%d rcpt\r\n", rcptCode)
		case strings.HasPrefix(cmd, "DATA"):
			fmt.Fprintf(conn, "354 go ahead\r\n")
			for {
				dl, err := br.ReadString('\n')
				if err != nil {
					return
				}
				if dl == ".\r\n" {
					break
				}
				msg.WriteString(dl)
			}
			fmt.Fprintf(conn, "250 queued\r\n")
		case strings.HasPrefix(cmd, "QUIT"):
			fmt.Fprintf(conn, "221 bye\r\n")
			if got != nil {
				got <- msg.String()
			}
			return
		default:
			fmt.Fprintf(conn, "250 ok\r\n")
		}
	}
}

func plainPayload(recipient string) model.NotificationPayload {
	return model.NotificationPayload{
		Recipient: recipient,
		Subject:   "Oi",
		HTMLBody:  "<p>oi</p>",
		TextBody:  "oi",
	}
}

func notifierFor(t *testing.T, addr string) *SMTPNotifier {
	t.Helper()
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	return NewSMTPNotifier(SMTPConfig{
		Host:     host,
		Port:     port,
		Username: "gateway@example.com",
		FromName: "Gateway",
	})
}

func TestSMTPNotifierDeliversThroughPlainSession(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	got := make(chan string, 1)
	go fakeSMTPServer(ln, 250, got)

	n := notifierFor(t, ln.Addr().String())
	require.NoError(t, n.Send(context.Background(), plainPayload("to@example.com")))

	msg := <-got
	assert.Contains(t, msg, "Subject: Oi")
	assert.Contains(t, msg, "To: to@example.com")
}

func TestSMTPNotifierClassifiesRejectedRecipient(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go fakeSMTPServer(ln, 550, nil)

	n := notifierFor(t, ln.Addr().String())
	err = n.Send(context.Background(), plainPayload("nobody@example.com"))
	assert.ErrorIs(t, err, ErrRecipientRejected)
}

func TestSMTPNotifierSilentServerDoesNotHang(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	// accept and say nothing, like a TLS endpoint waiting for a ClientHello
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		time.Sleep(5 * time.Second)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	n := notifierFor(t, ln.Addr().String())
	start := time.Now()
	err = n.Send(ctx, plainPayload("to@example.com"))
	assert.ErrorIs(t, err, ErrTransportUnavailable)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestSMTPNotifierSpeaksTLSFirstOnPort465(t *testing.T) {
	assert.True(t, NewSMTPNotifier(SMTPConfig{Port: "465"}).implicitTLS)
	assert.False(t, NewSMTPNotifier(SMTPConfig{Port: "587"}).implicitTLS)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	// a plaintext greeting is not a TLS record; the handshake must fail
	// fast instead of the client waiting forever for a greeting
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		fmt.Fprintf(conn, "220 fake ready\r\n")
		time.Sleep(2 * time.Second)
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	n := &SMTPNotifier{
		cfg:         SMTPConfig{Host: host, Port: port, Username: "gateway@example.com"},
		implicitTLS: true,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err = n.Send(ctx, plainPayload("to@example.com"))
	assert.ErrorIs(t, err, ErrTransportUnavailable)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestClassifySMTPError(t *testing.T) {
	cases := []struct {
		code int
		want error
	}{
		{550, ErrRecipientRejected},
		{551, ErrRecipientRejected},
		{553, ErrRecipientRejected},
		{552, ErrAttachmentTooLarge},
		{421, ErrTransportUnavailable},
		{554, ErrTransportUnavailable},
	}
	for _, tc := range cases {
		err := classifySMTPError(&textproto.Error{Code: tc.code, Msg: "nope"}, "to@example.com")
		assert.ErrorIs(t, err, tc.want, "code %d", tc.code)
	}

	err := classifySMTPError(errors.New("dial tcp: connection refused"), "to@example.com")
	assert.ErrorIs(t, err, ErrTransportUnavailable)
}
