package services

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier delivers reminder emails through an SMTP relay using STARTTLS
type SMTPNotifier struct {
	addr      string
	host      string
	auth      smtp.Auth
	fromEmail string
	fromName  string
	sendMail  sendMailFunc
	now       func() time.Time
}

func NewSMTPNotifier(host string, port int, username, password, fromEmail, fromName string) *SMTPNotifier {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	if fromEmail == "" {
		fromEmail = username
	}
	return &SMTPNotifier{
		addr:      net.JoinHostPort(host, strconv.Itoa(port)),
		host:      host,
		auth:      auth,
		fromEmail: fromEmail,
		fromName:  fromName,
		sendMail:  smtp.SendMail,
		now:       time.Now,
	}
}

// Send mails one multipart/alternative message addressed to every recipient.
// smtp.SendMail upgrades the connection with STARTTLS when the server offers it.
func (s *SMTPNotifier) Send(ctx context.Context, recipients []string, subject, text, html string) error {
	if len(recipients) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := s.buildMessage(recipients, subject, text, html)
	if err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}
	if err := s.sendMail(s.addr, s.auth, s.fromEmail, recipients, msg); err != nil {
		return fmt.Errorf("smtp delivery via %s failed: %w", s.addr, err)
	}
	return nil
}

func (s *SMTPNotifier) buildMessage(recipients []string, subject, text, html string) ([]byte, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	for _, part := range []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=UTF-8", text},
		{"text/html; charset=UTF-8", html},
	} {
		pw, err := w.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.contentType},
			"Content-Transfer-Encoding": {"8bit"},
		})
		if err != nil {
			return nil, err
		}
		if _, err := pw.Write([]byte(part.content)); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	from := mail.Address{Name: s.fromName, Address: s.fromEmail}
	var msg bytes.Buffer
	header := func(k, v string) { fmt.Fprintf(&msg, "%s: %s\r\n", k, v) }
	header("From", from.String())
	header("To", strings.Join(recipients, ", "))
	header("Subject", mime.QEncoding.Encode("UTF-8", subject))
	header("Date", s.now().Format(time.RFC1123Z))
	header("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), s.host))
	header("MIME-Version", "1.0")
	header("Content-Type", "multipart/alternative; boundary="+w.Boundary())
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}
