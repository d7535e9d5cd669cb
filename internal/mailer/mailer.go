// Package mailer delivers plaintext messages through an SMTP relay.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
)

// Message is a single plaintext email.
type Message struct {
	From    string
	ReplyTo string
	To      []string
	Subject string
	Body    string
}

// Config 描述 SMTP 中继的连接信息
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPMailer sends each message over its own connection. STARTTLS is
// mandatory; the relay must offer it or the send fails.
type SMTPMailer struct {
	cfg  Config
	dial func(ctx context.Context, client *mail.Client, msg *mail.Msg) error
}

// NewSMTPMailer creates an SMTPMailer for cfg.
func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{
		cfg: cfg,
		dial: func(ctx context.Context, client *mail.Client, msg *mail.Msg) error {
			return client.DialAndSendWithContext(ctx, msg)
		},
	}
}

// Send builds the message and hands it to the relay.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	built, err := buildMessage(msg)
	if err != nil {
		return err
	}

	if strings.TrimSpace(m.cfg.Host) == "" {
		return errors.New("smtp host is not configured")
	}

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := m.dial(ctx, client, built); err != nil {
		return fmt.Errorf("send via %s:%d: %w", m.cfg.Host, m.cfg.Port, err)
	}
	return nil
}

func buildMessage(msg Message) (*mail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, errors.New("message has no recipients")
	}

	built := mail.NewMsg()
	if err := built.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", msg.From, err)
	}
	if err := built.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := built.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to %q: %w", msg.ReplyTo, err)
		}
	}

	built.Subject(msg.Subject)
	built.SetDate()
	built.SetMessageIDWithValue(uuid.NewString() + "@cleanblog")
	built.SetBodyString(mail.TypeTextPlain, msg.Body)
	return built, nil
}
