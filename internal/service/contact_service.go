package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cleanblog/internal/mailer"
	"github.com/cleanblog/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Mailer delivers a prepared message.
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// ErrMailerNotConfigured 在未配置邮件中继时由 Send 返回，同时满足 ErrDeliveryFailed
var ErrMailerNotConfigured = errors.New("mail relay is not configured")

type unconfiguredMailer struct{}

func (unconfiguredMailer) Send(context.Context, mailer.Message) error {
	return ErrMailerNotConfigured
}

// ContactMessage 是联系表单提交的内容
type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Body renders the fixed plaintext layout sent to the blog owner.
func (m ContactMessage) Body() string {
	return fmt.Sprintf("Name: %s\nEmail %s\nPhone: %s\nMessage: %s", m.Name, m.Email, m.Phone, m.Message)
}

// ContactService relays contact form submissions by mail. Delivery is
// synchronous and attempted once.
type ContactService struct {
	mailer    Mailer
	sender    string
	recipient string
	timeout   time.Duration
	log       logrus.FieldLogger
}

// NewContactService creates a ContactService that sends from sender to
// recipient. A nil m fails every delivery with ErrMailerNotConfigured.
func NewContactService(m Mailer, sender, recipient string, timeout time.Duration, log logrus.FieldLogger) *ContactService {
	if m == nil {
		m = unconfiguredMailer{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if recipient == "" {
		recipient = sender
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ContactService{
		mailer:    m,
		sender:    sender,
		recipient: recipient,
		timeout:   timeout,
		log:       log,
	}
}

// Send validates msg and hands it to the mail relay. Transport failures are
// reported as ErrDeliveryFailed.
func (s *ContactService) Send(ctx context.Context, msg ContactMessage) error {
	msg = ContactMessage{
		Name:    strings.TrimSpace(msg.Name),
		Email:   strings.TrimSpace(msg.Email),
		Phone:   strings.TrimSpace(msg.Phone),
		Message: strings.TrimSpace(msg.Message),
	}
	switch {
	case msg.Name == "":
		return requiredField("name")
	case msg.Email == "":
		return requiredField("email")
	case msg.Message == "":
		return requiredField("message")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.mailer.Send(ctx, mailer.Message{
		From:    s.sender,
		ReplyTo: msg.Email,
		To:      []string{s.recipient},
		Subject: fmt.Sprintf("New message from %s", msg.Name),
		Body:    msg.Body(),
	})
	metrics.RecordContactDelivery(err == nil)
	if err != nil {
		s.log.WithError(err).WithField("reply_to", msg.Email).Warn("contact delivery failed")
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	s.log.WithField("reply_to", msg.Email).Info("contact message sent")
	return nil
}
