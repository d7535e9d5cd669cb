package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cleanblog/internal/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	sent     []mailer.Message
	err      error
	deadline bool
}

func (m *recordingMailer) Send(ctx context.Context, msg mailer.Message) error {
	_, m.deadline = ctx.Deadline()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func TestContactService_SendFormatsMessage(t *testing.T) {
	fake := &recordingMailer{}
	svc := NewContactService(fake, "owner@example.com", "", time.Second, quietLogger())

	err := svc.Send(context.Background(), ContactMessage{
		Name:    "Ada",
		Email:   "ada@example.com",
		Phone:   "555-0100",
		Message: "Loved the post",
	})
	require.NoError(t, err)
	require.Len(t, fake.sent, 1)

	sent := fake.sent[0]
	assert.Equal(t, "owner@example.com", sent.From)
	assert.Equal(t, []string{"owner@example.com"}, sent.To)
	assert.Equal(t, "ada@example.com", sent.ReplyTo)
	assert.Equal(t, "Name: Ada\nEmail ada@example.com\nPhone: 555-0100\nMessage: Loved the post", sent.Body)
	assert.True(t, fake.deadline)
}

func TestContactService_SendUsesRecipient(t *testing.T) {
	fake := &recordingMailer{}
	svc := NewContactService(fake, "relay@example.com", "inbox@example.com", 0, quietLogger())

	require.NoError(t, svc.Send(context.Background(), ContactMessage{Name: "A", Email: "a@example.com", Message: "m"}))
	assert.Equal(t, []string{"inbox@example.com"}, fake.sent[0].To)
}

func TestContactService_SendWrapsDeliveryFailure(t *testing.T) {
	transport := errors.New("535 authentication failed")
	svc := NewContactService(&recordingMailer{err: transport}, "owner@example.com", "", time.Second, quietLogger())

	err := svc.Send(context.Background(), ContactMessage{Name: "A", Email: "a@example.com", Message: "m"})
	require.ErrorIs(t, err, ErrDeliveryFailed)
	assert.Contains(t, err.Error(), "535")
}

func TestContactService_SendValidates(t *testing.T) {
	fake := &recordingMailer{}
	svc := NewContactService(fake, "owner@example.com", "", time.Second, quietLogger())

	err := svc.Send(context.Background(), ContactMessage{Name: "A", Email: "a@example.com"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, fake.sent)
}

func TestContactService_NilMailerFailsDelivery(t *testing.T) {
	svc := NewContactService(nil, "owner@example.com", "", time.Second, quietLogger())

	err := svc.Send(context.Background(), ContactMessage{Name: "A", Email: "a@example.com", Message: "m"})
	require.ErrorIs(t, err, ErrDeliveryFailed)
	assert.ErrorIs(t, err, ErrMailerNotConfigured)
}
