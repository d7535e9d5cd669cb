package mailer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func TestBuildMessageWritesHeadersAndBody(t *testing.T) {
	built, err := buildMessage(Message{
		From:    "owner@example.com",
		ReplyTo: "visitor@example.com",
		To:      []string{"owner@example.com"},
		Subject: "New contact message",
		Body:    "Name: Ada\nMessage: hi",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = built.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "Subject: New contact message")
	assert.Contains(t, raw, "Reply-To: <visitor@example.com>")
	assert.Contains(t, raw, "@cleanblog>")
	assert.Contains(t, raw, "Name: Ada")
}

func TestBuildMessageRejectsBadAddresses(t *testing.T) {
	_, err := buildMessage(Message{From: "not an address", To: []string{"owner@example.com"}})
	assert.Error(t, err)

	_, err = buildMessage(Message{From: "owner@example.com"})
	assert.Error(t, err)
}

func TestSendWrapsTransportErrors(t *testing.T) {
	m := NewSMTPMailer(Config{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p"})
	transportErr := errors.New("connection refused")
	m.dial = func(context.Context, *mail.Client, *mail.Msg) error { return transportErr }

	err := m.Send(context.Background(), Message{
		From: "owner@example.com",
		To:   []string{"owner@example.com"},
		Body: "hello",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, transportErr)
	assert.Contains(t, err.Error(), "smtp.example.com:587")
}

func TestSendRequiresHost(t *testing.T) {
	m := NewSMTPMailer(Config{Port: 587})
	err := m.Send(context.Background(), Message{From: "a@example.com", To: []string{"b@example.com"}})
	assert.Error(t, err)
}
