package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendDisabledMailer(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Enabled: false})

	// Disabled mailer logs instead of dialing a relay.
	err := m.Send("guest@example.com", "Booking Confirmation", "body")
	assert.NoError(t, err)
}

func TestSendRequiresRecipient(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Enabled: false})

	err := m.Send("", "Booking Confirmation", "body")
	require.Error(t, err)

	err = m.Send("   ", "Booking Confirmation", "body")
	require.Error(t, err)
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("noreply@travel.test", "guest@example.com", "Booking Confirmation", "Dear Alice"))

	assert.Contains(t, msg, "From: noreply@travel.test\r\n")
	assert.Contains(t, msg, "To: guest@example.com\r\n")
	assert.Contains(t, msg, "Subject: Booking Confirmation\r\n")
	assert.Contains(t, msg, "\r\n\r\nDear Alice")
}
