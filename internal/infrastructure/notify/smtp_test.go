package notify

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/ports"
)

type sentMail struct {
	addr string
	auth smtp.Auth
	from string
	to   []string
	msg  string
}

func newTestNotifier(cfg SMTPConfig, sent *[]sentMail, err error) *SMTPNotifier {
	n := NewSMTPNotifier(cfg)
	n.now = func() time.Time { return time.Date(2026, time.October, 16, 21, 0, 0, 0, time.UTC) }
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		*sent = append(*sent, sentMail{addr: addr, auth: a, from: from, to: to, msg: string(msg)})
		return err
	}
	return n
}

func notice() ports.ResetNotice {
	return ports.ResetNotice{
		SubjectID:    "s1",
		Name:         "Asha",
		Email:        "asha@example.com",
		Date:         time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC),
		DeletedCount: 1,
	}
}

func TestSMTPNotifier_SendsResetMail(t *testing.T) {
	var sent []sentMail
	n := newTestNotifier(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "bot@example.com", Password: "x"}, &sent, nil)

	require.NoError(t, n.NotifyReset(context.Background(), notice()))
	require.Len(t, sent, 1)

	m := sent[0]
	assert.Equal(t, "smtp.example.com:587", m.addr)
	assert.NotNil(t, m.auth)
	assert.Equal(t, "bot@example.com", m.from, "From falls back to the username")
	assert.Equal(t, []string{"asha@example.com"}, m.to)
	assert.Contains(t, m.msg, "Subject: Attendance Reset Notification\r\n")
	assert.Contains(t, m.msg, "Dear Asha")
	assert.Contains(t, m.msg, "2026-10-16")
	assert.True(t, strings.Contains(m.msg, "\r\n\r\n"), "headers and body must be separated")
}

func TestSMTPNotifier_NoAuthWithoutUsername(t *testing.T) {
	var sent []sentMail
	n := newTestNotifier(SMTPConfig{Host: "relay", Port: 25, From: "noreply@example.com"}, &sent, nil)

	require.NoError(t, n.NotifyReset(context.Background(), notice()))
	require.Len(t, sent, 1)
	assert.Nil(t, sent[0].auth)
}

func TestSMTPNotifier_Errors(t *testing.T) {
	var sent []sentMail
	n := newTestNotifier(SMTPConfig{Host: "relay", Port: 25}, &sent, errors.New("connection refused"))

	err := n.NotifyReset(context.Background(), notice())
	assert.ErrorContains(t, err, "connection refused")

	missing := notice()
	missing.Email = ""
	assert.Error(t, n.NotifyReset(context.Background(), missing))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.NotifyReset(ctx, notice()), context.Canceled)
	assert.Len(t, sent, 1)
}
