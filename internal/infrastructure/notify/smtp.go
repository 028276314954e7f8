package notify

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/ports"
)

const resetSubject = "Attendance Reset Notification"

// SMTPConfig holds the relay settings. Username may be empty for relays that
// do not require authentication.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier sends reset notices as plain-text email.
type SMTPNotifier struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	now  func() time.Time
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPNotifier{cfg: cfg, send: smtp.SendMail, now: time.Now}
}

// NotifyReset emails the subject. net/smtp has no context support, so ctx is
// only checked before dialing.
func (n *SMTPNotifier) NotifyReset(ctx context.Context, notice ports.ResetNotice) error {
	if notice.Email == "" {
		return fmt.Errorf("notify reset %s: subject has no email", notice.SubjectID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))

	if err := n.send(addr, auth, n.cfg.From, []string{notice.Email}, n.message(notice)); err != nil {
		return fmt.Errorf("notify reset %s: %w", notice.SubjectID, err)
	}
	return nil
}

func (n *SMTPNotifier) message(notice ports.ResetNotice) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", n.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", notice.Email)
	fmt.Fprintf(&b, "Subject: %s\r\n", resetSubject)
	fmt.Fprintf(&b, "Date: %s\r\n", n.now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(body(notice))
	return b.Bytes()
}

func body(notice ports.ResetNotice) string {
	name := strings.TrimSpace(notice.Name)
	if name == "" {
		name = "student"
	}
	return fmt.Sprintf(
		"Dear %s,\r\n\r\nYour attendance for %s has been reset by your supervisor.\r\n"+
			"Please mark your attendance again during the attendance window.\r\n",
		name, notice.Date.Format("2006-01-02"),
	)
}

// LogNotifier records notices in the log. It is used when no SMTP relay is
// configured.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n LogNotifier) NotifyReset(_ context.Context, notice ports.ResetNotice) error {
	n.Log.Info().
		Str("subject_id", notice.SubjectID).
		Str("email", notice.Email).
		Str("date", notice.Date.Format("2006-01-02")).
		Int64("deleted", notice.DeletedCount).
		Msg("attendance reset notice (smtp disabled)")
	return nil
}
