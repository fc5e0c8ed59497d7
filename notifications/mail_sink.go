package notifications

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"
	mail "gopkg.in/mail.v2"

	"houseshow-backend/models"
	"houseshow-backend/services"
	"houseshow-backend/utils"
)

type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type mailSender interface {
	DialAndSend(m ...*mail.Message) error
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
}

func (c MailConfig) configured() bool {
	return c.Host != "" && c.Port != 0 && c.Username != "" && c.Password != ""
}

// MailSink emails the counter-party of a transition. Without SMTP settings it
// only logs what it would have sent.
type MailSink struct {
	users    UserLookup
	sender   mailSender
	from     string
	fromName string
	log      *zap.SugaredLogger
}

func NewMailSink(cfg MailConfig, users UserLookup, log *zap.SugaredLogger) *MailSink {
	s := &MailSink{
		users:    users,
		from:     cfg.Username,
		fromName: cfg.FromName,
		log:      log,
	}
	if cfg.configured() {
		s.sender = mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return s
}

func (s *MailSink) Name() string { return "mail" }

func (s *MailSink) Deliver(ctx context.Context, n services.TransitionNotice) error {
	msg := describe(n)
	var errs []error
	for _, id := range n.Recipients() {
		user, err := s.users.GetByID(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("recipient %s: %w", id, err))
			continue
		}
		if strings.TrimSpace(user.Email) == "" {
			continue
		}
		if s.sender == nil {
			s.log.Infow("[MOCK EMAIL] booking update", "to", utils.MaskEmail(user.Email), "subject", msg.Title, "booking_id", n.BookingID)
			continue
		}
		if err := s.sender.DialAndSend(s.compose(user, msg)); err != nil {
			errs = append(errs, fmt.Errorf("send to %s: %w", utils.MaskEmail(user.Email), err))
			continue
		}
		s.log.Debugw("booking email sent", "to", utils.MaskEmail(user.Email), "booking_id", n.BookingID)
	}
	return errors.Join(errs...)
}

func (s *MailSink) compose(to *models.User, msg Message) *mail.Message {
	name := singleLine(to.DisplayName)
	if name == "" {
		name = "there"
	}

	plainBody := fmt.Sprintf("Hi %s,\n\n%s\n\nYou can review the booking in the app.\n", name, msg.Body)
	htmlBody := fmt.Sprintf(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { background:#f5f7fb; font-family:Arial, Helvetica, sans-serif; color:#222; }
.container { max-width:640px; margin:20px auto; }
.card { background:#fff; border:1px solid #e6eef6; padding:24px; border-radius:8px; }
</style>
</head>
<body>
<div class="container">
  <div class="card">
    <h2>%s</h2>
    <p>Hi %s,</p>
    <p>%s</p>
    <p>You can review the booking in the app.</p>
  </div>
</div>
</body>
</html>`,
		html.EscapeString(msg.Title), html.EscapeString(msg.Title), html.EscapeString(name), html.EscapeString(msg.Body),
	)

	m := mail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", to.Email)
	m.SetHeader("Subject", singleLine(msg.Title))
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)
	return m
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// singleLine keeps user-supplied text on one line in headers and greetings.
func singleLine(v string) string {
	return lineBreaks.Replace(strings.TrimSpace(v))
}
