package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"prepezia-be/internal/config"
	"prepezia-be/internal/pkg/logger"
)

type IEmailService interface {
	SendWelcomeEmail(toEmail, name string) error
}

type EmailService struct {
	dialer *gomail.Dialer
	from   string
	appURL string
	log    logger.ILogger
}

func NewEmailService(cfg *config.Config, log logger.ILogger) *EmailService {
	d := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Email, cfg.SMTP.Password)
	return &EmailService{
		dialer: d,
		from:   fmt.Sprintf("%s <%s>", cfg.SMTP.SenderName, cfg.SMTP.Email),
		appURL: cfg.App.ClientURL,
		log:    log,
	}
}

func (s *EmailService) SendWelcomeEmail(toEmail, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Welcome to Prepezia")
	m.SetBody("text/html", fmt.Sprintf(`
		<h2>Hi %s,</h2>
		<p>Welcome aboard! Your study space is ready.</p>
		<p>Create your first note and we will build quizzes, flashcards and more from it.</p>
		<p><a href="%s">Open Prepezia</a></p>
	`, name, s.appURL))

	if err := s.dialer.DialAndSend(m); err != nil {
		s.log.Error("mailer", "failed to send welcome email", map[string]interface{}{
			"to":    toEmail,
			"error": err.Error(),
		})
		return err
	}

	s.log.Info("mailer", "welcome email sent", map[string]interface{}{"to": toEmail})
	return nil
}
