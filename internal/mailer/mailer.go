package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"

	"dubexpo/internal/model"
)

type Config struct {
	Host     string
	Port     int
	From     string
	Password string
}

// Enabled reports whether the SMTP section was configured. An unset mailer
// degrades to log-only notifications.
func (c Config) Enabled() bool {
	return c.Host != "" && c.From != ""
}

func SendRegistrationEmail(log *zerolog.Logger, cfg Config, status, recipientEmail, firstName string) error {
	if !cfg.Enabled() {
		log.Info().Str("email", recipientEmail).Str("status", status).
			Msg("mailer not configured, skipping notification")
		return nil
	}

	var subject, body string
	switch status {
	case model.StatusPending:
		subject = "Votre inscription a bien été reçue"
		body = fmt.Sprintf("Bonjour %s,\n\nNous avons bien reçu votre inscription à la Dubai Business Expedition. Notre équipe revient vers vous sous 48h.", firstName)
	case model.StatusApproved:
		subject = "Votre inscription est confirmée"
		body = fmt.Sprintf("Bonjour %s,\n\nVotre inscription à la Dubai Business Expedition est confirmée. Bienvenue à bord !", firstName)
	case model.StatusRejected:
		subject = "Votre inscription n'a pas pu être retenue"
		body = fmt.Sprintf("Bonjour %s,\n\nNous sommes au regret de vous informer que votre inscription n'a pas pu être retenue pour cette édition.", firstName)
	default:
		return fmt.Errorf("no mail template for status %q", status)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		cfg.From, recipientEmail, subject, body,
	)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	auth := smtp.PlainAuth("", cfg.From, cfg.Password, cfg.Host)

	if err := smtp.SendMail(addr, auth, cfg.From, []string{recipientEmail}, []byte(msg)); err != nil {
		log.Warn().Msgf("failed to send email to %s: %v", recipientEmail, err)
		return fmt.Errorf("send email: %w", err)
	}

	log.Info().Msgf("notification email sent to %s (status: %s)", recipientEmail, status)
	return nil
}
