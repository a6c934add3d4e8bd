package services

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"

	"github.com/magabrotheeeer/coach-platform/internal/config"
	"github.com/magabrotheeeer/coach-platform/internal/lib/sl"
	"github.com/magabrotheeeer/coach-platform/internal/models"
)

// SenderService отправляет письма-напоминания об окончании пробного периода.
type SenderService struct {
	cfg *config.Config
	log *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(cfg *config.Config, log *slog.Logger) *SenderService {
	return &SenderService{
		cfg: cfg,
		log: log,
	}
}

// ComposeTrialReminder собирает тему и текст письма по данным напоминания.
func ComposeTrialReminder(reminder models.TrialReminder) (subject, bodyText string) {
	subject = "Tu periodo de prueba termina pronto"
	bodyText = fmt.Sprintf("¡Hola!\n\nTu periodo de prueba del programa %s termina mañana.\n\n"+
		"Para seguir entrenando sin interrupciones, activa tu acceso completo.",
		reminder.ProgramTitle)
	return subject, bodyText
}

// SendTrialReminder разбирает сообщение из очереди и отправляет письмо по SMTP.
func (s *SenderService) SendTrialReminder(body []byte) error {
	var reminder models.TrialReminder
	if err := json.Unmarshal(body, &reminder); err != nil {
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{reminder.Email}
	subject, bodyText := ComposeTrialReminder(reminder)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", s.cfg.SMTPUser),
		fmt.Sprintf("To: %s", strings.Join(to, ";")),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		s.log.Error("failed to dial SMTP server", sl.Err(err))
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}

	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		s.log.Error("failed to create SMTP client", sl.Err(err))
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName: s.cfg.SMTPHost,
	}
	ok, _ := client.Extension("STARTTLS")
	if !ok {
		s.log.Error("SMTP server does not support STARTTLS")
		return fmt.Errorf("smtp server does not support STARTTLS")
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		s.log.Error("failed to start TLS", sl.Err(err))
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	if err = client.Auth(auth); err != nil {
		s.log.Error("smtp auth failed", sl.Err(err))
		return fmt.Errorf("smtp auth failed: %w", err)
	}

	if err = client.Mail(s.cfg.SMTPUser); err != nil {
		s.log.Error("failed to set mail sender", sl.Err(err))
		return fmt.Errorf("failed to set mail sender: %w", err)
	}

	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			s.log.Error("failed to set recipient", sl.Err(err))
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get write closer", sl.Err(err))
		return fmt.Errorf("failed to get write closer: %w", err)
	}
	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("failed to write message", sl.Err(err))
		return fmt.Errorf("failed to write message: %w", err)
	}
	err = wc.Close()
	if err != nil {
		s.log.Error("failed to close write closer", sl.Err(err))
		return fmt.Errorf("failed to close write closer: %w", err)
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return fmt.Errorf("failed to quit SMTP client: %w", err)
	}

	s.log.Info("trial reminder sent", "to", to)
	return nil
}
