package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EmailService defines the outbound email operations the notification
// dispatcher needs. Transport reliability is out of scope: callers treat
// every send as best-effort.
type EmailService interface {
	SendPlacementEmail(toEmail, companyName, studentName, programme string) error
	SendDecisionEmail(toEmail, studentName, decision, reason string) error
}

// SMTPConfig holds configuration for the SMTP server.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// EmailServiceImpl implements EmailService over plain SMTP.
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService.
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{config: config, logger: logger}
}

// SendPlacementEmail tells a company that a student has been placed with
// them and asks for a confirm/reject decision.
func (s *EmailServiceImpl) SendPlacementEmail(toEmail, companyName, studentName, programme string) error {
	if s.devMode() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("company", companyName).
			Str("student", studentName).
			Msg("SMTP credentials not configured - placement email not sent")
		return nil
	}
	subject := fmt.Sprintf("New LIA placement: %s", studentName)
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">New placement at %s</h2>
				<p>%s (%s) has been assigned to your company as a LIA placement.</p>
				<p>Please sign in to LiaHub to confirm or reject the placement.</p>
				<p>Best regards,<br>The LiaHub Team</p>
			</div>
		</body>
		</html>
	`, companyName, studentName, programme)
	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendDecisionEmail tells the school side that a company confirmed or
// rejected a placement.
func (s *EmailServiceImpl) SendDecisionEmail(toEmail, studentName, decision, reason string) error {
	if s.devMode() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("student", studentName).
			Str("decision", decision).
			Msg("SMTP credentials not configured - decision email not sent")
		return nil
	}
	subject := fmt.Sprintf("Placement %s: %s", decision, studentName)
	reasonLine := ""
	if reason != "" {
		reasonLine = fmt.Sprintf("<p>Reason: %s</p>", reason)
	}
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Placement %s</h2>
				<p>The placement for %s has been %s by the company.</p>
				%s
				<p>Best regards,<br>The LiaHub Team</p>
			</div>
		</body>
		</html>
	`, decision, studentName, decision, reasonLine)
	return s.sendHTMLEmail(toEmail, subject, body)
}

func (s *EmailServiceImpl) devMode() bool {
	return s.config.Username == "" || s.config.Password == ""
}

func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	headers := []string{
		fmt.Sprintf("From: %s <%s>", s.config.FromName, s.config.FromEmail),
		"To: " + toEmail,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}
	message := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, []byte(message)); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	tlsConfig := &tls.Config{ServerName: s.config.Host}
	conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
