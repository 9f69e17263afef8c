// Package email delivers advisor notification mail over SMTP.
package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"

	"onderwijsloket_backend/platform/config"
)

// Sender delivers advisor notifications.
type Sender interface {
	SendConversationStarted(ctx context.Context, toEmail, userName string) error
	SendPhaseAdvanced(ctx context.Context, toEmail, userName, oldPhase, newPhase string) error
}

// SMTPSender implements Sender using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a sender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

var _ Sender = (*SMTPSender)(nil)

// SendConversationStarted notifies the advisor inbox that a user opened
// their first conversation.
func (s *SMTPSender) SendConversationStarted(ctx context.Context, toEmail, userName string) error {
	content, err := renderEmailTemplate("conversation_started.html", conversationStartedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Nieuw gesprek gestart",
			Heading: "Nieuw gesprek gestart",
		},
		UserName: userName,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectConversationStarted, content)
}

// SendPhaseAdvanced notifies the advisor inbox that a user moved to a new
// orientation phase.
func (s *SMTPSender) SendPhaseAdvanced(ctx context.Context, toEmail, userName, oldPhase, newPhase string) error {
	subject := fmt.Sprintf(subjectPhaseAdvancedFmt, newPhase)
	content, err := renderEmailTemplate("phase_advanced.html", phaseAdvancedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Gebruiker naar nieuwe fase",
			Heading: "Gebruiker naar nieuwe fase",
		},
		UserName: userName,
		OldPhase: oldPhase,
		NewPhase: newPhase,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
