package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/logger"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/phaseconfig"
)

type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type emailService struct {
	sender mailSender
	from   *mail.Email
	dryRun bool
}

// NewEmailService delivers through SendGrid. With dryRun set messages are
// rendered and logged but not sent.
func NewEmailService(apiKey, fromEmail, fromName string, dryRun bool) EmailService {
	return &emailService{
		sender: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
		dryRun: dryRun,
	}
}

func (s *emailService) Send(ctx context.Context, msg domain.OutboundMessage) error {
	if msg.Recipient.Email == "" {
		return fmt.Errorf("email %s has no recipient", msg.Kind)
	}
	subject := phaseconfig.Render(msg.Subject, msg.Variables)
	body := phaseconfig.Render(msg.Body, msg.Variables)

	if s.dryRun {
		logger.Info("Email dry run", "kind", msg.Kind, "to", msg.Recipient.Email, "subject", subject)
		return nil
	}

	logger.ExternalServiceCall("sendgrid", "send", "kind", msg.Kind, "to", msg.Recipient.Email)
	m := mail.NewSingleEmail(s.from, subject, mail.NewEmail(msg.Recipient.Name, msg.Recipient.Email), body, "")
	resp, err := s.sender.SendWithContext(ctx, m)
	if err != nil {
		err = fmt.Errorf("failed to send email via sendgrid: %w", err)
	} else if resp.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", resp.StatusCode, resp.Body)
	}
	logger.ExternalServiceResult("sendgrid", "send", err, "kind", msg.Kind, "to", msg.Recipient.Email)
	return err
}
