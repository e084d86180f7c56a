package services

import (
	"context"
	"fmt"
	"log/slog"

	"bodhini/internal/domain"
)

type emailService struct {
	mailer         domain.Mailer
	renderer       domain.EmailTemplateRenderer
	contactAddress string
	logger         *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
// Contact form messages are delivered to contactAddress.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, contactAddress string, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, contactAddress: contactAddress, logger: logger}
}

// SendWelcomeMessage sends a welcome email using the "welcome" template and the given data.
func (s *emailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome message data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("welcome", data)
	if err != nil {
		return fmt.Errorf("failed to render welcome template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	s.logger.InfoContext(ctx, "welcome email sent", "to", data.Email)
	return nil
}

// SendContactMessage forwards a contact form submission to the site's receiving address.
func (s *emailService) SendContactMessage(ctx context.Context, msg *domain.ContactMessage) error {
	if msg == nil {
		return fmt.Errorf("contact message is nil")
	}
	if s.contactAddress == "" {
		return fmt.Errorf("contact receiving address is not configured")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("contact_message", msg)
	if err != nil {
		return fmt.Errorf("failed to render contact_message template: %w", err)
	}
	if err := s.mailer.Send(ctx, s.contactAddress, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send contact message: %w", err)
	}
	s.logger.InfoContext(ctx, "contact message forwarded", "from", msg.Email)
	return nil
}
