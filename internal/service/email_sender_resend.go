package service

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/entity"

	"github.com/resend/resend-go/v2"
)

// ResendEmailSender delivers transactional mail through the Resend API.
// A zero-valued sender is inert; callers treat the interface as optional.
type ResendEmailSender struct {
	Client     *resend.Client
	From       string
	AppBaseURL string
	ResetPath  string
}

func NewResendEmailSender(apiKey string, from string, appBaseURL string) *ResendEmailSender {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return &ResendEmailSender{}
	}
	return &ResendEmailSender{
		Client:     resend.NewClient(apiKey),
		From:       from,
		AppBaseURL: strings.TrimRight(appBaseURL, "/"),
		ResetPath:  "/reset-password",
	}
}

func (s *ResendEmailSender) SendOrderConfirmation(ctx context.Context, email string, order *entity.Order) error {
	if s.Client == nil {
		return nil
	}
	subject := "Your order is confirmed"
	var lines strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&lines, "<li>%s x %d: %.2f</li>", item.Name, item.Quantity, item.FinalUnitPrice)
	}
	html := fmt.Sprintf(
		"<p>Thanks for your order!</p><ul>%s</ul><p>Total: <strong>%.2f</strong></p>",
		lines.String(), order.Total,
	)
	text := fmt.Sprintf("Thanks for your order! Total: %.2f", order.Total)
	return s.send(email, subject, html, text)
}

func (s *ResendEmailSender) SendPasswordResetEmail(ctx context.Context, email string, token string) error {
	if s.Client == nil {
		return nil
	}
	link := token
	if s.AppBaseURL != "" {
		link = fmt.Sprintf("%s%s?token=%s", s.AppBaseURL, s.ResetPath, token)
	}
	subject := "Reset your password"
	html := fmt.Sprintf("<p>Click to reset your password:</p><p><a href=\"%s\">Reset Password</a></p>", link)
	text := fmt.Sprintf("Reset your password: %s", link)
	return s.send(email, subject, html, text)
}

func (s *ResendEmailSender) send(to string, subject string, html string, text string) error {
	_, err := s.Client.Emails.Send(&resend.SendEmailRequest{
		From:    s.From,
		To:      []string{to},
		Subject: subject,
		Html:    html,
		Text:    text,
	})
	return err
}
