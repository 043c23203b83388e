package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/yourusername/examine-api/internal/service/scoring"
)

// ReportEmail — письмо с отчетом во вложении
type ReportEmail struct {
	QuizName     string
	AspirantName string
	Result       scoring.Result
	TimeTaken    string
	Filename     string
	Content      []byte
	// IdempotencyKey защищает от повторной отправки при ретраях клиента
	IdempotencyKey string
}

// ReportMailer отправляет отчеты по почте
type ReportMailer interface {
	SendReport(ctx context.Context, toEmail string, msg ReportEmail) error
}

// NoopReportMailer используется, когда отправка почты не настроена
type NoopReportMailer struct{}

func (s *NoopReportMailer) SendReport(ctx context.Context, toEmail string, msg ReportEmail) error {
	log.Printf("[EmailService] noop send report %s to=%s", msg.Filename, toEmail)
	return nil
}

// ResendReportMailer отправляет письма через Resend REST API
type ResendReportMailer struct {
	from   string
	client *resend.Client
}

func NewResendReportMailer(apiKey, from string) (*ResendReportMailer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendReportMailer{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

func (s *ResendReportMailer) SendReport(ctx context.Context, toEmail string, msg ReportEmail) error {
	if toEmail == "" || len(msg.Content) == 0 {
		return fmt.Errorf("toEmail and report content are required")
	}

	params := buildReportEmail(s.from, toEmail, msg)
	options := &resend.SendEmailOptions{}
	if strings.TrimSpace(msg.IdempotencyKey) != "" {
		options.IdempotencyKey = strings.TrimSpace(msg.IdempotencyKey)
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.client.Emails.SendWithOptions(ctx, params, options)
		if err == nil {
			log.Printf("[EmailService] Отчет %s отправлен на %s", msg.Filename, toEmail)
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

// buildReportEmail собирает письмо с кратким итогом и PDF во вложении
func buildReportEmail(from, toEmail string, msg ReportEmail) *resend.SendEmailRequest {
	greeting := "Hello"
	if msg.AspirantName != "" {
		greeting = "Hello " + msg.AspirantName
	}
	summary := fmt.Sprintf("Score: %d%% (%d of %d correct, %d attempted). Time taken: %s.",
		msg.Result.Percentage, msg.Result.Correct, msg.Result.Total, msg.Result.Attempted, msg.TimeTaken)

	return &resend.SendEmailRequest{
		From:    from,
		To:      []string{toEmail},
		Subject: fmt.Sprintf("Your result: %s", msg.QuizName),
		Text:    fmt.Sprintf("%s,\n\nYour report for %q is attached.\n%s\n", greeting, msg.QuizName, summary),
		Html: fmt.Sprintf("<p>%s,</p><p>Your report for <strong>%s</strong> is attached.</p><p>%s</p>",
			html.EscapeString(greeting), html.EscapeString(msg.QuizName), html.EscapeString(summary)),
		Attachments: []*resend.Attachment{
			{Content: msg.Content, Filename: msg.Filename},
		},
	}
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
