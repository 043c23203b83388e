package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/examine-api/internal/service/scoring"
)

func TestBuildReportEmail(t *testing.T) {
	msg := ReportEmail{
		QuizName:     "<Physics>",
		AspirantName: "Ann",
		Result:       scoring.Result{Total: 5, Attempted: 3, Correct: 2, Percentage: 40},
		TimeTaken:    "2 minutes 5 seconds",
		Filename:     "Physics-result.pdf",
		Content:      []byte("%PDF-1.3"),
	}

	req := buildReportEmail("noreply@example.com", "ann@example.com", msg)

	assert.Equal(t, "noreply@example.com", req.From)
	assert.Equal(t, []string{"ann@example.com"}, req.To)
	assert.Equal(t, "Your result: <Physics>", req.Subject)
	assert.Contains(t, req.Text, "Hello Ann")
	assert.Contains(t, req.Text, "Score: 40% (2 of 5 correct, 3 attempted). Time taken: 2 minutes 5 seconds.")
	assert.Contains(t, req.Html, "&lt;Physics&gt;", "название экранируется в HTML")
	require.Len(t, req.Attachments, 1)
	assert.Equal(t, "Physics-result.pdf", req.Attachments[0].Filename)
	assert.Equal(t, []byte("%PDF-1.3"), req.Attachments[0].Content)
}

func TestNewResendReportMailer_RequiresConfig(t *testing.T) {
	_, err := NewResendReportMailer("", "a@b.c")
	assert.Error(t, err)
	_, err = NewResendReportMailer("re_key", "")
	assert.Error(t, err)
	m, err := NewResendReportMailer("re_key", "a@b.c")
	require.NoError(t, err)
	assert.Error(t, m.SendReport(context.Background(), "", ReportEmail{}), "пустое письмо не отправляется")
}

func TestResendRetryDelay(t *testing.T) {
	testCases := []struct {
		name      string
		err       error
		attempt   int
		wantDelay time.Duration
		wantRetry bool
	}{
		{"rate limit с Retry-After", &resend.RateLimitError{RetryAfter: "2"}, 0, 2 * time.Second, true},
		{"rate limit без Retry-After", &resend.RateLimitError{}, 1, 2 * time.Second, true},
		{"rate limit с большим Retry-After", &resend.RateLimitError{RetryAfter: "120"}, 0, 30 * time.Second, true},
		{"таймаут", errors.New("request timeout"), 0, 500 * time.Millisecond, true},
		{"прочее", errors.New("invalid api key"), 0, 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			delay, retry := resendRetryDelay(tc.err, tc.attempt)
			assert.Equal(t, tc.wantRetry, retry)
			assert.Equal(t, tc.wantDelay, delay)
		})
	}
}

func TestNoopReportMailer(t *testing.T) {
	assert.NoError(t, (&NoopReportMailer{}).SendReport(context.Background(), "a@b.c", ReportEmail{Filename: "x.pdf"}))
}
