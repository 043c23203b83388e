package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/examine-api/internal/domain/entity"
	apperrors "github.com/yourusername/examine-api/internal/pkg/errors"
	"github.com/yourusername/examine-api/internal/service/report"
	"github.com/yourusername/examine-api/internal/storage"
)

// ErrDeliveryFailed — отчет построен, но не доставлен (почта)
var ErrDeliveryFailed = errors.New("report delivery failed")

// ReportBranding — оформление отчета: тексты и шрифт PDF
type ReportBranding struct {
	ProductName string
	Tagline     string
	Credits     []string
	// FontPath — TTF для текста вне cp1252; пустой путь оставляет Helvetica
	FontPath string
}

// RenderedReport — готовый файл отчета
type RenderedReport struct {
	Filename    string
	ContentType string
	Content     []byte
	Document    *report.Document
	// ArchiveURL пуст, если архив выключен или сохранение не удалось
	ArchiveURL   string
	ArchiveError string
}

// ReportService строит отчеты и (опционально) архивирует и отправляет их
type ReportService struct {
	branding ReportBranding
	measurer report.TextMeasurer
	archive  storage.ReportArchive
	mailer   ReportMailer
	clock    func() time.Time
}

// NewReportService создает сервис отчетов. measurer nil означает метрики fpdf
// (свой измеритель на каждый отчет), archive может быть nil, mailer nil означает NoopReportMailer.
func NewReportService(branding ReportBranding, measurer report.TextMeasurer, archive storage.ReportArchive, mailer ReportMailer) *ReportService {
	if mailer == nil {
		mailer = &NoopReportMailer{}
	}
	return &ReportService{
		branding: branding,
		measurer: measurer,
		archive:  archive,
		mailer:   mailer,
		clock:    time.Now,
	}
}

// Render строит отчет в формате pdf (по умолчанию) или xlsx.
// Ошибка архива не прерывает выдачу отчета, а возвращается в ArchiveError.
func (s *ReportService) Render(ctx context.Context, sessionID string, quiz *entity.Quiz, attempt *entity.Attempt, format string) (*RenderedReport, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = report.FormatPDF
	}
	if format != report.FormatPDF && format != report.FormatXLSX {
		return nil, fmt.Errorf("%w: unsupported report format %q (pdf, xlsx)", apperrors.ErrValidation, format)
	}

	font := report.PDFFont{Path: s.branding.FontPath}
	measurer := s.measurer
	if measurer == nil {
		// PDFMeasurer хранит состояние fpdf и не разделяется между запросами
		m, err := report.NewPDFMeasurer(font)
		if err != nil {
			return nil, err
		}
		measurer = m
	}

	doc, err := report.Build(quiz, attempt, report.Options{
		ProductName: s.branding.ProductName,
		Tagline:     s.branding.Tagline,
		Credits:     s.branding.Credits,
		GeneratedAt: s.clock(),
		Measurer:    measurer,
		Font:        font,
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if format == report.FormatXLSX {
		err = report.WriteXLSX(doc, quiz, attempt, &buf)
	} else {
		err = report.WritePDF(doc, &buf)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s report: %w", format, err)
	}

	rendered := &RenderedReport{
		Filename:    report.Filename(quiz.Name, format),
		ContentType: report.ContentType(format),
		Content:     buf.Bytes(),
		Document:    doc,
	}
	s.archiveReport(ctx, sessionID, rendered)
	return rendered, nil
}

// Email строит PDF-отчет и отправляет его на адрес toEmail
func (s *ReportService) Email(ctx context.Context, sessionID string, quiz *entity.Quiz, attempt *entity.Attempt, toEmail string) (*RenderedReport, error) {
	toEmail = strings.TrimSpace(toEmail)
	if toEmail == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}

	rendered, err := s.Render(ctx, sessionID, quiz, attempt, report.FormatPDF)
	if err != nil {
		return nil, err
	}

	msg := ReportEmail{
		QuizName:       quiz.Name,
		AspirantName:   attempt.AspirantName,
		Result:         rendered.Document.Result,
		TimeTaken:      rendered.Document.TimeTaken,
		Filename:       rendered.Filename,
		Content:        rendered.Content,
		IdempotencyKey: fmt.Sprintf("report-%s-%s-%d", sessionID, toEmail, attempt.StartTime.UnixNano()),
	}
	if err := s.mailer.SendReport(ctx, toEmail, msg); err != nil {
		log.Printf("[ReportService] Ошибка отправки отчета %s на %s: %v", rendered.Filename, toEmail, err)
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return rendered, nil
}

func (s *ReportService) archiveReport(ctx context.Context, sessionID string, rendered *RenderedReport) {
	if s.archive == nil {
		return
	}
	key := storage.ReportKey(s.clock(), sessionID, rendered.Filename)
	link, err := s.archive.Put(ctx, key, rendered.ContentType, bytes.NewReader(rendered.Content))
	if err != nil {
		log.Printf("[ReportService] Не удалось сохранить отчет %s в архив: %v", key, err)
		rendered.ArchiveError = "report was generated but could not be archived"
		return
	}
	rendered.ArchiveURL = link
}
