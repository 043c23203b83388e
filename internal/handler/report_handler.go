package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/examine-api/internal/middleware"
	"github.com/yourusername/examine-api/internal/service"
)

// ReportHandler выдает отчет по завершенной попытке
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler создает новый обработчик отчетов
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// EmailReportRequest — адрес для отправки отчета
type EmailReportRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// DownloadReport отдает отчет файлом: ?format=pdf (по умолчанию) или xlsx
func (h *ReportHandler) DownloadReport(c *gin.Context) {
	session := middleware.SessionFrom(c)

	quiz, ended, err := session.Ended()
	if err != nil {
		handleError(c, err)
		return
	}

	rendered, err := h.reportService.Render(c.Request.Context(), session.ID(), quiz, ended, c.Query("format"))
	if err != nil {
		handleError(c, err)
		return
	}

	if rendered.ArchiveURL != "" {
		c.Header("X-Report-Archive-URL", rendered.ArchiveURL)
	}
	if rendered.ArchiveError != "" {
		c.Header("X-Report-Archive-Warning", rendered.ArchiveError)
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rendered.Filename))
	c.Data(http.StatusOK, rendered.ContentType, rendered.Content)
}

// EmailReport отправляет PDF-отчет на указанный адрес
func (h *ReportHandler) EmailReport(c *gin.Context) {
	session := middleware.SessionFrom(c)

	var req EmailReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	quiz, ended, err := session.Ended()
	if err != nil {
		handleError(c, err)
		return
	}

	rendered, err := h.reportService.Email(c.Request.Context(), session.ID(), quiz, ended, req.Email)
	if err != nil {
		handleError(c, err)
		return
	}

	resp := gin.H{"message": "Report sent", "filename": rendered.Filename}
	if rendered.ArchiveURL != "" {
		resp["archive_url"] = rendered.ArchiveURL
	}
	if rendered.ArchiveError != "" {
		resp["archive_warning"] = rendered.ArchiveError
	}
	c.JSON(http.StatusAccepted, resp)
}
