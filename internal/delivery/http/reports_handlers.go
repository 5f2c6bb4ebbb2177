package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seooptima/backend/internal/domain"
	"github.com/seooptima/backend/internal/usecase"
)

type generateReportRequest struct {
	Type                   string `json:"type" binding:"required,oneof=free paid"`
	Title                  string `json:"title" binding:"required"`
	Description            string `json:"description"`
	PageSpeedAnalysisID    *int64 `json:"pagespeedAnalysisId"`
	KeywordAnalysisID      *int64 `json:"keywordAnalysisId"`
	ImageAnalysisID        *int64 `json:"imageAnalysisId"`
	HeadersURL             string `json:"headersUrl"`
	IncludeRecommendations *bool  `json:"includeRecommendations"`
	IncludeCharts          *bool  `json:"includeCharts"`
}

// GenerateReport assembles a PDF report from the selected sections.
func (h *Handler) GenerateReport(c *gin.Context) {
	var req generateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := usecase.GenerateReportParams{
		Type:                   domain.ReportType(req.Type),
		Title:                  req.Title,
		Description:            req.Description,
		PageSpeedAnalysisID:    req.PageSpeedAnalysisID,
		KeywordAnalysisID:      req.KeywordAnalysisID,
		ImageAnalysisID:        req.ImageAnalysisID,
		HeadersURL:             req.HeadersURL,
		IncludeRecommendations: true,
		IncludeCharts:          true,
	}
	if req.IncludeRecommendations != nil {
		params.IncludeRecommendations = *req.IncludeRecommendations
	}
	if req.IncludeCharts != nil {
		params.IncludeCharts = *req.IncludeCharts
	}

	report, err := h.reports.Generate(c.Request.Context(), currentUser(c), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// ReportDetail returns one report record.
func (h *Handler) ReportDetail(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	report, err := h.reports.Detail(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListReports pages through the user's reports.
func (h *Handler) ListReports(c *gin.Context) {
	opts := listOptions(c)
	reports, total, err := h.reports.List(c.Request.Context(), currentUser(c).ID, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, reports, total, opts)
}

// DownloadReport streams the PDF as an attachment.
func (h *Handler) DownloadReport(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	path, title, err := h.reports.FilePath(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, fmt.Sprintf("%s.pdf", title))
}

// RegenerateReport re-renders a report from its stored references.
func (h *Handler) RegenerateReport(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	report, err := h.reports.Regenerate(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// DeleteReport removes a report and its file.
func (h *Handler) DeleteReport(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.reports.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "report deleted"})
}
