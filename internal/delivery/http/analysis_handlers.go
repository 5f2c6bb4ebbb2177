package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seooptima/backend/internal/domain"
)

type pagespeedRequest struct {
	URL      string `json:"url" binding:"required,url"`
	Strategy string `json:"strategy"`
}

type urlRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// RunPageSpeed analyzes a URL with PageSpeed Insights.
func (h *Handler) RunPageSpeed(c *gin.Context) {
	var req pagespeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	strategy := domain.Strategy(req.Strategy)
	if req.Strategy == "" {
		strategy = domain.StrategyMobile
	}

	analysis, err := h.pagespeed.Run(c.Request.Context(), currentUser(c).ID, req.URL, strategy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"analysis":      analysis,
		"scoreCategory": analysis.ScoreCategory(),
	})
}

// PageSpeedDetail returns one stored analysis.
func (h *Handler) PageSpeedDetail(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	analysis, err := h.pagespeed.Detail(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"analysis":      analysis,
		"scoreCategory": analysis.ScoreCategory(),
	})
}

// ListPageSpeed pages through the analysis history.
func (h *Handler) ListPageSpeed(c *gin.Context) {
	opts := listOptions(c)
	analyses, total, err := h.pagespeed.List(c.Request.Context(), currentUser(c).ID, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, analyses, total, opts)
}

// DeletePageSpeed removes one stored analysis.
func (h *Handler) DeletePageSpeed(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.pagespeed.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "analysis deleted"})
}

// ExtractHeaders returns the heading structure of a page.
func (h *Handler) ExtractHeaders(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := h.headers.Extract(c.Request.Context(), req.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, section)
}

// RunImageAnalysis audits the images of a page for alt text.
func (h *Handler) RunImageAnalysis(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, err := h.images.Run(c.Request.Context(), currentUser(c).ID, req.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"analysis":          analysis,
		"altTextPercentage": analysis.AltTextPercentage(),
	})
}

// ImageAnalysisDetail returns one stored audit.
func (h *Handler) ImageAnalysisDetail(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	analysis, err := h.images.Detail(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"analysis":          analysis,
		"altTextPercentage": analysis.AltTextPercentage(),
	})
}

// ListImageAnalyses pages through the audit history.
func (h *Handler) ListImageAnalyses(c *gin.Context) {
	opts := listOptions(c)
	analyses, total, err := h.images.List(c.Request.Context(), currentUser(c).ID, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, analyses, total, opts)
}

// DeleteImageAnalysis removes one stored audit.
func (h *Handler) DeleteImageAnalysis(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.images.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "analysis deleted"})
}

// DashboardOverview aggregates the user's analysis activity.
func (h *Handler) DashboardOverview(c *gin.Context) {
	overview, err := h.dashboard.Overview(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
