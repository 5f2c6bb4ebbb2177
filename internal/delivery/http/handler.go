package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/seooptima/backend/internal/domain"
	"github.com/seooptima/backend/internal/usecase"
)

// Handler holds the usecase services the HTTP handlers delegate to.
type Handler struct {
	auth      *usecase.AuthService
	pagespeed *usecase.PageSpeedService
	headers   *usecase.HeadersService
	images    *usecase.ImagesService
	keywords  *usecase.KeywordsService
	reports   *usecase.ReportService
	dashboard *usecase.DashboardService
}

// NewHandler creates a new HTTP handler.
func NewHandler(
	auth *usecase.AuthService,
	pagespeed *usecase.PageSpeedService,
	headers *usecase.HeadersService,
	images *usecase.ImagesService,
	keywords *usecase.KeywordsService,
	reports *usecase.ReportService,
	dashboard *usecase.DashboardService,
) *Handler {
	return &Handler{
		auth:      auth,
		pagespeed: pagespeed,
		headers:   headers,
		images:    images,
		keywords:  keywords,
		reports:   reports,
		dashboard: dashboard,
	}
}

// HealthCheck returns the health status of the API.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "seooptima-backend",
		"version": "1.0.0",
	})
}

// respondError maps domain errors to HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNoReportSections):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidOTP),
		errors.Is(err, domain.ErrOTPExpired),
		errors.Is(err, domain.ErrInvalidSession),
		errors.Is(err, domain.ErrInvalidState):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrAccountInactive):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrPropertyNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNotConnected):
		status = http.StatusPreconditionFailed
	case errors.Is(err, domain.ErrPageSpeedAPIFailure),
		errors.Is(err, domain.ErrSearchConsoleAPIFailure),
		errors.Is(err, domain.ErrPageFetchFailure):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// currentUser returns the user the auth middleware attached to the context.
func currentUser(c *gin.Context) *domain.User {
	return c.MustGet(contextUserKey).(*domain.User)
}

// idParam parses the :id path parameter.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// listOptions reads pagination, sorting and filter query parameters.
func listOptions(c *gin.Context) domain.ListOptions {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	return domain.ListOptions{
		Strategy: c.Query("strategy"),
		Type:     c.Query("type"),
		SortBy:   c.Query("sort_by"),
		Page:     page,
		PerPage:  perPage,
	}
}

// paginated is the common envelope for list responses.
func paginated(c *gin.Context, items any, total int, opts domain.ListOptions) {
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	c.JSON(http.StatusOK, gin.H{
		"results":  items,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}
