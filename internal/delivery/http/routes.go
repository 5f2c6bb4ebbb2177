package http

import (
	"github.com/gin-gonic/gin"

	"github.com/seooptima/backend/config"
	"github.com/seooptima/backend/internal/usecase"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, auth *usecase.AuthService) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public auth endpoints
		auth1 := v1.Group("/auth")
		{
			auth1.POST("/register", handler.Register)
			auth1.POST("/verify", handler.VerifyOTP)
			auth1.POST("/resend", handler.ResendOTP)
			auth1.POST("/login", handler.Login)
			auth1.GET("/google", handler.GoogleLogin)
			auth1.GET("/google/callback", handler.GoogleCallback)
		}

		// Google redirects land here, outside the auth middleware; the
		// OAuth state ties the callback to its user.
		v1.GET("/search-console/callback", handler.SearchConsoleCallback)

		// Everything below requires a session
		authed := v1.Group("")
		authed.Use(AuthMiddleware(auth))
		{
			authed.POST("/auth/logout", handler.Logout)
			authed.GET("/auth/me", handler.Me)

			authed.GET("/dashboard", handler.DashboardOverview)

			pagespeed := authed.Group("/pagespeed")
			{
				pagespeed.POST("", handler.RunPageSpeed)
				pagespeed.GET("", handler.ListPageSpeed)
				pagespeed.GET("/:id", handler.PageSpeedDetail)
				pagespeed.DELETE("/:id", handler.DeletePageSpeed)
			}

			authed.POST("/headers", handler.ExtractHeaders)

			images := authed.Group("/images")
			{
				images.POST("", handler.RunImageAnalysis)
				images.GET("", handler.ListImageAnalyses)
				images.GET("/:id", handler.ImageAnalysisDetail)
				images.DELETE("/:id", handler.DeleteImageAnalysis)
			}

			sc := authed.Group("/search-console")
			{
				sc.GET("/connect", handler.ConnectSearchConsole)
				sc.GET("/status", handler.SearchConsoleStatus)
				sc.DELETE("", handler.DisconnectSearchConsole)
			}

			keywords := authed.Group("/keywords")
			{
				keywords.POST("", handler.RunKeywords)
				keywords.GET("", handler.ListKeywords)
				keywords.GET("/:id", handler.KeywordsDetail)
				keywords.DELETE("/:id", handler.DeleteKeywords)
			}

			reports := authed.Group("/reports")
			{
				reports.POST("", handler.GenerateReport)
				reports.GET("", handler.ListReports)
				reports.GET("/:id", handler.ReportDetail)
				reports.GET("/:id/download", handler.DownloadReport)
				reports.POST("/:id/regenerate", handler.RegenerateReport)
				reports.DELETE("/:id", handler.DeleteReport)
			}
		}
	}

	return router
}
