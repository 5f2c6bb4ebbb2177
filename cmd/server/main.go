package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/seooptima/backend/config"
	httpDelivery "github.com/seooptima/backend/internal/delivery/http"
	"github.com/seooptima/backend/internal/infrastructure/cache"
	"github.com/seooptima/backend/internal/infrastructure/mailer"
	"github.com/seooptima/backend/internal/infrastructure/pagespeed"
	"github.com/seooptima/backend/internal/infrastructure/pdf"
	"github.com/seooptima/backend/internal/infrastructure/searchconsole"
	"github.com/seooptima/backend/internal/infrastructure/sqlite"
	"github.com/seooptima/backend/internal/infrastructure/webpage"
	"github.com/seooptima/backend/internal/usecase"
)

const sessionCleanupInterval = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting SEOptima Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	store, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()
	log.Printf("Database: %s", cfg.Database.Path)

	memoryCache := cache.NewMemoryCache(cfg.Cache.PageSpeedTTL, time.Minute)

	if cfg.PageSpeed.APIKey != "" {
		log.Printf("PageSpeed API configured: %s", cfg.PageSpeed.BaseURL)
	} else {
		log.Printf("WARNING: PageSpeed API key not configured - analysis calls will be throttled by Google")
	}
	pagespeedClient := pagespeed.NewClient(cfg.PageSpeed.APIKey, cfg.PageSpeed.BaseURL)

	extractor := webpage.NewExtractor(30 * time.Second)
	searchConsoleClient := searchconsole.NewClient()

	smtpMailer := mailer.NewSMTPMailer(mailer.Options{
		Server:   cfg.SMTP.Server,
		Port:     cfg.SMTP.Port,
		Email:    cfg.SMTP.Email,
		Password: cfg.SMTP.Password,
		FromName: cfg.SMTP.FromName,
	})

	reportGenerator, err := pdf.NewGenerator(cfg.Reports.Dir)
	if err != nil {
		log.Fatalf("Failed to prepare report directory: %v", err)
	}
	log.Printf("Reports directory: %s", cfg.Reports.Dir)

	// Initialize usecase layer
	authService := usecase.NewAuthService(store, store, store, memoryCache, smtpMailer, usecase.AuthServiceConfig{
		SessionTTL:     cfg.Auth.SessionTTL,
		OTPTTL:         cfg.Auth.OTPTTL,
		PendingTTL:     cfg.Auth.PendingTTL,
		StateTTL:       cfg.Cache.StateTTL,
		GoogleClientID: cfg.Google.ClientID,
		GoogleSecret:   cfg.Google.ClientSecret,
		RedirectURL:    cfg.Server.BaseURL + "/api/v1/auth/google/callback",
	})
	headersService := usecase.NewHeadersService(extractor)
	pagespeedService := usecase.NewPageSpeedService(store, pagespeedClient, extractor, memoryCache, usecase.PageSpeedServiceConfig{
		CacheTTL: cfg.Cache.PageSpeedTTL,
	})
	imagesService := usecase.NewImagesService(store, extractor)
	keywordsService := usecase.NewKeywordsService(store, store, searchConsoleClient, memoryCache, usecase.KeywordsServiceConfig{
		GoogleClientID: cfg.Google.ClientID,
		GoogleSecret:   cfg.Google.ClientSecret,
		RedirectURL:    cfg.Server.BaseURL + "/api/v1/search-console/callback",
		StateTTL:       cfg.Cache.StateTTL,
	})
	reportsService := usecase.NewReportService(store, store, store, store, headersService, reportGenerator)
	dashboardService := usecase.NewDashboardService(store, store, store, store)

	// Expired sessions pile up otherwise; sweep them in the background.
	go func() {
		ticker := time.NewTicker(sessionCleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			if err := authService.CleanupSessions(context.Background()); err != nil {
				log.Printf("[Auth] Session cleanup failed: %v", err)
			}
		}
	}()

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(
		authService,
		pagespeedService,
		headersService,
		imagesService,
		keywordsService,
		reportsService,
		dashboardService,
	)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, authService)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
