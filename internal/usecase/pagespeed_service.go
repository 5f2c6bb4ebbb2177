package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/seooptima/backend/internal/domain"
)

const pagespeedCachePrefix = "pagespeed:"

// PageSpeedServiceConfig holds configuration for the PageSpeed service.
type PageSpeedServiceConfig struct {
	CacheTTL time.Duration
}

// PageSpeedService runs PageSpeed analyses and manages their history.
type PageSpeedService struct {
	repo      domain.PageSpeedRepository
	client    domain.PageSpeedClient
	extractor domain.PageExtractor
	cache     domain.Cache
	cacheTTL  time.Duration
	now       func() time.Time
}

// NewPageSpeedService creates a PageSpeed service with its dependencies.
func NewPageSpeedService(
	repo domain.PageSpeedRepository,
	client domain.PageSpeedClient,
	extractor domain.PageExtractor,
	cache domain.Cache,
	config PageSpeedServiceConfig,
) *PageSpeedService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Minute
	}
	return &PageSpeedService{
		repo:      repo,
		client:    client,
		extractor: extractor,
		cache:     cache,
		cacheTTL:  cacheTTL,
		now:       time.Now,
	}
}

func pagespeedCacheKey(url string, strategy domain.Strategy) string {
	return fmt.Sprintf("%s%s|%s", pagespeedCachePrefix, url, strategy)
}

// Run analyzes a URL with the given strategy and persists the outcome.
// Identical recent requests are served from cache instead of hitting the
// API again; each run still gets its own history record.
func (s *PageSpeedService) Run(ctx context.Context, userID int64, url string, strategy domain.Strategy) (*domain.PageSpeedAnalysis, error) {
	if url == "" || !strategy.Valid() {
		return nil, domain.ErrInvalidRequest
	}

	result, err := s.cachedResult(ctx, url, strategy)
	if err != nil {
		return nil, err
	}

	// Header extraction is best effort: a page that blocks the fetch
	// still gets its PageSpeed record.
	var headers []domain.PageHeader
	if extracted, err := s.extractor.ExtractHeaders(ctx, url); err == nil {
		headers = extracted
	} else {
		log.Printf("[PageSpeed] Header extraction for %s failed: %v", url, err)
	}

	now := s.now().UTC()
	analysis := &domain.PageSpeedAnalysis{
		UserID:         userID,
		URL:            url,
		Strategy:       strategy,
		Scores:         result.Scores,
		Metrics:        result.Metrics,
		FieldData:      result.FieldData,
		ContentHeaders: headers,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.CreatePageSpeedAnalysis(ctx, analysis, result.Raw); err != nil {
		return nil, err
	}
	return analysis, nil
}

func (s *PageSpeedService) cachedResult(ctx context.Context, url string, strategy domain.Strategy) (*domain.PageSpeedResult, error) {
	key := pagespeedCacheKey(url, strategy)
	if raw, ok := s.cache.Get(key); ok {
		var result domain.PageSpeedResult
		if err := json.Unmarshal(raw, &result); err == nil {
			log.Printf("[PageSpeed] Cache hit for %s (%s)", url, strategy)
			return &result, nil
		}
		s.cache.Delete(key)
	}

	result, err := s.client.RunAnalysis(ctx, url, strategy)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(result); err == nil {
		s.cache.Set(key, encoded, s.cacheTTL)
	}
	return result, nil
}

// Detail returns one analysis owned by the user.
func (s *PageSpeedService) Detail(ctx context.Context, userID, id int64) (*domain.PageSpeedAnalysis, error) {
	return s.repo.PageSpeedAnalysis(ctx, userID, id)
}

// List pages through the user's analysis history.
func (s *PageSpeedService) List(ctx context.Context, userID int64, opts domain.ListOptions) ([]domain.PageSpeedAnalysis, int, error) {
	return s.repo.ListPageSpeedAnalyses(ctx, userID, opts)
}

// Delete removes one analysis owned by the user.
func (s *PageSpeedService) Delete(ctx context.Context, userID, id int64) error {
	return s.repo.DeletePageSpeedAnalysis(ctx, userID, id)
}
