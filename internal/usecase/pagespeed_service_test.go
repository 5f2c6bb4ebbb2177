package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/seooptima/backend/internal/domain"
)

func scoreOf(v int) *int { return &v }

func sampleResult() *domain.PageSpeedResult {
	return &domain.PageSpeedResult{
		Scores: domain.Scores{
			Performance:   scoreOf(92),
			Accessibility: scoreOf(88),
			BestPractices: scoreOf(100),
			SEO:           scoreOf(90),
		},
		Metrics: domain.LabMetrics{
			LCP: &domain.LabMetric{Title: "Largest Contentful Paint", DisplayValue: "1.8 s", NumericValue: 1800},
		},
		Raw: []byte(`{"id":"raw"}`),
	}
}

func newTestPageSpeedService(client *fakePageSpeedClient, extractor *fakeExtractor) (*PageSpeedService, *fakePageSpeedRepo, *fakeCache) {
	repo := newFakePageSpeedRepo()
	cache := newFakeCache()
	service := NewPageSpeedService(repo, client, extractor, cache, PageSpeedServiceConfig{CacheTTL: 15 * time.Minute})
	return service, repo, cache
}

func TestPageSpeedRun(t *testing.T) {
	client := &fakePageSpeedClient{result: sampleResult()}
	extractor := &fakeExtractor{headers: []domain.PageHeader{{Level: "H1", Text: "Welcome"}}}
	service, repo, _ := newTestPageSpeedService(client, extractor)
	ctx := context.Background()

	analysis, err := service.Run(ctx, 1, "https://example.com", domain.StrategyMobile)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if analysis.ID == 0 {
		t.Error("analysis should be persisted with an ID")
	}
	if *analysis.Scores.Performance != 92 {
		t.Errorf("performance = %d, want 92", *analysis.Scores.Performance)
	}
	if len(analysis.ContentHeaders) != 1 {
		t.Errorf("content headers = %+v, want the extracted H1", analysis.ContentHeaders)
	}
	if string(repo.raws[analysis.ID]) != `{"id":"raw"}` {
		t.Error("raw API response should be stored alongside the analysis")
	}
}

func TestPageSpeedRunValidation(t *testing.T) {
	service, _, _ := newTestPageSpeedService(&fakePageSpeedClient{result: sampleResult()}, &fakeExtractor{})
	ctx := context.Background()

	if _, err := service.Run(ctx, 1, "", domain.StrategyMobile); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("empty URL error = %v, want ErrInvalidRequest", err)
	}
	if _, err := service.Run(ctx, 1, "https://example.com", "tablet"); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("bad strategy error = %v, want ErrInvalidRequest", err)
	}
}

func TestPageSpeedRunCachesAPIResponses(t *testing.T) {
	client := &fakePageSpeedClient{result: sampleResult()}
	service, _, _ := newTestPageSpeedService(client, &fakeExtractor{})
	ctx := context.Background()

	if _, err := service.Run(ctx, 1, "https://example.com", domain.StrategyMobile); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	second, err := service.Run(ctx, 1, "https://example.com", domain.StrategyMobile)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if client.calls != 1 {
		t.Errorf("API calls = %d, want 1 (second run served from cache)", client.calls)
	}
	if second.ID == 0 {
		t.Error("cached run still gets its own history record")
	}

	// Different strategy misses the cache.
	if _, err := service.Run(ctx, 1, "https://example.com", domain.StrategyDesktop); err != nil {
		t.Fatalf("desktop Run() error = %v", err)
	}
	if client.calls != 2 {
		t.Errorf("API calls = %d, want 2 after a different strategy", client.calls)
	}
}

func TestPageSpeedRunHeaderExtractionBestEffort(t *testing.T) {
	client := &fakePageSpeedClient{result: sampleResult()}
	extractor := &fakeExtractor{headersErr: domain.ErrPageFetchFailure}
	service, _, _ := newTestPageSpeedService(client, extractor)

	analysis, err := service.Run(context.Background(), 1, "https://example.com", domain.StrategyMobile)
	if err != nil {
		t.Fatalf("Run() error = %v, extraction failures must not fail the run", err)
	}
	if len(analysis.ContentHeaders) != 0 {
		t.Errorf("content headers = %+v, want none", analysis.ContentHeaders)
	}
}

func TestPageSpeedRunAPIFailure(t *testing.T) {
	client := &fakePageSpeedClient{err: domain.ErrPageSpeedAPIFailure}
	service, repo, _ := newTestPageSpeedService(client, &fakeExtractor{})

	_, err := service.Run(context.Background(), 1, "https://example.com", domain.StrategyMobile)
	if !errors.Is(err, domain.ErrPageSpeedAPIFailure) {
		t.Errorf("Run() error = %v, want ErrPageSpeedAPIFailure", err)
	}
	if len(repo.analyses) != 0 {
		t.Error("failed runs must not be persisted")
	}
}

func TestPageSpeedDetailScoping(t *testing.T) {
	client := &fakePageSpeedClient{result: sampleResult()}
	service, _, _ := newTestPageSpeedService(client, &fakeExtractor{})
	ctx := context.Background()

	analysis, err := service.Run(ctx, 1, "https://example.com", domain.StrategyMobile)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if _, err := service.Detail(ctx, 2, analysis.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("cross-user Detail() error = %v, want ErrNotFound", err)
	}
	if err := service.Delete(ctx, 2, analysis.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("cross-user Delete() error = %v, want ErrNotFound", err)
	}
	if _, err := service.Detail(ctx, 1, analysis.ID); err != nil {
		t.Errorf("owner Detail() error = %v", err)
	}
}
