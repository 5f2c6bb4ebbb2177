package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/seooptima/backend/internal/domain"
)

func TestDashboardOverview(t *testing.T) {
	pagespeed := newFakePageSpeedRepo()
	images := newFakeImageRepo()
	keywords := newFakeKeywordRepo()
	reports := newFakeReportRepo()
	service := NewDashboardService(pagespeed, images, keywords, reports)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, perf := range []int{60, 80} {
		p := perf
		seo := p + 10
		err := pagespeed.CreatePageSpeedAnalysis(ctx, &domain.PageSpeedAnalysis{
			UserID: 1, URL: "https://example.com", Strategy: domain.StrategyMobile,
			Scores:    domain.Scores{Performance: &p, SEO: &seo},
			CreatedAt: now, UpdatedAt: now,
		}, nil)
		if err != nil {
			t.Fatalf("CreatePageSpeedAnalysis() error = %v", err)
		}
	}
	if err := images.CreateImageAnalysis(ctx, &domain.ImageAltAnalysis{UserID: 1, URL: "https://example.com"}); err != nil {
		t.Fatalf("CreateImageAnalysis() error = %v", err)
	}
	if err := reports.CreateReport(ctx, &domain.Report{UserID: 1, Title: "Audit", Type: domain.ReportTypeFree}); err != nil {
		t.Fatalf("CreateReport() error = %v", err)
	}
	// Another user's analysis must not leak into the overview.
	other := 10
	if err := pagespeed.CreatePageSpeedAnalysis(ctx, &domain.PageSpeedAnalysis{
		UserID: 2, URL: "https://other.org", Strategy: domain.StrategyMobile,
		Scores: domain.Scores{Performance: &other},
	}, nil); err != nil {
		t.Fatalf("CreatePageSpeedAnalysis() error = %v", err)
	}

	overview, err := service.Overview(ctx, 1)
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}

	if overview.TotalPageSpeedAnalyses != 2 || overview.TotalImageAnalyses != 1 ||
		overview.TotalKeywordAnalyses != 0 || overview.TotalReports != 1 {
		t.Errorf("totals = %+v", overview)
	}
	if overview.AvgPerformanceScore == nil || *overview.AvgPerformanceScore != 70.0 {
		t.Errorf("avg performance = %v, want 70.0", overview.AvgPerformanceScore)
	}
	if overview.AvgSEOScore == nil || *overview.AvgSEOScore != 80.0 {
		t.Errorf("avg SEO = %v, want 80.0", overview.AvgSEOScore)
	}
	if len(overview.RecentPageSpeed) != 2 {
		t.Errorf("recent pagespeed = %d, want 2", len(overview.RecentPageSpeed))
	}
}

func TestDashboardOverviewEmpty(t *testing.T) {
	service := NewDashboardService(newFakePageSpeedRepo(), newFakeImageRepo(), newFakeKeywordRepo(), newFakeReportRepo())

	overview, err := service.Overview(context.Background(), 1)
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	if overview.TotalPageSpeedAnalyses != 0 || overview.TotalReports != 0 {
		t.Errorf("totals = %+v, want zeros", overview)
	}
	if overview.AvgPerformanceScore != nil || overview.AvgSEOScore != nil {
		t.Error("averages should stay nil without analyses")
	}
}
