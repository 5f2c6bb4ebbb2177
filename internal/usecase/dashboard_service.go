package usecase

import (
	"context"

	"github.com/seooptima/backend/internal/domain"
)

const recentLimit = 5

// DashboardOverview aggregates a user's activity for the landing view.
type DashboardOverview struct {
	TotalPageSpeedAnalyses int                        `json:"totalPagespeedAnalyses"`
	TotalImageAnalyses     int                        `json:"totalImageAnalyses"`
	TotalKeywordAnalyses   int                        `json:"totalKeywordAnalyses"`
	TotalReports           int                        `json:"totalReports"`
	AvgPerformanceScore    *float64                   `json:"avgPerformanceScore"`
	AvgSEOScore            *float64                   `json:"avgSeoScore"`
	RecentPageSpeed        []domain.PageSpeedAnalysis `json:"recentPagespeed"`
	RecentKeywords         []domain.KeywordAnalysis   `json:"recentKeywords"`
	RecentImages           []domain.ImageAltAnalysis  `json:"recentImages"`
}

// DashboardService aggregates analysis history across the other modules.
type DashboardService struct {
	pagespeed domain.PageSpeedRepository
	images    domain.ImageAnalysisRepository
	keywords  domain.KeywordAnalysisRepository
	reports   domain.ReportRepository
}

// NewDashboardService creates a dashboard service with its dependencies.
func NewDashboardService(
	pagespeed domain.PageSpeedRepository,
	images domain.ImageAnalysisRepository,
	keywords domain.KeywordAnalysisRepository,
	reports domain.ReportRepository,
) *DashboardService {
	return &DashboardService{
		pagespeed: pagespeed,
		images:    images,
		keywords:  keywords,
		reports:   reports,
	}
}

// Overview returns totals, recent analyses and average scores for a user.
// Averages cover the recent PageSpeed analyses and stay nil when there
// are none.
func (s *DashboardService) Overview(ctx context.Context, userID int64) (*DashboardOverview, error) {
	opts := domain.ListOptions{Page: 1, PerPage: recentLimit}

	recentPS, totalPS, err := s.pagespeed.ListPageSpeedAnalyses(ctx, userID, opts)
	if err != nil {
		return nil, err
	}
	recentImages, totalImages, err := s.images.ListImageAnalyses(ctx, userID, opts)
	if err != nil {
		return nil, err
	}
	recentKeywords, totalKeywords, err := s.keywords.ListKeywordAnalyses(ctx, userID, opts)
	if err != nil {
		return nil, err
	}
	_, totalReports, err := s.reports.ListReports(ctx, userID, domain.ListOptions{Page: 1, PerPage: 1})
	if err != nil {
		return nil, err
	}

	overview := &DashboardOverview{
		TotalPageSpeedAnalyses: totalPS,
		TotalImageAnalyses:     totalImages,
		TotalKeywordAnalyses:   totalKeywords,
		TotalReports:           totalReports,
		RecentPageSpeed:        recentPS,
		RecentKeywords:         recentKeywords,
		RecentImages:           recentImages,
	}
	overview.AvgPerformanceScore = averageScore(recentPS, func(a *domain.PageSpeedAnalysis) *int { return a.Scores.Performance })
	overview.AvgSEOScore = averageScore(recentPS, func(a *domain.PageSpeedAnalysis) *int { return a.Scores.SEO })
	return overview, nil
}

func averageScore(analyses []domain.PageSpeedAnalysis, pick func(*domain.PageSpeedAnalysis) *int) *float64 {
	sum, count := 0, 0
	for i := range analyses {
		if score := pick(&analyses[i]); score != nil {
			sum += *score
			count++
		}
	}
	if count == 0 {
		return nil
	}
	avg := round1(float64(sum) / float64(count))
	return &avg
}
