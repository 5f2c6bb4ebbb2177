package pagespeed

import (
	"fmt"

	"github.com/seooptima/backend/internal/domain"
)

// apiResponse mirrors the parts of the runPagespeed response we consume.
type apiResponse struct {
	LighthouseResult struct {
		Categories map[string]category `json:"categories"`
		Audits     map[string]audit    `json:"audits"`
	} `json:"lighthouseResult"`
	LoadingExperience       loadingExperience `json:"loadingExperience"`
	OriginLoadingExperience loadingExperience `json:"originLoadingExperience"`
}

type category struct {
	Score *float64 `json:"score"`
}

type audit struct {
	Title        string   `json:"title"`
	DisplayValue string   `json:"displayValue"`
	NumericValue float64  `json:"numericValue"`
	Score        *float64 `json:"score"`
}

type loadingExperience struct {
	OverallCategory string                 `json:"overall_category"`
	Metrics         map[string]fieldMetric `json:"metrics"`
}

type fieldMetric struct {
	Percentile int    `json:"percentile"`
	Category   string `json:"category"`
}

// Lighthouse audit keys for the lab metrics we keep.
const (
	auditFCP        = "first-contentful-paint"
	auditSpeedIndex = "speed-index"
	auditLCP        = "largest-contentful-paint"
	auditTBT        = "total-blocking-time"
	auditCLS        = "cumulative-layout-shift"
)

// Chrome UX Report metric keys for field data.
const (
	fieldLCP  = "LARGEST_CONTENTFUL_PAINT_MS"
	fieldINP  = "INTERACTION_TO_NEXT_PAINT"
	fieldCLS  = "CUMULATIVE_LAYOUT_SHIFT_SCORE"
	fieldFCP  = "FIRST_CONTENTFUL_PAINT_MS"
	fieldTTFB = "EXPERIMENTAL_TIME_TO_FIRST_BYTE"
)

// mapResult flattens the nested API response into the domain result:
// category scores on a 0-100 scale, the five key lab metrics, and
// real-user field data when the origin has any.
func mapResult(resp *apiResponse) *domain.PageSpeedResult {
	result := &domain.PageSpeedResult{
		Scores:    extractScores(resp),
		Metrics:   extractLabMetrics(resp),
		FieldData: extractFieldData(resp),
	}
	return result
}

func extractScores(resp *apiResponse) domain.Scores {
	scores := domain.Scores{}
	categories := resp.LighthouseResult.Categories

	scores.Performance = scaleScore(categories, "performance")
	scores.Accessibility = scaleScore(categories, "accessibility")
	scores.BestPractices = scaleScore(categories, "best-practices")
	scores.SEO = scaleScore(categories, "seo")

	return scores
}

// scaleScore converts a 0-1 category score to the 0-100 scale, keeping
// nil when the category or its score is absent.
func scaleScore(categories map[string]category, key string) *int {
	cat, ok := categories[key]
	if !ok || cat.Score == nil {
		return nil
	}
	v := int(*cat.Score * 100)
	return &v
}

func extractLabMetrics(resp *apiResponse) domain.LabMetrics {
	audits := resp.LighthouseResult.Audits

	return domain.LabMetrics{
		FCP:        labMetric(audits, auditFCP, "First Contentful Paint"),
		SpeedIndex: labMetric(audits, auditSpeedIndex, "Speed Index"),
		LCP:        labMetric(audits, auditLCP, "Largest Contentful Paint"),
		TBT:        labMetric(audits, auditTBT, "Total Blocking Time"),
		CLS:        labMetric(audits, auditCLS, "Cumulative Layout Shift"),
	}
}

func labMetric(audits map[string]audit, key, fallbackTitle string) *domain.LabMetric {
	a, ok := audits[key]
	if !ok {
		return nil
	}
	title := a.Title
	if title == "" {
		title = fallbackTitle
	}
	display := a.DisplayValue
	if display == "" {
		display = "N/A"
	}
	return &domain.LabMetric{
		Title:        title,
		DisplayValue: display,
		NumericValue: a.NumericValue,
		Score:        a.Score,
	}
}

func extractFieldData(resp *apiResponse) domain.FieldData {
	// Prefer origin-level data over URL-specific data, like the web UI does.
	exp := resp.OriginLoadingExperience
	if len(exp.Metrics) == 0 {
		exp = resp.LoadingExperience
	}
	if len(exp.Metrics) == 0 {
		return domain.FieldData{}
	}

	fd := domain.FieldData{OverallCategory: exp.OverallCategory}
	if fd.OverallCategory == "" {
		fd.OverallCategory = "UNKNOWN"
	}

	fd.LCP = fieldMetricFor(exp.Metrics, fieldLCP, "Largest Contentful Paint (LCP)", formatMillis)
	fd.INP = fieldMetricFor(exp.Metrics, fieldINP, "Interaction to Next Paint (INP)", formatMillis)
	fd.CLS = fieldMetricFor(exp.Metrics, fieldCLS, "Cumulative Layout Shift (CLS)", formatCLS)
	fd.FCP = fieldMetricFor(exp.Metrics, fieldFCP, "First Contentful Paint (FCP)", formatMillis)
	fd.TTFB = fieldMetricFor(exp.Metrics, fieldTTFB, "Time to First Byte (TTFB)", formatMillis)

	return fd
}

func fieldMetricFor(metrics map[string]fieldMetric, key, title string, format func(int) string) *domain.FieldMetric {
	m, ok := metrics[key]
	if !ok {
		return nil
	}
	category := m.Category
	if category == "" {
		category = "UNKNOWN"
	}
	return &domain.FieldMetric{
		Title:      title,
		Value:      format(m.Percentile),
		Category:   category,
		Percentile: m.Percentile,
	}
}

// formatMillis renders a millisecond percentile, switching to seconds
// above one second.
func formatMillis(v int) string {
	if v >= 1000 {
		return fmt.Sprintf("%.1f s", float64(v)/1000)
	}
	return fmt.Sprintf("%d ms", v)
}

// formatCLS renders a layout-shift percentile. The API reports CLS
// multiplied by 100, so values above 1 get scaled back down.
func formatCLS(v int) string {
	f := float64(v)
	if f > 1 {
		f = f / 100
	}
	return fmt.Sprintf("%.2f", f)
}
