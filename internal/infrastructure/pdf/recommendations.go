package pdf

import (
	"fmt"

	"github.com/seooptima/backend/internal/domain"
)

// Core Web Vitals "good" thresholds, per the Lighthouse scoring guides.
const (
	goodLCPMillis = 2500
	goodTBTMillis = 200
	goodCLS       = 0.1
)

func pageSpeedRecommendations(a *domain.PageSpeedAnalysis) []string {
	var recs []string

	if a.Scores.Performance != nil && *a.Scores.Performance < 90 {
		recs = append(recs, "Compress and lazy-load images, and serve them in modern formats such as WebP or AVIF.")
		recs = append(recs, "Minify JavaScript and CSS, and defer scripts that are not needed for the first paint.")
	}
	if a.Metrics.LCP != nil && a.Metrics.LCP.NumericValue > goodLCPMillis {
		recs = append(recs, fmt.Sprintf("Largest Contentful Paint is %s; aim for under 2.5 s by preloading the hero image and reducing server response time.", a.Metrics.LCP.DisplayValue))
	}
	if a.Metrics.TBT != nil && a.Metrics.TBT.NumericValue > goodTBTMillis {
		recs = append(recs, fmt.Sprintf("Total Blocking Time is %s; split long JavaScript tasks and remove unused code.", a.Metrics.TBT.DisplayValue))
	}
	if a.Metrics.CLS != nil && a.Metrics.CLS.NumericValue > goodCLS {
		recs = append(recs, "Reserve space for images, ads and embeds to reduce layout shift.")
	}
	if a.Scores.Accessibility != nil && *a.Scores.Accessibility < 90 {
		recs = append(recs, "Review color contrast, form labels and ARIA attributes flagged by the accessibility audit.")
	}
	if a.Scores.SEO != nil && *a.Scores.SEO < 90 {
		recs = append(recs, "Add missing meta descriptions and ensure every page has exactly one descriptive title tag.")
	}
	if len(recs) == 0 {
		recs = append(recs, "Scores look healthy. Re-run the analysis after significant releases to catch regressions early.")
	}
	return recs
}

func imageRecommendations(a *domain.ImageAltAnalysis) []string {
	var recs []string

	if a.ImagesWithoutAlt > 0 {
		recs = append(recs, fmt.Sprintf("Add descriptive alt text to the %d image(s) missing it; screen readers skip or misread them otherwise.", a.ImagesWithoutAlt))
		recs = append(recs, `Use an empty alt attribute (alt="") only for purely decorative images.`)
	}
	if a.TotalImages > 0 && a.AltTextPercentage() < 100 {
		recs = append(recs, "Keep alt text concise and specific; describe what the image conveys, not that it is an image.")
	}
	if len(recs) == 0 {
		recs = append(recs, "Every image is either described or marked decorative. Keep new images to the same standard.")
	}
	return recs
}

func keywordRecommendations(a *domain.KeywordAnalysis) []string {
	var recs []string

	near := 0
	for _, kw := range a.Keywords {
		if kw.Position > 10 && kw.Position <= 20 {
			near++
		}
	}
	if near > 0 {
		recs = append(recs, fmt.Sprintf("%d keyword(s) rank on page two; targeted content updates and internal links can push them onto page one.", near))
	}
	if a.Stats.AvgPosition > 10 {
		recs = append(recs, "Average position is beyond page one; focus on the highest-impression queries first.")
	}
	lowCTR := 0
	for _, kw := range a.Keywords {
		if kw.Position <= 10 && kw.CTR < 2 {
			lowCTR++
		}
	}
	if lowCTR > 0 {
		recs = append(recs, fmt.Sprintf("%d page-one keyword(s) have a click-through rate under 2%%; rewrite their titles and meta descriptions.", lowCTR))
	}
	if len(recs) == 0 {
		recs = append(recs, "Rankings look strong. Monitor impressions for new queries worth dedicated content.")
	}
	return recs
}
