package domain

import (
	"encoding/json"
	"time"
)

// Strategy selects the device profile a PageSpeed analysis runs with.
type Strategy string

const (
	StrategyMobile  Strategy = "mobile"
	StrategyDesktop Strategy = "desktop"
)

// Valid reports whether the strategy is one of the supported values.
func (s Strategy) Valid() bool {
	return s == StrategyMobile || s == StrategyDesktop
}

// Scores holds the four Lighthouse category scores on a 0-100 scale.
// A nil score means the category was absent from the API response.
type Scores struct {
	Performance   *int `json:"performance"`
	Accessibility *int `json:"accessibility"`
	BestPractices *int `json:"bestPractices"`
	SEO           *int `json:"seo"`
}

// LabMetric is a single Lighthouse lab audit result.
type LabMetric struct {
	Title        string   `json:"title"`
	DisplayValue string   `json:"displayValue"`
	NumericValue float64  `json:"numericValue"`
	Score        *float64 `json:"score"`
}

// LabMetrics holds the key Lighthouse lab metrics. Absent audits stay nil.
type LabMetrics struct {
	FCP        *LabMetric `json:"fcp,omitempty"`
	SpeedIndex *LabMetric `json:"speedIndex,omitempty"`
	LCP        *LabMetric `json:"lcp,omitempty"`
	TBT        *LabMetric `json:"tbt,omitempty"`
	CLS        *LabMetric `json:"cls,omitempty"`
}

// FieldMetric is a single Chrome UX Report (field data) metric.
type FieldMetric struct {
	Title      string `json:"title"`
	Value      string `json:"value"`
	Category   string `json:"category"`
	Percentile int    `json:"percentile"`
}

// FieldData holds real-user metrics from the Chrome UX Report, when the
// origin has enough traffic to have any.
type FieldData struct {
	OverallCategory string       `json:"overallCategory,omitempty"`
	LCP             *FieldMetric `json:"lcp,omitempty"`
	INP             *FieldMetric `json:"inp,omitempty"`
	CLS             *FieldMetric `json:"cls,omitempty"`
	FCP             *FieldMetric `json:"fcp,omitempty"`
	TTFB            *FieldMetric `json:"ttfb,omitempty"`
}

// PageHeader is one heading tag (H1-H6) extracted from a page, in
// document order.
type PageHeader struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// PageSpeedResult is the reshaped outcome of one PageSpeed Insights call.
type PageSpeedResult struct {
	Scores    Scores          `json:"scores"`
	Metrics   LabMetrics      `json:"metrics"`
	FieldData FieldData       `json:"fieldData"`
	Raw       json.RawMessage `json:"-"`
}

// PageSpeedAnalysis is a persisted PageSpeed Insights run owned by a user.
type PageSpeedAnalysis struct {
	ID             int64        `json:"id"`
	UserID         int64        `json:"-"`
	URL            string       `json:"url"`
	Strategy       Strategy     `json:"strategy"`
	Scores         Scores       `json:"scores"`
	Metrics        LabMetrics   `json:"metrics"`
	FieldData      FieldData    `json:"fieldData"`
	ContentHeaders []PageHeader `json:"contentHeaders"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// ScoreCategory buckets the average of the four scores into a label.
func (a *PageSpeedAnalysis) ScoreCategory() string {
	sum := 0
	for _, s := range []*int{a.Scores.Performance, a.Scores.Accessibility, a.Scores.BestPractices, a.Scores.SEO} {
		if s != nil {
			sum += *s
		}
	}
	avg := float64(sum) / 4

	switch {
	case avg >= 90:
		return "Excellent"
	case avg >= 80:
		return "Good"
	case avg >= 60:
		return "Needs Work"
	default:
		return "Poor"
	}
}
