package domain

import "time"

// ReportType distinguishes the free report from the premium one.
type ReportType string

const (
	ReportTypeFree ReportType = "free"
	ReportTypePaid ReportType = "paid"
)

// Valid reports whether the report type is a supported value.
func (t ReportType) Valid() bool {
	return t == ReportTypeFree || t == ReportTypePaid
}

// HeadersSection is the content-header data embedded in a report.
type HeadersSection struct {
	URL       string         `json:"url"`
	Headers   []PageHeader   `json:"headers"`
	Hierarchy map[string]int `json:"hierarchy"`
}

// Report is a generated PDF report bundling one or more analyses.
// The analysis references are optional; at least one section is present.
type Report struct {
	ID                     int64           `json:"id"`
	UserID                 int64           `json:"-"`
	Type                   ReportType      `json:"type"`
	Title                  string          `json:"title"`
	Description            string          `json:"description,omitempty"`
	PageSpeedAnalysisID    *int64          `json:"pagespeedAnalysisId,omitempty"`
	KeywordAnalysisID      *int64          `json:"keywordAnalysisId,omitempty"`
	ImageAnalysisID        *int64          `json:"imageAnalysisId,omitempty"`
	Headers                *HeadersSection `json:"headers,omitempty"`
	FilePath               string          `json:"-"`
	IncludeRecommendations bool            `json:"includeRecommendations"`
	IncludeCharts          bool            `json:"includeCharts"`
	CreatedAt              time.Time       `json:"createdAt"`
	UpdatedAt              time.Time       `json:"updatedAt"`
}

// ReportData bundles a report record with the resolved analyses its
// sections render from.
type ReportData struct {
	Report    *Report
	User      *User
	PageSpeed *PageSpeedAnalysis
	Images    *ImageAltAnalysis
	Keywords  *KeywordAnalysis
}

// Sections lists the report sections that have data, in render order.
func (r *Report) Sections() []string {
	var sections []string
	if r.PageSpeedAnalysisID != nil {
		sections = append(sections, "page_speed")
	}
	if r.Headers != nil {
		sections = append(sections, "headers")
	}
	if r.ImageAnalysisID != nil {
		sections = append(sections, "images")
	}
	if r.KeywordAnalysisID != nil {
		sections = append(sections, "keywords")
	}
	return sections
}
