package domain

import "time"

// ImageStatus classifies the alt text of one image.
type ImageStatus string

const (
	// ImageStatusOK means the image carries a non-empty alt attribute.
	ImageStatusOK ImageStatus = "OK"
	// ImageStatusDecorative means an explicit alt="" marks the image as decorative.
	ImageStatusDecorative ImageStatus = "Decorative"
	// ImageStatusMissing means the alt attribute is absent entirely.
	ImageStatusMissing ImageStatus = "Missing"
)

// PageImage is one <img> found on a page, with its source resolved to an
// absolute URL.
type PageImage struct {
	Src    string      `json:"src"`
	Alt    string      `json:"alt"`
	Status ImageStatus `json:"status"`
}

// ImageAltAnalysis is a persisted image/alt-text audit owned by a user.
type ImageAltAnalysis struct {
	ID               int64       `json:"id"`
	UserID           int64       `json:"-"`
	URL              string      `json:"url"`
	TotalImages      int         `json:"totalImages"`
	ImagesWithAlt    int         `json:"imagesWithAlt"`
	DecorativeImages int         `json:"decorativeImages"`
	ImagesWithoutAlt int         `json:"imagesWithoutAlt"`
	Images           []PageImage `json:"images"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

// AltTextPercentage is the share of images that are either described or
// explicitly marked decorative.
func (a *ImageAltAnalysis) AltTextPercentage() float64 {
	if a.TotalImages == 0 {
		return 0
	}
	covered := a.ImagesWithAlt + a.DecorativeImages
	pct := float64(covered) / float64(a.TotalImages) * 100
	return float64(int(pct*10+0.5)) / 10
}

// Keyword is one search query the site ranks for, with its Search Console
// metrics. Volume mirrors impressions; CTR is a percentage.
type Keyword struct {
	Keyword  string  `json:"keyword"`
	Volume   int     `json:"volume"`
	Position float64 `json:"position"`
	URL      string  `json:"url"`
	Clicks   int     `json:"clicks"`
	CTR      float64 `json:"ctr"`
}

// KeywordStats summarizes a keyword list.
type KeywordStats struct {
	TotalKeywords  int     `json:"totalKeywords"`
	Top3Positions  int     `json:"top3Positions"`
	Top10Positions int     `json:"top10Positions"`
	Top20Positions int     `json:"top20Positions"`
	TotalVolume    int     `json:"totalVolume"`
	AvgPosition    float64 `json:"avgPosition"`
	TotalClicks    int     `json:"totalClicks"`
}

// KeywordAnalysis is a persisted keyword-ranking lookup owned by a user.
// Property records the candidate identifier that returned data.
type KeywordAnalysis struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"-"`
	URL       string       `json:"url"`
	Property  string       `json:"property"`
	Stats     KeywordStats `json:"stats"`
	Keywords  []Keyword    `json:"keywords"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
