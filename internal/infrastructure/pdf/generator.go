// Package pdf renders analysis reports into PDF files.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"

	"github.com/seooptima/backend/internal/domain"
)

// Generator writes report PDFs into a directory.
type Generator struct {
	dir string
}

// NewGenerator ensures the output directory exists and returns a
// generator writing into it.
func NewGenerator(dir string) (*Generator, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating report directory: %w", err)
	}
	return &Generator{dir: dir}, nil
}

// Generate renders the report into a new file and returns its path.
// The filename is random so report paths cannot be guessed.
func (g *Generator) Generate(data *domain.ReportData) (string, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(data.Report.Title, true)
	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont("Helvetica", "I", 8)
		doc.SetTextColor(128, 128, 128)
		footer := fmt.Sprintf("Generated for %s on %s  |  Page %d",
			data.User.Email, time.Now().Format("Jan 2, 2006"), doc.PageNo())
		doc.CellFormat(0, 10, footer, "", 0, "C", false, 0, "")
	})

	g.titlePage(doc, data)
	if data.PageSpeed != nil {
		g.pageSpeedSection(doc, data.Report, data.PageSpeed)
	}
	if data.Report.Headers != nil {
		g.headersSection(doc, data.Report.Headers)
	}
	if data.Images != nil {
		g.imagesSection(doc, data.Report, data.Images)
	}
	if data.Keywords != nil {
		g.keywordsSection(doc, data.Report, data.Keywords)
	}

	path := filepath.Join(g.dir, uuid.NewString()+".pdf")
	if err := doc.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("writing report pdf: %w", err)
	}
	return path, nil
}

// Remove deletes a previously generated report file. A missing file is
// not an error; the record may predate a cleanup.
func (g *Generator) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing report pdf: %w", err)
	}
	return nil
}

func (g *Generator) titlePage(doc *fpdf.Fpdf, data *domain.ReportData) {
	doc.AddPage()
	doc.SetFont("Helvetica", "B", 28)
	doc.SetTextColor(33, 37, 41)
	doc.Ln(60)
	doc.CellFormat(0, 14, data.Report.Title, "", 1, "C", false, 0, "")

	if data.Report.Description != "" {
		doc.Ln(4)
		doc.SetFont("Helvetica", "", 12)
		doc.SetTextColor(90, 90, 90)
		doc.MultiCell(0, 7, data.Report.Description, "", "C", false)
	}

	doc.Ln(10)
	doc.SetFont("Helvetica", "", 11)
	doc.SetTextColor(90, 90, 90)
	label := "Website Analysis Report"
	if data.Report.Type == domain.ReportTypePaid {
		label = "Comprehensive Website Analysis Report"
	}
	doc.CellFormat(0, 7, label, "", 1, "C", false, 0, "")
	doc.CellFormat(0, 7, time.Now().Format("January 2, 2006"), "", 1, "C", false, 0, "")
}

func (g *Generator) sectionTitle(doc *fpdf.Fpdf, title string) {
	doc.AddPage()
	doc.SetFont("Helvetica", "B", 18)
	doc.SetTextColor(33, 37, 41)
	doc.CellFormat(0, 12, title, "", 1, "L", false, 0, "")
	doc.SetDrawColor(200, 200, 200)
	doc.Line(10, doc.GetY(), 200, doc.GetY())
	doc.Ln(6)
}

func (g *Generator) pageSpeedSection(doc *fpdf.Fpdf, report *domain.Report, a *domain.PageSpeedAnalysis) {
	g.sectionTitle(doc, "Page Speed")

	doc.SetFont("Helvetica", "", 11)
	doc.SetTextColor(60, 60, 60)
	doc.CellFormat(0, 7, fmt.Sprintf("URL: %s  (%s)", a.URL, a.Strategy), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 7, fmt.Sprintf("Overall: %s", a.ScoreCategory()), "", 1, "L", false, 0, "")
	doc.Ln(4)

	scoreRows := []struct {
		label string
		score *int
	}{
		{"Performance", a.Scores.Performance},
		{"Accessibility", a.Scores.Accessibility},
		{"Best Practices", a.Scores.BestPractices},
		{"SEO", a.Scores.SEO},
	}
	doc.SetFont("Helvetica", "B", 11)
	doc.SetFillColor(240, 240, 240)
	doc.CellFormat(95, 8, "Category", "1", 0, "L", true, 0, "")
	doc.CellFormat(95, 8, "Score", "1", 1, "L", true, 0, "")
	doc.SetFont("Helvetica", "", 11)
	for _, row := range scoreRows {
		value := "N/A"
		if row.score != nil {
			value = fmt.Sprintf("%d / 100", *row.score)
		}
		doc.CellFormat(95, 8, row.label, "1", 0, "L", false, 0, "")
		doc.CellFormat(95, 8, value, "1", 1, "L", false, 0, "")
	}

	doc.Ln(6)
	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 9, "Lab Metrics", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	for _, m := range []*domain.LabMetric{a.Metrics.FCP, a.Metrics.SpeedIndex, a.Metrics.LCP, a.Metrics.TBT, a.Metrics.CLS} {
		if m == nil {
			continue
		}
		doc.CellFormat(95, 7, m.Title, "", 0, "L", false, 0, "")
		doc.CellFormat(95, 7, m.DisplayValue, "", 1, "L", false, 0, "")
	}

	if a.FieldData.OverallCategory != "" {
		doc.Ln(4)
		doc.SetFont("Helvetica", "B", 13)
		doc.CellFormat(0, 9, "Field Data (Chrome UX Report)", "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 11)
		doc.CellFormat(0, 7, fmt.Sprintf("Overall experience: %s", a.FieldData.OverallCategory), "", 1, "L", false, 0, "")
		for _, m := range []*domain.FieldMetric{a.FieldData.LCP, a.FieldData.INP, a.FieldData.CLS, a.FieldData.FCP, a.FieldData.TTFB} {
			if m == nil {
				continue
			}
			doc.CellFormat(95, 7, m.Title, "", 0, "L", false, 0, "")
			doc.CellFormat(95, 7, fmt.Sprintf("%s (%s)", m.Value, m.Category), "", 1, "L", false, 0, "")
		}
	}

	if report.IncludeRecommendations {
		g.recommendations(doc, pageSpeedRecommendations(a))
	}
}

func (g *Generator) headersSection(doc *fpdf.Fpdf, section *domain.HeadersSection) {
	g.sectionTitle(doc, "Content Structure")

	doc.SetFont("Helvetica", "", 11)
	doc.SetTextColor(60, 60, 60)
	doc.CellFormat(0, 7, fmt.Sprintf("URL: %s", section.URL), "", 1, "L", false, 0, "")
	doc.Ln(2)

	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 9, "Heading Hierarchy", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	for _, level := range []string{"H1", "H2", "H3", "H4", "H5", "H6"} {
		doc.CellFormat(0, 7, fmt.Sprintf("%s: %d", level, section.Hierarchy[level]), "", 1, "L", false, 0, "")
	}

	doc.Ln(4)
	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 9, "Headings In Order", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	for _, h := range section.Headers {
		doc.MultiCell(0, 6, fmt.Sprintf("[%s] %s", h.Level, h.Text), "", "L", false)
	}
}

func (g *Generator) imagesSection(doc *fpdf.Fpdf, report *domain.Report, a *domain.ImageAltAnalysis) {
	g.sectionTitle(doc, "Image Accessibility")

	doc.SetFont("Helvetica", "", 11)
	doc.SetTextColor(60, 60, 60)
	doc.CellFormat(0, 7, fmt.Sprintf("URL: %s", a.URL), "", 1, "L", false, 0, "")
	doc.Ln(2)

	rows := []struct {
		label string
		value string
	}{
		{"Total images", fmt.Sprintf("%d", a.TotalImages)},
		{"With alt text", fmt.Sprintf("%d", a.ImagesWithAlt)},
		{"Marked decorative", fmt.Sprintf("%d", a.DecorativeImages)},
		{"Missing alt text", fmt.Sprintf("%d", a.ImagesWithoutAlt)},
		{"Coverage", fmt.Sprintf("%.1f%%", a.AltTextPercentage())},
	}
	doc.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		doc.CellFormat(95, 8, row.label, "1", 0, "L", false, 0, "")
		doc.CellFormat(95, 8, row.value, "1", 1, "L", false, 0, "")
	}

	missing := 0
	for _, img := range a.Images {
		if img.Status == domain.ImageStatusMissing {
			missing++
		}
	}
	if missing > 0 {
		doc.Ln(4)
		doc.SetFont("Helvetica", "B", 13)
		doc.CellFormat(0, 9, "Images Missing Alt Text", "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 9)
		for _, img := range a.Images {
			if img.Status == domain.ImageStatusMissing {
				doc.MultiCell(0, 5, img.Src, "", "L", false)
			}
		}
	}

	if report.IncludeRecommendations {
		g.recommendations(doc, imageRecommendations(a))
	}
}

func (g *Generator) keywordsSection(doc *fpdf.Fpdf, report *domain.Report, a *domain.KeywordAnalysis) {
	g.sectionTitle(doc, "Keyword Rankings")

	doc.SetFont("Helvetica", "", 11)
	doc.SetTextColor(60, 60, 60)
	doc.CellFormat(0, 7, fmt.Sprintf("URL: %s", a.URL), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 7, fmt.Sprintf("Search Console property: %s", a.Property), "", 1, "L", false, 0, "")
	doc.Ln(2)

	stats := []struct {
		label string
		value string
	}{
		{"Keywords tracked", fmt.Sprintf("%d", a.Stats.TotalKeywords)},
		{"Top 3 positions", fmt.Sprintf("%d", a.Stats.Top3Positions)},
		{"Top 10 positions", fmt.Sprintf("%d", a.Stats.Top10Positions)},
		{"Top 20 positions", fmt.Sprintf("%d", a.Stats.Top20Positions)},
		{"Total impressions", fmt.Sprintf("%d", a.Stats.TotalVolume)},
		{"Total clicks", fmt.Sprintf("%d", a.Stats.TotalClicks)},
		{"Average position", fmt.Sprintf("%.1f", a.Stats.AvgPosition)},
	}
	for _, row := range stats {
		doc.CellFormat(95, 8, row.label, "1", 0, "L", false, 0, "")
		doc.CellFormat(95, 8, row.value, "1", 1, "L", false, 0, "")
	}

	doc.Ln(4)
	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 9, "Top Keywords", "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(240, 240, 240)
	doc.CellFormat(70, 7, "Keyword", "1", 0, "L", true, 0, "")
	doc.CellFormat(30, 7, "Impressions", "1", 0, "R", true, 0, "")
	doc.CellFormat(25, 7, "Clicks", "1", 0, "R", true, 0, "")
	doc.CellFormat(25, 7, "CTR", "1", 0, "R", true, 0, "")
	doc.CellFormat(30, 7, "Position", "1", 1, "R", true, 0, "")

	doc.SetFont("Helvetica", "", 9)
	limit := len(a.Keywords)
	if limit > 25 {
		limit = 25
	}
	for _, kw := range a.Keywords[:limit] {
		doc.CellFormat(70, 7, truncate(kw.Keyword, 45), "1", 0, "L", false, 0, "")
		doc.CellFormat(30, 7, fmt.Sprintf("%d", kw.Volume), "1", 0, "R", false, 0, "")
		doc.CellFormat(25, 7, fmt.Sprintf("%d", kw.Clicks), "1", 0, "R", false, 0, "")
		doc.CellFormat(25, 7, fmt.Sprintf("%.1f%%", kw.CTR), "1", 0, "R", false, 0, "")
		doc.CellFormat(30, 7, fmt.Sprintf("%.1f", kw.Position), "1", 1, "R", false, 0, "")
	}

	if report.IncludeRecommendations {
		g.recommendations(doc, keywordRecommendations(a))
	}
}

func (g *Generator) recommendations(doc *fpdf.Fpdf, items []string) {
	if len(items) == 0 {
		return
	}
	doc.Ln(6)
	doc.SetFont("Helvetica", "B", 13)
	doc.SetTextColor(33, 37, 41)
	doc.CellFormat(0, 9, "Recommendations", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(60, 60, 60)
	for _, item := range items {
		doc.MultiCell(0, 6, "- "+item, "", "L", false)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
