// Package webpage fetches pages and pulls structural data (headings,
// images) out of their HTML.
package webpage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/seooptima/backend/internal/domain"
)

// Browser-like user agent so ordinary sites don't block the fetch.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Extractor fetches pages over HTTP and parses them with goquery.
type Extractor struct {
	httpClient *http.Client
}

// NewExtractor creates a page extractor with the given fetch timeout.
func NewExtractor(timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Extractor{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// fetchDocument retrieves the page and parses it into a goquery document.
func (e *Extractor) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPageFetchFailure, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPageFetchFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrPageFetchFailure, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPageFetchFailure, err)
	}

	return doc, nil
}

// ExtractHeaders returns every non-empty H1-H6 heading in document order.
func (e *Extractor) ExtractHeaders(ctx context.Context, pageURL string) ([]domain.PageHeader, error) {
	doc, err := e.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	var headers []domain.PageHeader
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		headers = append(headers, domain.PageHeader{
			Level: strings.ToUpper(goquery.NodeName(s)),
			Text:  text,
		})
	})

	return headers, nil
}

// ExtractImages returns every <img> on the page with its source resolved
// against the page URL. An explicit alt="" counts as decorative, a
// missing alt attribute as missing.
func (e *Extractor) ExtractImages(ctx context.Context, pageURL string) ([]domain.PageImage, error) {
	doc, err := e.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	base, baseErr := url.Parse(pageURL)

	var images []domain.PageImage
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src := s.AttrOr("src", "")
		if src != "" && baseErr == nil {
			if ref, err := url.Parse(src); err == nil {
				src = base.ResolveReference(ref).String()
			}
		}

		alt, hasAlt := s.Attr("alt")

		status := domain.ImageStatusMissing
		switch {
		case strings.TrimSpace(alt) != "":
			status = domain.ImageStatusOK
		case hasAlt:
			status = domain.ImageStatusDecorative
		}

		images = append(images, domain.PageImage{
			Src:    src,
			Alt:    alt,
			Status: status,
		})
	})

	return images, nil
}
