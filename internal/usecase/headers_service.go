package usecase

import (
	"context"

	"github.com/seooptima/backend/internal/domain"
)

// HeadersService extracts the heading structure of a page. Results are
// returned directly and embedded into reports; they are not persisted on
// their own.
type HeadersService struct {
	extractor domain.PageExtractor
}

// NewHeadersService creates a headers service with its dependencies.
func NewHeadersService(extractor domain.PageExtractor) *HeadersService {
	return &HeadersService{extractor: extractor}
}

// Extract fetches the page and returns its headings in document order
// together with the per-level counts.
func (s *HeadersService) Extract(ctx context.Context, url string) (*domain.HeadersSection, error) {
	if url == "" {
		return nil, domain.ErrInvalidRequest
	}

	headers, err := s.extractor.ExtractHeaders(ctx, url)
	if err != nil {
		return nil, err
	}
	return &domain.HeadersSection{
		URL:       url,
		Headers:   headers,
		Hierarchy: headerHierarchy(headers),
	}, nil
}

func headerHierarchy(headers []domain.PageHeader) map[string]int {
	counts := map[string]int{"H1": 0, "H2": 0, "H3": 0, "H4": 0, "H5": 0, "H6": 0}
	for _, h := range headers {
		counts[h.Level]++
	}
	return counts
}
