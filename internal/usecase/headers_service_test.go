package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/seooptima/backend/internal/domain"
)

func TestHeadersServiceExtract(t *testing.T) {
	extractor := &fakeExtractor{
		headers: []domain.PageHeader{
			{Level: "H1", Text: "Title"},
			{Level: "H2", Text: "Intro"},
			{Level: "H2", Text: "Details"},
			{Level: "H3", Text: "Fine print"},
		},
	}
	service := NewHeadersService(extractor)

	section, err := service.Extract(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if section.URL != "https://example.com" {
		t.Errorf("URL = %q", section.URL)
	}
	if len(section.Headers) != 4 {
		t.Fatalf("got %d headers, want 4", len(section.Headers))
	}
	if section.Headers[0].Text != "Title" {
		t.Errorf("headers should keep document order, got %q first", section.Headers[0].Text)
	}

	want := map[string]int{"H1": 1, "H2": 2, "H3": 1, "H4": 0, "H5": 0, "H6": 0}
	for level, count := range want {
		if section.Hierarchy[level] != count {
			t.Errorf("hierarchy[%s] = %d, want %d", level, section.Hierarchy[level], count)
		}
	}
}

func TestHeadersServiceExtractEmptyPage(t *testing.T) {
	service := NewHeadersService(&fakeExtractor{})

	section, err := service.Extract(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(section.Headers) != 0 {
		t.Errorf("got %d headers, want 0", len(section.Headers))
	}
	// Every level is present even on a page without headings.
	for _, level := range []string{"H1", "H2", "H3", "H4", "H5", "H6"} {
		if count, ok := section.Hierarchy[level]; !ok || count != 0 {
			t.Errorf("hierarchy[%s] = %d, %v; want 0, true", level, count, ok)
		}
	}
}

func TestHeadersServiceExtractErrors(t *testing.T) {
	t.Run("empty url", func(t *testing.T) {
		service := NewHeadersService(&fakeExtractor{})
		if _, err := service.Extract(context.Background(), ""); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("fetch failure", func(t *testing.T) {
		service := NewHeadersService(&fakeExtractor{
			headersErr: domain.ErrPageFetchFailure,
		})
		if _, err := service.Extract(context.Background(), "https://example.com"); !errors.Is(err, domain.ErrPageFetchFailure) {
			t.Errorf("error = %v, want ErrPageFetchFailure", err)
		}
	})
}
