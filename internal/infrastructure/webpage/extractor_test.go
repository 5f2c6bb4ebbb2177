package webpage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/seooptima/backend/internal/domain"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Sample</title></head>
<body>
	<h1>Main Title</h1>
	<h2>  Subtitle  </h2>
	<h3></h3>
	<h2>Another Section</h2>
	<img src="/images/logo.png" alt="Company logo">
	<img src="https://cdn.example.com/banner.jpg" alt="">
	<img src="photo.jpg">
</body>
</html>`

func serve(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestExtractHeaders(t *testing.T) {
	server := serve(t, samplePage)
	extractor := NewExtractor(5 * time.Second)

	headers, err := extractor.ExtractHeaders(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("ExtractHeaders() error = %v", err)
	}

	want := []domain.PageHeader{
		{Level: "H1", Text: "Main Title"},
		{Level: "H2", Text: "Subtitle"},
		{Level: "H2", Text: "Another Section"},
	}

	if len(headers) != len(want) {
		t.Fatalf("got %d headers, want %d: %v", len(headers), len(want), headers)
	}
	for i, h := range headers {
		if h != want[i] {
			t.Errorf("headers[%d] = %+v, want %+v", i, h, want[i])
		}
	}
}

func TestExtractImages(t *testing.T) {
	server := serve(t, samplePage)
	extractor := NewExtractor(5 * time.Second)

	images, err := extractor.ExtractImages(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("ExtractImages() error = %v", err)
	}

	if len(images) != 3 {
		t.Fatalf("got %d images, want 3: %v", len(images), images)
	}

	t.Run("relative src resolved against page URL", func(t *testing.T) {
		if images[0].Src != server.URL+"/images/logo.png" {
			t.Errorf("Src = %q, want %q", images[0].Src, server.URL+"/images/logo.png")
		}
		if images[0].Status != domain.ImageStatusOK {
			t.Errorf("Status = %q, want OK", images[0].Status)
		}
	})

	t.Run("explicit empty alt is decorative", func(t *testing.T) {
		if images[1].Src != "https://cdn.example.com/banner.jpg" {
			t.Errorf("Src = %q, want absolute URL untouched", images[1].Src)
		}
		if images[1].Status != domain.ImageStatusDecorative {
			t.Errorf("Status = %q, want Decorative", images[1].Status)
		}
	})

	t.Run("absent alt attribute is missing", func(t *testing.T) {
		if images[2].Status != domain.ImageStatusMissing {
			t.Errorf("Status = %q, want Missing", images[2].Status)
		}
	})
}

func TestExtract_FetchErrors(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		extractor := NewExtractor(5 * time.Second)
		_, err := extractor.ExtractHeaders(context.Background(), server.URL)
		if !errors.Is(err, domain.ErrPageFetchFailure) {
			t.Errorf("error = %v, want ErrPageFetchFailure", err)
		}
	})

	t.Run("unreachable host", func(t *testing.T) {
		extractor := NewExtractor(time.Second)
		_, err := extractor.ExtractImages(context.Background(), "http://127.0.0.1:1")
		if !errors.Is(err, domain.ErrPageFetchFailure) {
			t.Errorf("error = %v, want ErrPageFetchFailure", err)
		}
	})
}
