package pagespeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/seooptima/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
	"lighthouseResult": {
		"categories": {
			"performance": {"score": 0.93},
			"accessibility": {"score": 0.88},
			"best-practices": {"score": 1.0},
			"seo": {"score": 0.79}
		},
		"audits": {
			"first-contentful-paint": {"title": "First Contentful Paint", "displayValue": "1.2 s", "numericValue": 1180.5, "score": 0.95},
			"speed-index": {"title": "Speed Index", "displayValue": "2.0 s", "numericValue": 2014.0, "score": 0.9},
			"largest-contentful-paint": {"title": "Largest Contentful Paint", "displayValue": "1.8 s", "numericValue": 1803.2, "score": 0.92},
			"total-blocking-time": {"title": "Total Blocking Time", "displayValue": "40 ms", "numericValue": 40, "score": 0.99},
			"cumulative-layout-shift": {"title": "Cumulative Layout Shift", "displayValue": "0.02", "numericValue": 0.02, "score": 1.0}
		}
	},
	"originLoadingExperience": {
		"overall_category": "FAST",
		"metrics": {
			"LARGEST_CONTENTFUL_PAINT_MS": {"percentile": 1900, "category": "FAST"},
			"INTERACTION_TO_NEXT_PAINT": {"percentile": 150, "category": "FAST"},
			"CUMULATIVE_LAYOUT_SHIFT_SCORE": {"percentile": 5, "category": "FAST"}
		}
	}
}`

func TestNewClient(t *testing.T) {
	client := NewClient("test-api-key", "https://api.example.com")

	assert.NotNil(t, client)
	assert.Equal(t, "test-api-key", client.apiKey)
	assert.Equal(t, "https://api.example.com", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
}

func TestRunAnalysis_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/runPagespeed", r.URL.Path)
		assert.Equal(t, "https://example.com", r.URL.Query().Get("url"))
		assert.Equal(t, "mobile", r.URL.Query().Get("strategy"))
		assert.Equal(t, "test-api-key", r.URL.Query().Get("key"))
		assert.ElementsMatch(t,
			[]string{"performance", "accessibility", "best-practices", "seo"},
			r.URL.Query()["category"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)
	result, err := client.RunAnalysis(context.Background(), "https://example.com", domain.StrategyMobile)

	require.NoError(t, err)
	require.NotNil(t, result)

	require.NotNil(t, result.Scores.Performance)
	assert.Equal(t, 93, *result.Scores.Performance)
	require.NotNil(t, result.Scores.SEO)
	assert.Equal(t, 79, *result.Scores.SEO)

	require.NotNil(t, result.Metrics.LCP)
	assert.Equal(t, "1.8 s", result.Metrics.LCP.DisplayValue)
	assert.Equal(t, 1803.2, result.Metrics.LCP.NumericValue)

	assert.Equal(t, "FAST", result.FieldData.OverallCategory)
	require.NotNil(t, result.FieldData.LCP)
	assert.Equal(t, "1.9 s", result.FieldData.LCP.Value)
	require.NotNil(t, result.FieldData.INP)
	assert.Equal(t, "150 ms", result.FieldData.INP.Value)

	assert.NotEmpty(t, result.Raw)
}

func TestRunAnalysis_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "Lighthouse returned error: ERRORED_DOCUMENT_REQUEST"}}`))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)
	result, err := client.RunAnalysis(context.Background(), "https://unreachable.invalid", domain.StrategyDesktop)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domain.ErrPageSpeedAPIFailure))
	assert.Contains(t, err.Error(), "ERRORED_DOCUMENT_REQUEST")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRunAnalysis_ServerErrorRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)
	result, err := client.RunAnalysis(context.Background(), "https://example.com", domain.StrategyMobile)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRunAnalysis_AllRetriesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)
	result, err := client.RunAnalysis(context.Background(), "https://example.com", domain.StrategyMobile)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domain.ErrPageSpeedAPIFailure))
}
