package pagespeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/seooptima/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client handles communication with the Google PageSpeed Insights API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
}

// NewClient creates a new PageSpeed Insights API client
func NewClient(apiKey, baseURL string) *Client {
	// The PageSpeed API allows 240 queries per minute per project,
	// so 4 requests/sec with a small burst keeps us well inside it.
	limiter := rate.NewLimiter(rate.Limit(4), 4)

	return &Client{
		httpClient: &http.Client{
			// Lighthouse runs take a while; 60s matches the API's own ceiling.
			Timeout: 60 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "SEOOptima/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPageSpeedAPIFailure, err)
	}

	return resp, nil
}

// RunAnalysis runs a Lighthouse analysis for the given URL and strategy
// and reshapes the response into typed scores, lab metrics and field data.
func (c *Client) RunAnalysis(ctx context.Context, pageURL string, strategy domain.Strategy) (*domain.PageSpeedResult, error) {
	log.Printf("[PageSpeed] RunAnalysis called for %q (%s)", pageURL, strategy)

	endpoint := fmt.Sprintf("%s/runPagespeed", c.baseURL)
	params := url.Values{}
	params.Add("url", pageURL)
	params.Add("strategy", string(strategy))
	params.Add("key", c.apiKey)
	for _, cat := range []string{"performance", "accessibility", "best-practices", "seo"} {
		params.Add("category", cat)
	}

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			log.Printf("[PageSpeed] Rate limiter error: %v", err)
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[PageSpeed] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		// 4xx responses carry a structured error message worth surfacing;
		// they are not retried because the request will not get better.
		if resp.StatusCode != http.StatusOK {
			log.Printf("[PageSpeed] API error (attempt %d) - Status: %d", attempt, resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return nil, fmt.Errorf("%w: %s", domain.ErrPageSpeedAPIFailure, apiErrorMessage(body, resp.StatusCode))
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrPageSpeedAPIFailure, resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		var apiResp apiResponse
		if err := json.Unmarshal(body, &apiResp); err != nil {
			log.Printf("[PageSpeed] JSON decode error: %v", err)
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		result := mapResult(&apiResp)
		result.Raw = json.RawMessage(body)

		log.Printf("[PageSpeed] Analysis completed for %q (%s)", pageURL, strategy)
		return result, nil
	}

	log.Printf("[PageSpeed] All retries failed for %q", pageURL)
	return nil, lastErr
}

// apiErrorMessage pulls the human-readable message out of a Google API
// error body, falling back to the status code.
func apiErrorMessage(body []byte, status int) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return fmt.Sprintf("status %d", status)
}
