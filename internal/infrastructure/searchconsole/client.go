// Package searchconsole talks to the Google Search Console (webmasters)
// API with a user's stored OAuth credentials.
package searchconsole

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/seooptima/backend/internal/domain"
	"golang.org/x/oauth2"
)

const defaultBaseURL = "https://www.googleapis.com/webmasters/v3"

// Client is a Search Console API client. Requests authenticate with the
// per-user credential record; expired access tokens are refreshed via
// the stored refresh token and the refreshed token is written back into
// the credential record so the caller can persist it.
type Client struct {
	http *resty.Client
}

// NewClient creates a Search Console client.
func NewClient() *Client {
	return &Client{
		http: resty.New().SetBaseURL(defaultBaseURL),
	}
}

// NewClientWithBaseURL creates a client against a non-default endpoint.
// Used by tests.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		http: resty.New().SetBaseURL(baseURL),
	}
}

type siteList struct {
	SiteEntry []struct {
		SiteURL         string `json:"siteUrl"`
		PermissionLevel string `json:"permissionLevel"`
	} `json:"siteEntry"`
}

type queryRequest struct {
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	Dimensions []string `json:"dimensions"`
	RowLimit   int      `json:"rowLimit"`
	StartRow   int      `json:"startRow"`
}

type queryResponse struct {
	Rows []struct {
		Keys        []string `json:"keys"`
		Clicks      float64  `json:"clicks"`
		Impressions float64  `json:"impressions"`
		CTR         float64  `json:"ctr"`
		Position    float64  `json:"position"`
	} `json:"rows"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// freshToken returns a valid access token for the credentials, refreshing
// through the token endpoint when the stored one is expired. A refreshed
// token is written back into creds.
func (c *Client) freshToken(ctx context.Context, creds *domain.OAuthCredentials) (string, error) {
	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: creds.TokenURI},
		Scopes:       creds.Scopes,
	}
	stored := &oauth2.Token{
		AccessToken:  creds.Token,
		RefreshToken: creds.RefreshToken,
		Expiry:       creds.Expiry,
	}

	tok, err := conf.TokenSource(ctx, stored).Token()
	if err != nil {
		return "", fmt.Errorf("%w: token refresh: %v", domain.ErrSearchConsoleAPIFailure, err)
	}

	if tok.AccessToken != creds.Token {
		log.Printf("[SearchConsole] Access token refreshed")
		creds.Token = tok.AccessToken
		creds.Expiry = tok.Expiry
		if tok.RefreshToken != "" {
			creds.RefreshToken = tok.RefreshToken
		}
	}

	return tok.AccessToken, nil
}

// ListProperties returns the property identifiers the account has access to.
func (c *Client) ListProperties(ctx context.Context, creds *domain.OAuthCredentials) ([]string, error) {
	token, err := c.freshToken(ctx, creds)
	if err != nil {
		return nil, err
	}

	var (
		sites  siteList
		apiErr apiError
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&sites).
		SetError(&apiErr).
		Get("/sites")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchConsoleAPIFailure, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s", domain.ErrSearchConsoleAPIFailure, errorMessage(&apiErr, resp.StatusCode()))
	}

	properties := make([]string, 0, len(sites.SiteEntry))
	for _, entry := range sites.SiteEntry {
		properties = append(properties, entry.SiteURL)
	}

	log.Printf("[SearchConsole] Account has access to %d properties", len(properties))
	return properties, nil
}

// QuerySearchAnalytics runs a search-analytics query against one property
// and returns its rows. An empty row set is not an error; the caller
// decides whether to move on to another candidate property.
func (c *Client) QuerySearchAnalytics(ctx context.Context, creds *domain.OAuthCredentials, property string, req domain.SearchAnalyticsRequest) ([]domain.SearchAnalyticsRow, error) {
	token, err := c.freshToken(ctx, creds)
	if err != nil {
		return nil, err
	}

	body := queryRequest{
		StartDate:  req.StartDate.Format("2006-01-02"),
		EndDate:    req.EndDate.Format("2006-01-02"),
		Dimensions: req.Dimensions,
		RowLimit:   req.RowLimit,
		StartRow:   0,
	}

	var (
		result queryResponse
		apiErr apiError
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(body).
		SetResult(&result).
		SetError(&apiErr).
		Post(fmt.Sprintf("/sites/%s/searchAnalytics/query", url.PathEscape(property)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchConsoleAPIFailure, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s", domain.ErrSearchConsoleAPIFailure, errorMessage(&apiErr, resp.StatusCode()))
	}

	rows := make([]domain.SearchAnalyticsRow, 0, len(result.Rows))
	for _, r := range result.Rows {
		row := domain.SearchAnalyticsRow{
			Clicks:      int(r.Clicks),
			Impressions: int(r.Impressions),
			CTR:         r.CTR,
			Position:    r.Position,
		}
		if len(r.Keys) > 0 {
			row.Query = r.Keys[0]
		}
		if len(r.Keys) > 1 {
			row.Page = r.Keys[1]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func errorMessage(apiErr *apiError, status int) string {
	if apiErr != nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return fmt.Sprintf("status %d", status)
}
