package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"golang.org/x/oauth2"

	"github.com/seooptima/backend/internal/domain"
)

const (
	connectStatePrefix = "connect-state:"
	webmastersScope    = "https://www.googleapis.com/auth/webmasters.readonly"

	searchWindowDays = 90
	searchRowLimit   = 100
)

// KeywordsServiceConfig holds the Google OAuth client used for the
// Search Console connection flow.
type KeywordsServiceConfig struct {
	GoogleClientID string
	GoogleSecret   string
	RedirectURL    string
	StateTTL       time.Duration
}

// KeywordsService connects accounts to Search Console and looks up the
// queries a site ranks for.
type KeywordsService struct {
	repo        domain.KeywordAnalysisRepository
	connections domain.ConnectionRepository
	client      domain.SearchConsoleClient
	cache       domain.Cache
	config      KeywordsServiceConfig
	now         func() time.Time

	exchangeToken func(ctx context.Context, cfg *oauth2.Config, code string) (*oauth2.Token, error)
}

// ConnectionStatus is the user-facing view of a Search Console connection.
type ConnectionStatus struct {
	Connected   bool      `json:"connected"`
	Properties  []string  `json:"properties,omitempty"`
	ConnectedAt time.Time `json:"connectedAt,omitempty"`
}

type connectState struct {
	UserID int64 `json:"userId"`
}

// NewKeywordsService creates a keywords service with its dependencies.
func NewKeywordsService(
	repo domain.KeywordAnalysisRepository,
	connections domain.ConnectionRepository,
	client domain.SearchConsoleClient,
	cache domain.Cache,
	config KeywordsServiceConfig,
) *KeywordsService {
	return &KeywordsService{
		repo:          repo,
		connections:   connections,
		client:        client,
		cache:         cache,
		config:        config,
		now:           time.Now,
		exchangeToken: exchangeGoogleToken,
	}
}

func (s *KeywordsService) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.config.GoogleClientID,
		ClientSecret: s.config.GoogleSecret,
		RedirectURL:  s.config.RedirectURL,
		Scopes:       []string{webmastersScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  googleAuthURL,
			TokenURL: googleTokenURL,
		},
	}
}

// ConnectURL builds the consent-screen URL for connecting Search Console.
// Offline access with forced consent so Google returns a refresh token.
func (s *KeywordsService) ConnectURL(userID int64) (string, error) {
	state, err := randomToken()
	if err != nil {
		return "", err
	}
	entry, err := json.Marshal(connectState{UserID: userID})
	if err != nil {
		return "", fmt.Errorf("encoding connect state: %w", err)
	}
	s.cache.Set(connectStatePrefix+state, entry, s.config.StateTTL)

	url := s.oauthConfig().AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))
	return url, nil
}

// ConnectCallback finishes the connection flow: it validates the state,
// exchanges the code, lists the account's properties and stores the
// connection.
func (s *KeywordsService) ConnectCallback(ctx context.Context, state, code string) (*domain.SearchConsoleConnection, error) {
	raw, ok := s.cache.Get(connectStatePrefix + state)
	if !ok {
		return nil, domain.ErrInvalidState
	}
	s.cache.Delete(connectStatePrefix + state)

	var entry connectState
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decoding connect state: %w", err)
	}

	cfg := s.oauthConfig()
	token, err := s.exchangeToken(ctx, cfg, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	creds := domain.OAuthCredentials{
		Token:        token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenURI:     googleTokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       cfg.Scopes,
		Expiry:       token.Expiry,
	}

	properties, err := s.client.ListProperties(ctx, &creds)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	conn := &domain.SearchConsoleConnection{
		UserID:      entry.UserID,
		Credentials: creds,
		Properties:  properties,
		ConnectedAt: now,
		UpdatedAt:   now,
	}
	if err := s.connections.SaveConnection(ctx, conn); err != nil {
		return nil, err
	}

	log.Printf("[Keywords] Search Console connected for user %d (%d properties)", entry.UserID, len(properties))
	return conn, nil
}

// Status reports whether the user has a connection and which properties
// it can reach.
func (s *KeywordsService) Status(ctx context.Context, userID int64) (*ConnectionStatus, error) {
	conn, err := s.connections.ConnectionByUser(ctx, userID)
	if err == domain.ErrNotConnected {
		return &ConnectionStatus{Connected: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &ConnectionStatus{
		Connected:   true,
		Properties:  conn.Properties,
		ConnectedAt: conn.ConnectedAt,
	}, nil
}

// Disconnect removes the user's Search Console connection.
func (s *KeywordsService) Disconnect(ctx context.Context, userID int64) error {
	return s.connections.DeleteConnection(ctx, userID)
}

// Run looks up the keywords a URL ranks for. Candidate properties are
// tried in order; the first one that returns rows wins. Returns
// ErrNotConnected without a Search Console connection and
// ErrPropertyNotFound when no candidate yields data.
func (s *KeywordsService) Run(ctx context.Context, userID int64, url string) (*domain.KeywordAnalysis, error) {
	if url == "" {
		return nil, domain.ErrInvalidRequest
	}

	conn, err := s.connections.ConnectionByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates := BuildCandidates(url, conn.Properties)
	end := s.now().UTC()
	req := domain.SearchAnalyticsRequest{
		StartDate:  end.AddDate(0, 0, -searchWindowDays),
		EndDate:    end,
		Dimensions: []string{"query", "page"},
		RowLimit:   searchRowLimit,
	}

	var (
		rows     []domain.SearchAnalyticsRow
		property string
		lastErr  error
	)
	for _, candidate := range candidates {
		got, err := s.client.QuerySearchAnalytics(ctx, &conn.Credentials, candidate, req)
		if err != nil {
			// Most candidates are guesses the account has no access
			// to; keep trying the rest.
			log.Printf("[Keywords] Candidate %q failed: %v", candidate, err)
			lastErr = err
			continue
		}
		if len(got) > 0 {
			rows = got
			property = candidate
			break
		}
	}
	if property == "" {
		if lastErr != nil {
			return nil, fmt.Errorf("%w: tried %v against %v: last candidate error: %v",
				domain.ErrPropertyNotFound, candidates, conn.Properties, lastErr)
		}
		return nil, fmt.Errorf("%w: tried %v against %v",
			domain.ErrPropertyNotFound, candidates, conn.Properties)
	}

	// The client may have refreshed the access token while querying;
	// keep the stored connection current.
	conn.UpdatedAt = s.now().UTC()
	if err := s.connections.SaveConnection(ctx, conn); err != nil {
		log.Printf("[Keywords] Persisting refreshed credentials failed: %v", err)
	}

	keywords := mapKeywords(rows)
	now := s.now().UTC()
	analysis := &domain.KeywordAnalysis{
		UserID:    userID,
		URL:       url,
		Property:  property,
		Stats:     computeKeywordStats(keywords),
		Keywords:  keywords,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateKeywordAnalysis(ctx, analysis); err != nil {
		return nil, err
	}

	log.Printf("[Keywords] %d keywords found for %s via %q", len(keywords), url, property)
	return analysis, nil
}

func mapKeywords(rows []domain.SearchAnalyticsRow) []domain.Keyword {
	keywords := make([]domain.Keyword, 0, len(rows))
	for _, row := range rows {
		keywords = append(keywords, domain.Keyword{
			Keyword:  row.Query,
			Volume:   row.Impressions,
			Position: round1(row.Position),
			URL:      row.Page,
			Clicks:   row.Clicks,
			CTR:      round2(row.CTR * 100),
		})
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Volume > keywords[j].Volume
	})
	return keywords
}

func computeKeywordStats(keywords []domain.Keyword) domain.KeywordStats {
	stats := domain.KeywordStats{TotalKeywords: len(keywords)}
	if len(keywords) == 0 {
		return stats
	}

	positionSum := 0.0
	for _, kw := range keywords {
		if kw.Position <= 3 {
			stats.Top3Positions++
		}
		if kw.Position <= 10 {
			stats.Top10Positions++
		}
		if kw.Position <= 20 {
			stats.Top20Positions++
		}
		stats.TotalVolume += kw.Volume
		stats.TotalClicks += kw.Clicks
		positionSum += kw.Position
	}
	stats.AvgPosition = round1(positionSum / float64(len(keywords)))
	return stats
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Detail returns one keyword lookup owned by the user.
func (s *KeywordsService) Detail(ctx context.Context, userID, id int64) (*domain.KeywordAnalysis, error) {
	return s.repo.KeywordAnalysis(ctx, userID, id)
}

// List pages through the user's keyword lookup history.
func (s *KeywordsService) List(ctx context.Context, userID int64, opts domain.ListOptions) ([]domain.KeywordAnalysis, int, error) {
	return s.repo.ListKeywordAnalyses(ctx, userID, opts)
}

// Delete removes one keyword lookup owned by the user.
func (s *KeywordsService) Delete(ctx context.Context, userID, id int64) error {
	return s.repo.DeleteKeywordAnalysis(ctx, userID, id)
}
