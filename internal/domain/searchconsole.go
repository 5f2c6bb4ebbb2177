package domain

import "time"

// OAuthCredentials is the stored OAuth2 credential record for a user's
// Search Console connection.
type OAuthCredentials struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	TokenURI     string    `json:"tokenUri"`
	ClientID     string    `json:"clientId"`
	ClientSecret string    `json:"clientSecret"`
	Scopes       []string  `json:"scopes"`
	Expiry       time.Time `json:"expiry"`
}

// SearchConsoleConnection links a user to their Search Console account:
// the credential record plus the properties that account can access.
type SearchConsoleConnection struct {
	UserID      int64            `json:"-"`
	Credentials OAuthCredentials `json:"-"`
	Properties  []string         `json:"properties"`
	ConnectedAt time.Time        `json:"connectedAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// SearchAnalyticsRow is one row of ranking data returned by the Search
// Console query API for the (query, page) dimension pair.
type SearchAnalyticsRow struct {
	Query       string
	Page        string
	Clicks      int
	Impressions int
	CTR         float64
	Position    float64
}
