package domain

import (
	"context"
	"time"
)

// ListOptions controls filtering and ordering of list queries.
// Page is 1-based; a zero PerPage means the store's default page size.
type ListOptions struct {
	Strategy string
	Type     string
	SortBy   string
	Page     int
	PerPage  int
}

// UserRepository defines persistence for accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	UserByEmail(ctx context.Context, email string) (*User, error)
	UserByID(ctx context.Context, id int64) (*User, error)
	SaveUser(ctx context.Context, user *User) error
}

// OTPRepository defines persistence for verification codes.
type OTPRepository interface {
	CreateOTP(ctx context.Context, otp *OTP) error
	LatestOTP(ctx context.Context, userID int64) (*OTP, error)
	MarkOTPVerified(ctx context.Context, id int64) error
}

// SessionRepository defines persistence for login sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *Session) error
	SessionByToken(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) error
}

// PageSpeedRepository defines persistence for PageSpeed analyses,
// always scoped by the owning user.
type PageSpeedRepository interface {
	CreatePageSpeedAnalysis(ctx context.Context, analysis *PageSpeedAnalysis, raw []byte) error
	PageSpeedAnalysis(ctx context.Context, userID, id int64) (*PageSpeedAnalysis, error)
	ListPageSpeedAnalyses(ctx context.Context, userID int64, opts ListOptions) ([]PageSpeedAnalysis, int, error)
	DeletePageSpeedAnalysis(ctx context.Context, userID, id int64) error
}

// ImageAnalysisRepository defines persistence for image/alt-text audits.
type ImageAnalysisRepository interface {
	CreateImageAnalysis(ctx context.Context, analysis *ImageAltAnalysis) error
	ImageAnalysis(ctx context.Context, userID, id int64) (*ImageAltAnalysis, error)
	ListImageAnalyses(ctx context.Context, userID int64, opts ListOptions) ([]ImageAltAnalysis, int, error)
	DeleteImageAnalysis(ctx context.Context, userID, id int64) error
}

// KeywordAnalysisRepository defines persistence for keyword lookups.
type KeywordAnalysisRepository interface {
	CreateKeywordAnalysis(ctx context.Context, analysis *KeywordAnalysis) error
	KeywordAnalysis(ctx context.Context, userID, id int64) (*KeywordAnalysis, error)
	ListKeywordAnalyses(ctx context.Context, userID int64, opts ListOptions) ([]KeywordAnalysis, int, error)
	DeleteKeywordAnalysis(ctx context.Context, userID, id int64) error
}

// ConnectionRepository defines persistence for Search Console connections,
// one per user.
type ConnectionRepository interface {
	SaveConnection(ctx context.Context, conn *SearchConsoleConnection) error
	ConnectionByUser(ctx context.Context, userID int64) (*SearchConsoleConnection, error)
	DeleteConnection(ctx context.Context, userID int64) error
}

// ReportRepository defines persistence for generated PDF reports.
type ReportRepository interface {
	CreateReport(ctx context.Context, report *Report) error
	Report(ctx context.Context, userID, id int64) (*Report, error)
	ListReports(ctx context.Context, userID int64, opts ListOptions) ([]Report, int, error)
	SaveReport(ctx context.Context, report *Report) error
	DeleteReport(ctx context.Context, userID, id int64) error
}

// PageSpeedClient defines the interface for the PageSpeed Insights API.
type PageSpeedClient interface {
	RunAnalysis(ctx context.Context, url string, strategy Strategy) (*PageSpeedResult, error)
}

// SearchAnalyticsRequest is the fixed query shape issued per candidate
// property: a date window with the query+page dimensions.
type SearchAnalyticsRequest struct {
	StartDate  time.Time
	EndDate    time.Time
	Dimensions []string
	RowLimit   int
}

// SearchConsoleClient defines the interface for the Search Console API.
type SearchConsoleClient interface {
	ListProperties(ctx context.Context, creds *OAuthCredentials) ([]string, error)
	QuerySearchAnalytics(ctx context.Context, creds *OAuthCredentials, property string, req SearchAnalyticsRequest) ([]SearchAnalyticsRow, error)
}

// PageExtractor defines the interface for fetching a page and pulling
// headings or images out of its HTML.
type PageExtractor interface {
	ExtractHeaders(ctx context.Context, url string) ([]PageHeader, error)
	ExtractImages(ctx context.Context, url string) ([]PageImage, error)
}

// ReportGenerator renders a report into a file and returns its path.
type ReportGenerator interface {
	Generate(data *ReportData) (string, error)
	Remove(path string) error
}

// Mailer delivers verification codes.
type Mailer interface {
	SendOTP(to, code string) error
}

// Cache defines the short-lived state store used for OAuth state, pending
// verification tokens and API response caching.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
}
