package usecase

import (
	"context"
	"time"

	"github.com/seooptima/backend/internal/domain"
)

// In-memory fakes shared by the service tests.

type fakeUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*domain.User{}}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	r.nextID++
	user.ID = r.nextID
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UserByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) UserByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) SaveUser(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

type fakeOTPRepo struct {
	otps   []*domain.OTP
	nextID int64
}

func (r *fakeOTPRepo) CreateOTP(_ context.Context, otp *domain.OTP) error {
	r.nextID++
	otp.ID = r.nextID
	copied := *otp
	r.otps = append(r.otps, &copied)
	return nil
}

func (r *fakeOTPRepo) LatestOTP(_ context.Context, userID int64) (*domain.OTP, error) {
	for i := len(r.otps) - 1; i >= 0; i-- {
		if r.otps[i].UserID == userID {
			copied := *r.otps[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeOTPRepo) MarkOTPVerified(_ context.Context, id int64) error {
	for _, otp := range r.otps {
		if otp.ID == id {
			otp.Verified = true
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*domain.Session{}}
}

func (r *fakeSessionRepo) CreateSession(_ context.Context, session *domain.Session) error {
	copied := *session
	r.sessions[session.Token] = &copied
	return nil
}

func (r *fakeSessionRepo) SessionByToken(_ context.Context, token string) (*domain.Session, error) {
	s, ok := r.sessions[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSessionRepo) DeleteSession(_ context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

func (r *fakeSessionRepo) DeleteExpiredSessions(_ context.Context, now time.Time) error {
	for token, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, token)
		}
	}
	return nil
}

type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (c *fakeCache) Get(key string) ([]byte, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *fakeCache) Set(key string, value []byte, _ time.Duration) {
	c.entries[key] = value
}

func (c *fakeCache) Delete(key string) {
	delete(c.entries, key)
}

type fakeMailer struct {
	sent []struct{ To, Code string }
	err  error
}

func (m *fakeMailer) SendOTP(to, code string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, struct{ To, Code string }{to, code})
	return nil
}

func (m *fakeMailer) lastCode() string {
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].Code
}

type fakePageSpeedRepo struct {
	analyses map[int64]*domain.PageSpeedAnalysis
	raws     map[int64][]byte
	nextID   int64
}

func newFakePageSpeedRepo() *fakePageSpeedRepo {
	return &fakePageSpeedRepo{
		analyses: map[int64]*domain.PageSpeedAnalysis{},
		raws:     map[int64][]byte{},
	}
}

func (r *fakePageSpeedRepo) CreatePageSpeedAnalysis(_ context.Context, analysis *domain.PageSpeedAnalysis, raw []byte) error {
	r.nextID++
	analysis.ID = r.nextID
	copied := *analysis
	r.analyses[analysis.ID] = &copied
	r.raws[analysis.ID] = raw
	return nil
}

func (r *fakePageSpeedRepo) PageSpeedAnalysis(_ context.Context, userID, id int64) (*domain.PageSpeedAnalysis, error) {
	a, ok := r.analyses[id]
	if !ok || a.UserID != userID {
		return nil, domain.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakePageSpeedRepo) ListPageSpeedAnalyses(_ context.Context, userID int64, _ domain.ListOptions) ([]domain.PageSpeedAnalysis, int, error) {
	var out []domain.PageSpeedAnalysis
	for id := r.nextID; id >= 1; id-- {
		if a, ok := r.analyses[id]; ok && a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, len(out), nil
}

func (r *fakePageSpeedRepo) DeletePageSpeedAnalysis(_ context.Context, userID, id int64) error {
	a, ok := r.analyses[id]
	if !ok || a.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.analyses, id)
	return nil
}

type fakeImageRepo struct {
	analyses map[int64]*domain.ImageAltAnalysis
	nextID   int64
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{analyses: map[int64]*domain.ImageAltAnalysis{}}
}

func (r *fakeImageRepo) CreateImageAnalysis(_ context.Context, analysis *domain.ImageAltAnalysis) error {
	r.nextID++
	analysis.ID = r.nextID
	copied := *analysis
	r.analyses[analysis.ID] = &copied
	return nil
}

func (r *fakeImageRepo) ImageAnalysis(_ context.Context, userID, id int64) (*domain.ImageAltAnalysis, error) {
	a, ok := r.analyses[id]
	if !ok || a.UserID != userID {
		return nil, domain.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeImageRepo) ListImageAnalyses(_ context.Context, userID int64, _ domain.ListOptions) ([]domain.ImageAltAnalysis, int, error) {
	var out []domain.ImageAltAnalysis
	for id := r.nextID; id >= 1; id-- {
		if a, ok := r.analyses[id]; ok && a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, len(out), nil
}

func (r *fakeImageRepo) DeleteImageAnalysis(_ context.Context, userID, id int64) error {
	a, ok := r.analyses[id]
	if !ok || a.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.analyses, id)
	return nil
}

type fakeKeywordRepo struct {
	analyses map[int64]*domain.KeywordAnalysis
	nextID   int64
}

func newFakeKeywordRepo() *fakeKeywordRepo {
	return &fakeKeywordRepo{analyses: map[int64]*domain.KeywordAnalysis{}}
}

func (r *fakeKeywordRepo) CreateKeywordAnalysis(_ context.Context, analysis *domain.KeywordAnalysis) error {
	r.nextID++
	analysis.ID = r.nextID
	copied := *analysis
	r.analyses[analysis.ID] = &copied
	return nil
}

func (r *fakeKeywordRepo) KeywordAnalysis(_ context.Context, userID, id int64) (*domain.KeywordAnalysis, error) {
	a, ok := r.analyses[id]
	if !ok || a.UserID != userID {
		return nil, domain.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeKeywordRepo) ListKeywordAnalyses(_ context.Context, userID int64, _ domain.ListOptions) ([]domain.KeywordAnalysis, int, error) {
	var out []domain.KeywordAnalysis
	for id := r.nextID; id >= 1; id-- {
		if a, ok := r.analyses[id]; ok && a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, len(out), nil
}

func (r *fakeKeywordRepo) DeleteKeywordAnalysis(_ context.Context, userID, id int64) error {
	a, ok := r.analyses[id]
	if !ok || a.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.analyses, id)
	return nil
}

type fakeConnectionRepo struct {
	conns map[int64]*domain.SearchConsoleConnection
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{conns: map[int64]*domain.SearchConsoleConnection{}}
}

func (r *fakeConnectionRepo) SaveConnection(_ context.Context, conn *domain.SearchConsoleConnection) error {
	copied := *conn
	r.conns[conn.UserID] = &copied
	return nil
}

func (r *fakeConnectionRepo) ConnectionByUser(_ context.Context, userID int64) (*domain.SearchConsoleConnection, error) {
	c, ok := r.conns[userID]
	if !ok {
		return nil, domain.ErrNotConnected
	}
	copied := *c
	return &copied, nil
}

func (r *fakeConnectionRepo) DeleteConnection(_ context.Context, userID int64) error {
	if _, ok := r.conns[userID]; !ok {
		return domain.ErrNotConnected
	}
	delete(r.conns, userID)
	return nil
}

type fakeReportRepo struct {
	reports map[int64]*domain.Report
	nextID  int64
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: map[int64]*domain.Report{}}
}

func (r *fakeReportRepo) CreateReport(_ context.Context, report *domain.Report) error {
	r.nextID++
	report.ID = r.nextID
	copied := *report
	r.reports[report.ID] = &copied
	return nil
}

func (r *fakeReportRepo) Report(_ context.Context, userID, id int64) (*domain.Report, error) {
	rep, ok := r.reports[id]
	if !ok || rep.UserID != userID {
		return nil, domain.ErrNotFound
	}
	copied := *rep
	return &copied, nil
}

func (r *fakeReportRepo) ListReports(_ context.Context, userID int64, _ domain.ListOptions) ([]domain.Report, int, error) {
	var out []domain.Report
	for id := r.nextID; id >= 1; id-- {
		if rep, ok := r.reports[id]; ok && rep.UserID == userID {
			out = append(out, *rep)
		}
	}
	return out, len(out), nil
}

func (r *fakeReportRepo) SaveReport(_ context.Context, report *domain.Report) error {
	if rep, ok := r.reports[report.ID]; !ok || rep.UserID != report.UserID {
		return domain.ErrNotFound
	}
	copied := *report
	r.reports[report.ID] = &copied
	return nil
}

func (r *fakeReportRepo) DeleteReport(_ context.Context, userID, id int64) error {
	rep, ok := r.reports[id]
	if !ok || rep.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.reports, id)
	return nil
}

type fakePageSpeedClient struct {
	result *domain.PageSpeedResult
	err    error
	calls  int
}

func (c *fakePageSpeedClient) RunAnalysis(_ context.Context, _ string, _ domain.Strategy) (*domain.PageSpeedResult, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

type fakeExtractor struct {
	headers    []domain.PageHeader
	images     []domain.PageImage
	headersErr error
	imagesErr  error
}

func (e *fakeExtractor) ExtractHeaders(_ context.Context, _ string) ([]domain.PageHeader, error) {
	if e.headersErr != nil {
		return nil, e.headersErr
	}
	return e.headers, nil
}

func (e *fakeExtractor) ExtractImages(_ context.Context, _ string) ([]domain.PageImage, error) {
	if e.imagesErr != nil {
		return nil, e.imagesErr
	}
	return e.images, nil
}

// fakeSearchConsole maps property identifiers to canned rows or errors.
type fakeSearchConsole struct {
	properties []string
	rows       map[string][]domain.SearchAnalyticsRow
	errs       map[string]error
	queried    []string
}

func (c *fakeSearchConsole) ListProperties(_ context.Context, _ *domain.OAuthCredentials) ([]string, error) {
	return c.properties, nil
}

func (c *fakeSearchConsole) QuerySearchAnalytics(_ context.Context, _ *domain.OAuthCredentials, property string, _ domain.SearchAnalyticsRequest) ([]domain.SearchAnalyticsRow, error) {
	c.queried = append(c.queried, property)
	if err, ok := c.errs[property]; ok {
		return nil, err
	}
	return c.rows[property], nil
}

type fakeGenerator struct {
	generated int
	removed   []string
	err       error
}

func (g *fakeGenerator) Generate(_ *domain.ReportData) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.generated++
	return "reports/fake.pdf", nil
}

func (g *fakeGenerator) Remove(path string) error {
	g.removed = append(g.removed, path)
	return nil
}
