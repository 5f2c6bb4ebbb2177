package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mazen160/go-random"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/seooptima/backend/internal/domain"
)

const (
	pendingKeyPrefix = "pending:"
	stateKeyPrefix   = "oauth-state:"

	googleAuthURL     = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// AuthServiceConfig holds lifetimes and the Google OAuth client used for
// social sign-in.
type AuthServiceConfig struct {
	SessionTTL     time.Duration
	OTPTTL         time.Duration
	PendingTTL     time.Duration
	StateTTL       time.Duration
	GoogleClientID string
	GoogleSecret   string
	RedirectURL    string
}

// AuthService handles registration, OTP verification, login and sessions.
type AuthService struct {
	users    domain.UserRepository
	otps     domain.OTPRepository
	sessions domain.SessionRepository
	cache    domain.Cache
	mailer   domain.Mailer
	config   AuthServiceConfig
	now      func() time.Time

	// exchangeToken and fetchUserInfo are swappable for tests.
	exchangeToken func(ctx context.Context, cfg *oauth2.Config, code string) (*oauth2.Token, error)
	fetchUserInfo func(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token) (*googleUserInfo, error)
}

// PendingVerification is handed back after registration: the client
// presents the token together with the emailed code.
type PendingVerification struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthResult is a successful authentication: the user plus a session token.
type AuthResult struct {
	User         *domain.User `json:"user"`
	SessionToken string       `json:"sessionToken"`
	ExpiresAt    time.Time    `json:"expiresAt"`
}

type pendingEntry struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// NewAuthService creates an auth service with its dependencies.
func NewAuthService(
	users domain.UserRepository,
	otps domain.OTPRepository,
	sessions domain.SessionRepository,
	cache domain.Cache,
	mailer domain.Mailer,
	config AuthServiceConfig,
) *AuthService {
	return &AuthService{
		users:         users,
		otps:          otps,
		sessions:      sessions,
		cache:         cache,
		mailer:        mailer,
		config:        config,
		now:           time.Now,
		exchangeToken: exchangeGoogleToken,
		fetchUserInfo: fetchGoogleUserInfo,
	}
}

func normalizeEmail(email string) string {
	return strings.Trim(strings.ToLower(email), " \t\n")
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func randomOTPCode() (string, error) {
	n, err := random.IntRange(0, 1000000)
	if err != nil {
		return "", fmt.Errorf("generating otp code: %w", err)
	}
	return fmt.Sprintf("%06d", n), nil
}

// Register creates an inactive account and emails it a verification code.
// Returns the pending token the client must present alongside the code.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*PendingVerification, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidRequest
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		IsActive:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.startVerification(ctx, user)
}

// startVerification issues a fresh OTP for the user, mails it, and caches
// a pending token the client uses to finish verification.
func (s *AuthService) startVerification(ctx context.Context, user *domain.User) (*PendingVerification, error) {
	code, err := randomOTPCode()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	otp := &domain.OTP{
		UserID:    user.ID,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.OTPTTL),
	}
	if err := s.otps.CreateOTP(ctx, otp); err != nil {
		return nil, err
	}

	if err := s.mailer.SendOTP(user.Email, code); err != nil {
		return nil, err
	}

	token, err := randomToken()
	if err != nil {
		return nil, err
	}
	entry, err := json.Marshal(pendingEntry{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("encoding pending entry: %w", err)
	}
	s.cache.Set(pendingKeyPrefix+token, entry, s.config.PendingTTL)

	log.Printf("[Auth] Verification started for %s", user.Email)
	return &PendingVerification{
		Token:     token,
		Email:     user.Email,
		ExpiresAt: now.Add(s.config.PendingTTL),
	}, nil
}

// VerifyOTP checks the emailed code against the pending token, activates
// the account and opens a session.
func (s *AuthService) VerifyOTP(ctx context.Context, pendingToken, code string) (*AuthResult, error) {
	entry, err := s.pendingEntry(pendingToken)
	if err != nil {
		return nil, err
	}

	otp, err := s.otps.LatestOTP(ctx, entry.UserID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if otp.Expired(now) {
		return nil, domain.ErrOTPExpired
	}
	if otp.Verified || otp.Code != code {
		return nil, domain.ErrInvalidOTP
	}
	if err := s.otps.MarkOTPVerified(ctx, otp.ID); err != nil {
		return nil, err
	}

	user, err := s.users.UserByID(ctx, entry.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		user.IsActive = true
		user.UpdatedAt = now
		if err := s.users.SaveUser(ctx, user); err != nil {
			return nil, err
		}
	}

	s.cache.Delete(pendingKeyPrefix + pendingToken)
	log.Printf("[Auth] Account verified for %s", user.Email)
	return s.openSession(ctx, user)
}

// ResendOTP issues a new code for an unfinished verification. The pending
// token stays valid.
func (s *AuthService) ResendOTP(ctx context.Context, pendingToken string) error {
	entry, err := s.pendingEntry(pendingToken)
	if err != nil {
		return err
	}

	code, err := randomOTPCode()
	if err != nil {
		return err
	}
	now := s.now().UTC()
	otp := &domain.OTP{
		UserID:    entry.UserID,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.OTPTTL),
	}
	if err := s.otps.CreateOTP(ctx, otp); err != nil {
		return err
	}
	return s.mailer.SendOTP(entry.Email, code)
}

func (s *AuthService) pendingEntry(token string) (*pendingEntry, error) {
	raw, ok := s.cache.Get(pendingKeyPrefix + token)
	if !ok {
		return nil, domain.ErrInvalidOTP
	}
	var entry pendingEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decoding pending entry: %w", err)
	}
	return &entry, nil
}

// Login authenticates with email and password. An unverified account gets
// a fresh OTP and ErrAccountInactive so the client can resume verification.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, *PendingVerification, error) {
	user, err := s.users.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if user.PasswordHash == "" {
		// Google-only account; no password to check.
		return nil, nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		pending, err := s.startVerification(ctx, user)
		if err != nil {
			return nil, nil, err
		}
		return nil, pending, domain.ErrAccountInactive
	}

	result, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return result, nil, nil
}

func (s *AuthService) openSession(ctx context.Context, user *domain.User) (*AuthResult, error) {
	token, err := randomToken()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	session := &domain.Session{
		Token:     token,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.SessionTTL),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return &AuthResult{User: user, SessionToken: token, ExpiresAt: session.ExpiresAt}, nil
}

// Logout deletes the session behind the token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

// UserFromSession resolves a bearer token to its user, rejecting expired
// sessions.
func (s *AuthService) UserFromSession(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidSession
	}
	session, err := s.sessions.SessionByToken(ctx, token)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrInvalidSession
		}
		return nil, err
	}
	if session.Expired(s.now().UTC()) {
		_ = s.sessions.DeleteSession(ctx, token)
		return nil, domain.ErrInvalidSession
	}
	return s.users.UserByID(ctx, session.UserID)
}

// CleanupSessions removes expired sessions. Intended to run periodically.
func (s *AuthService) CleanupSessions(ctx context.Context) error {
	return s.sessions.DeleteExpiredSessions(ctx, s.now().UTC())
}

func (s *AuthService) googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.config.GoogleClientID,
		ClientSecret: s.config.GoogleSecret,
		RedirectURL:  s.config.RedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  googleAuthURL,
			TokenURL: googleTokenURL,
		},
	}
}

// GoogleLoginURL builds the consent-screen URL for Google sign-in. The
// random state is cached and checked again in the callback.
func (s *AuthService) GoogleLoginURL() (string, error) {
	state, err := randomToken()
	if err != nil {
		return "", err
	}
	s.cache.Set(stateKeyPrefix+state, []byte("login"), s.config.StateTTL)
	return s.googleOAuthConfig().AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// GoogleCallback finishes Google sign-in: it validates the state,
// exchanges the code, and starts OTP verification for the account,
// creating it on first sign-in. Unverified Google emails are rejected,
// and every sign-in, new account or not, re-verifies by OTP before a
// session opens.
func (s *AuthService) GoogleCallback(ctx context.Context, state, code string) (*PendingVerification, error) {
	if _, ok := s.cache.Get(stateKeyPrefix + state); !ok {
		return nil, domain.ErrInvalidState
	}
	s.cache.Delete(stateKeyPrefix + state)

	cfg := s.googleOAuthConfig()
	token, err := s.exchangeToken(ctx, cfg, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	info, err := s.fetchUserInfo(ctx, cfg, token)
	if err != nil {
		return nil, fmt.Errorf("fetching google profile: %w", err)
	}
	if info.Email == "" || !info.VerifiedEmail {
		return nil, domain.ErrInvalidRequest
	}

	email := normalizeEmail(info.Email)
	now := s.now().UTC()
	user, err := s.users.UserByEmail(ctx, email)
	switch err {
	case nil:
		if user.Name == "" {
			user.Name = info.Name
		}
		user.IsActive = false
		user.UpdatedAt = now
		if err := s.users.SaveUser(ctx, user); err != nil {
			return nil, err
		}
	case domain.ErrNotFound:
		user = &domain.User{
			Email:     email,
			Name:      info.Name,
			IsActive:  false,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.users.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		log.Printf("[Auth] Account created via Google for %s", email)
	default:
		return nil, err
	}

	return s.startVerification(ctx, user)
}

func exchangeGoogleToken(ctx context.Context, cfg *oauth2.Config, code string) (*oauth2.Token, error) {
	return cfg.Exchange(ctx, code)
}

func fetchGoogleUserInfo(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token) (*googleUserInfo, error) {
	client := cfg.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}
