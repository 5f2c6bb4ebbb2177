package domain

import "time"

// User represents a registered account. Accounts start inactive and are
// activated once the email address is confirmed with an OTP.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// OTP is a one-time numeric code used to confirm an email address.
type OTP struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Code      string    `json:"-"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the code is past its expiry at the given time.
func (o *OTP) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// Session is a server-side login session keyed by a random bearer token
// with an explicit expiry.
type Session struct {
	Token     string    `json:"-"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
