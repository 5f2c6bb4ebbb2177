package domain

import "errors"

var (
	// ErrNotFound is returned when a record does not exist or belongs to another user
	ErrNotFound = errors.New("record not found")

	// ErrEmailTaken is returned when registering with an email that already has an account
	ErrEmailTaken = errors.New("email is already registered")

	// ErrInvalidCredentials is returned when login email/password verification fails
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountInactive is returned when an unverified account attempts to sign in
	ErrAccountInactive = errors.New("account is not verified")

	// ErrInvalidOTP is returned when the provided verification code does not match
	ErrInvalidOTP = errors.New("invalid verification code")

	// ErrOTPExpired is returned when the verification code is past its expiry
	ErrOTPExpired = errors.New("verification code has expired")

	// ErrInvalidSession is returned when a session token is missing, unknown or expired
	ErrInvalidSession = errors.New("invalid or expired session")

	// ErrInvalidState is returned when an OAuth callback state does not match the issued one
	ErrInvalidState = errors.New("oauth state mismatch")

	// ErrNotConnected is returned when a Search Console operation requires a
	// connection the user has not established
	ErrNotConnected = errors.New("search console is not connected")

	// ErrPropertyNotFound is returned when every candidate property was tried
	// against the ranking API without getting data back
	ErrPropertyNotFound = errors.New("no matching search console property found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrPageSpeedAPIFailure is returned when the PageSpeed Insights API request fails
	ErrPageSpeedAPIFailure = errors.New("pagespeed api request failed")

	// ErrSearchConsoleAPIFailure is returned when a Search Console API request fails
	ErrSearchConsoleAPIFailure = errors.New("search console api request failed")

	// ErrPageFetchFailure is returned when the target page cannot be fetched or parsed
	ErrPageFetchFailure = errors.New("could not fetch page")

	// ErrNoReportSections is returned when a report is requested with no analyses selected
	ErrNoReportSections = errors.New("report needs at least one section")
)
