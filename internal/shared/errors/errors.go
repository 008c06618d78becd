package errors

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrMissingCredentials = errors.New("TELEGRAM_API_ID, TELEGRAM_API_HASH and TELEGRAM_PHONE must be configured")
	ErrMissingDatabaseDSN = errors.New("DATABASE_DSN environment variable is required")
	ErrAuthRequired       = errors.New("telegram session is not authenticated")
	ErrNetworkTransient   = errors.New("transient network error")
	ErrChannelNotFound    = errors.New("channel not found")
	ErrCodeExpired        = errors.New("verification code expired, request a new one")
	ErrPasswordNeeded     = errors.New("2FA password required")
	ErrAlreadyRunning     = errors.New("collector is already running")
	ErrNotRunning         = errors.New("collector is not running")
	ErrNoActiveChannels   = errors.New("no active channels configured")
	ErrPhoneBanned        = errors.New("phone number is banned by the provider")
)

// RateLimitedError signals provider throttling together with the wait the
// provider asked for. The pipeline pauses instead of busy-retrying.
type RateLimitedError struct {
	Wait time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.Wait)
}

// MigrationError signals that the provider redirected the session to another
// data center. It is handled transparently by the connection manager.
type MigrationError struct {
	DC int
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("session migrated to data center %d", e.DC)
}

// IsRateLimited reports whether err carries a rate-limit wait hint.
func IsRateLimited(err error) (*RateLimitedError, bool) {
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return rl, true
	}
	return nil, false
}

// IsMigration reports whether err is a data-center migration signal.
func IsMigration(err error) (*MigrationError, bool) {
	var m *MigrationError
	if errors.As(err, &m) {
		return m, true
	}
	return nil, false
}
