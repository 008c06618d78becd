package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	codomain "github.com/rdl-tech/coupon-radar/internal/modules/collector/domain"
	"github.com/rdl-tech/coupon-radar/internal/modules/collector/telegram"
	setdomain "github.com/rdl-tech/coupon-radar/internal/modules/settings/domain"
	setrepo "github.com/rdl-tech/coupon-radar/internal/modules/settings/repository"
	apperrors "github.com/rdl-tech/coupon-radar/internal/shared/errors"
	"github.com/samber/oops"
)

const (
	reconnectAttempts = 5
	reconnectDelay    = 5 * time.Second
	// Migration retries are not counted against the reconnect budget
	// but are capped on their own to rule out redirect loops.
	migrationAttempts = 3
	// After this many consecutive low-level connect failures the
	// session blob is judged corrupt and discarded.
	sessionResetThreshold = 10

	authCacheTTL      = 10 * time.Second
	keepaliveInterval = 60 * time.Second
	keepaliveFailures = 3
	keepaliveTimeout  = 15 * time.Second
)

// SessionStore is the part of the session storage the manager needs
// for resets.
type SessionStore interface {
	Reset() error
}

// ConnectionManager owns the shared Telegram session: connecting,
// reconnecting, migration handling and the authorization cache. All
// other components go through it rather than touching the transport's
// lifecycle themselves.
type ConnectionManager struct {
	client   telegram.Client
	session  SessionStore
	settings setrepo.Repository
	phone    string
	logger   *slog.Logger

	mu           sync.Mutex
	state        codomain.ConnState
	connectFails int

	// authMu doubles as the single-flight guard: concurrent callers
	// line up behind the in-flight check and then hit the fresh cache.
	authMu      sync.Mutex
	authCached  bool
	authChecked time.Time

	now       func() time.Time
	sleep     func(context.Context, time.Duration) error
	keepalive time.Duration
}

func NewConnectionManager(client telegram.Client, session SessionStore, settings setrepo.Repository, phone string, logger *slog.Logger) *ConnectionManager {
	return &ConnectionManager{
		client:    client,
		session:   session,
		settings:  settings,
		phone:     phone,
		logger:    logger,
		state:     codomain.ConnStateDisconnected,
		now:       time.Now,
		sleep:     sleepCtx,
		keepalive: keepaliveInterval,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the connection state for status reporting.
func (m *ConnectionManager) State() codomain.ConnState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Connect establishes the session, retrying transient failures with a
// fixed delay. The mutex collapses concurrent callers into one
// attempt: late arrivals block until the in-flight connect resolves
// and then observe its outcome.
func (m *ConnectionManager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == codomain.ConnStateConnected {
		return nil
	}
	m.state = codomain.ConnStateConnecting

	var lastErr error
	attempts := 0
	migrations := 0

	for {
		err := m.client.Connect(ctx)
		if err == nil {
			m.state = codomain.ConnStateConnected
			m.connectFails = 0
			return nil
		}
		lastErr = err
		_ = m.client.Disconnect()

		if ctx.Err() != nil {
			break
		}

		if mig, ok := apperrors.IsMigration(err); ok {
			migrations++
			if migrations > migrationAttempts {
				m.logger.Error("migration loop, giving up", "dc", mig.DC)
				break
			}
			// A fresh connect renegotiates routing toward the new
			// region, so retry immediately.
			m.state = codomain.ConnStateMigrating
			m.logger.Info("datacenter migration requested", "dc", mig.DC)
			continue
		}

		attempts++
		m.state = codomain.ConnStateConnecting

		if rl, ok := apperrors.IsRateLimited(err); ok {
			// Throttling is not a low-level failure; honor the hint
			// instead of counting toward a session reset.
			m.logger.Warn("rate limited while connecting", "wait", rl.Wait)
			if attempts >= reconnectAttempts || m.sleep(ctx, rl.Wait) != nil {
				break
			}
			continue
		}

		m.connectFails++
		if m.connectFails >= sessionResetThreshold {
			m.logger.Warn("too many consecutive connection failures, resetting session")
			if resetErr := m.session.Reset(); resetErr != nil {
				m.logger.Error("session reset failed", "error", resetErr)
			}
			m.connectFails = 0
		}

		m.logger.Warn("connect attempt failed", "attempt", attempts, "error", err)
		if attempts >= reconnectAttempts || m.sleep(ctx, reconnectDelay) != nil {
			break
		}
	}

	m.state = codomain.ConnStateDisconnected
	return oops.With("context", "failed to establish telegram session").Wrap(lastErr)
}

// Disconnect tears the session down. It is idempotent.
func (m *ConnectionManager) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.client.Disconnect()
	m.state = codomain.ConnStateDisconnected
	return err
}

// IsAuthenticated reports whether the account is signed in, cached
// for a short TTL. A transient failure keeps the last known answer
// instead of flipping the pipeline to unauthenticated on one blip.
func (m *ConnectionManager) IsAuthenticated(ctx context.Context) bool {
	m.authMu.Lock()
	defer m.authMu.Unlock()

	if !m.authChecked.IsZero() && m.now().Sub(m.authChecked) < authCacheTTL {
		return m.authCached
	}

	ok, err := m.client.IsAuthorized(ctx)
	if err != nil {
		m.logger.Warn("authorization check failed", "error", err)
		if m.authChecked.IsZero() {
			// Never checked successfully: fall back to the persisted
			// flag from the last run.
			if s, err := m.settings.Get(); err == nil {
				return s.IsAuthenticated
			}
			return false
		}
		return m.authCached
	}

	m.authCached = ok
	m.authChecked = m.now()
	m.persistAuthFlag(ok)
	return ok
}

// SendCode starts the interactive login and records the code hash
// needed to finish it.
func (m *ConnectionManager) SendCode(ctx context.Context) error {
	if m.phone == "" {
		return apperrors.ErrMissingCredentials
	}

	hash, err := m.client.SendCode(ctx, m.phone)
	if err != nil {
		return err
	}

	settings, err := m.settings.Get()
	if err != nil {
		settings = &setdomain.CollectorSettings{}
	}
	now := m.now()
	settings.PhoneCodeHash = hash
	settings.LastCodeSentAt = &now
	return m.settings.Save(settings)
}

// VerifyCode finishes the interactive login. password is only needed
// for accounts with two-step verification.
func (m *ConnectionManager) VerifyCode(ctx context.Context, code, password string) error {
	settings, err := m.settings.Get()
	if err != nil {
		return err
	}
	if settings.PhoneCodeHash == "" {
		return apperrors.ErrCodeExpired
	}

	if err := m.client.SignIn(ctx, m.phone, settings.PhoneCodeHash, code, password); err != nil {
		return err
	}

	settings.PhoneCodeHash = ""
	settings.IsAuthenticated = true
	settings.LastError = ""
	if err := m.settings.Save(settings); err != nil {
		return err
	}

	m.authMu.Lock()
	m.authCached = true
	m.authChecked = m.now()
	m.authMu.Unlock()
	return nil
}

// StartKeepalive launches the background liveness probe. After
// keepaliveFailures consecutive failed probes onFatal is invoked once
// and the loop exits; single failures trigger a reconnect instead.
// The returned func stops the loop.
func (m *ConnectionManager) StartKeepalive(onFatal func(error)) func() {
	ctx, cancel := context.WithCancel(context.Background())
	go m.keepaliveLoop(ctx, onFatal)
	return cancel
}

func (m *ConnectionManager) keepaliveLoop(ctx context.Context, onFatal func(error)) {
	ticker := time.NewTicker(m.keepalive)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		pctx, cancel := context.WithTimeout(ctx, keepaliveTimeout)
		err := m.client.Ping(pctx)
		cancel()

		if err == nil {
			failures = 0
			continue
		}

		failures++
		m.logger.Warn("keepalive probe failed", "failures", failures, "error", err)

		if failures >= keepaliveFailures {
			onFatal(oops.With("context", "keepalive exhausted").Wrap(err))
			return
		}

		_ = m.Disconnect()
		if err := m.Connect(ctx); err != nil {
			m.logger.Warn("keepalive reconnect failed", "error", err)
		}
	}
}

func (m *ConnectionManager) persistAuthFlag(ok bool) {
	settings, err := m.settings.Get()
	if err != nil {
		return
	}
	if settings.IsAuthenticated == ok {
		return
	}
	settings.IsAuthenticated = ok
	if err := m.settings.Save(settings); err != nil {
		m.logger.Warn("failed to persist auth flag", "error", err)
	}
}
