package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	chdomain "github.com/rdl-tech/coupon-radar/internal/modules/channel/domain"
	chrepo "github.com/rdl-tech/coupon-radar/internal/modules/channel/repository"
	codomain "github.com/rdl-tech/coupon-radar/internal/modules/collector/domain"
	"github.com/rdl-tech/coupon-radar/internal/modules/collector/extractor"
	"github.com/rdl-tech/coupon-radar/internal/modules/collector/telegram"
	cpdomain "github.com/rdl-tech/coupon-radar/internal/modules/coupon/domain"
	cprepo "github.com/rdl-tech/coupon-radar/internal/modules/coupon/repository"
	apperrors "github.com/rdl-tech/coupon-radar/internal/shared/errors"
)

// processTimeout bounds the persistence work for one message so a slow
// store cannot wedge the update loop.
const processTimeout = 30 * time.Second

// Notifier announces freshly persisted coupons.
type Notifier interface {
	NotifyNewCoupon(ctx context.Context, coupon *cpdomain.Coupon) error
}

// Service is the ingestion pipeline: it owns the subscription, the
// polling fallback and the processing path from raw message to
// persisted coupon.
type Service struct {
	conn      *ConnectionManager
	client    telegram.Client
	channels  chrepo.Repository
	resolver  *ChannelResolver
	schedule  *ScheduleFilter
	extractor *extractor.Extractor
	coupons   cprepo.Repository
	notifier  Notifier
	logger    *slog.Logger

	pollEvery time.Duration

	mu            sync.Mutex
	running       bool
	unsubscribe   func()
	stopKeepalive func()
	cancelPoll    context.CancelFunc
	wg            sync.WaitGroup

	// regMu guards the channel registry separately from the lifecycle
	// lock so Stop can wait out the poller without deadlocking.
	regMu    sync.RWMutex
	registry []*chdomain.Channel

	pauseMu sync.Mutex
	paused  time.Time

	eventsReceived    atomic.Int64
	messagesReceived  atomic.Int64
	couponsSaved      atomic.Int64
	duplicatesSkipped atomic.Int64

	errMu   sync.Mutex
	lastErr string
}

// New wires the pipeline. notifier may be nil to disable announcements.
func New(
	conn *ConnectionManager,
	client telegram.Client,
	channels chrepo.Repository,
	coupons cprepo.Repository,
	ext *extractor.Extractor,
	notifier Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		conn:      conn,
		client:    client,
		channels:  channels,
		resolver:  NewChannelResolver(client, channels, logger),
		schedule:  NewScheduleFilter(),
		extractor: ext,
		coupons:   coupons,
		notifier:  notifier,
		logger:    logger,
		pollEvery: pollInterval,
	}
}

// Start connects, resolves the monitored channels and launches the
// event subscription, the polling fallback and the keepalive probe.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return apperrors.ErrAlreadyRunning
	}

	if err := s.conn.Connect(ctx); err != nil {
		s.recordError(err)
		return err
	}
	if !s.conn.IsAuthenticated(ctx) {
		_ = s.conn.Disconnect()
		return apperrors.ErrAuthRequired
	}

	active, err := s.channels.GetActiveChannels()
	if err != nil {
		_ = s.conn.Disconnect()
		return err
	}
	if len(active) == 0 {
		_ = s.conn.Disconnect()
		return apperrors.ErrNoActiveChannels
	}

	resolved := s.resolver.Resolve(ctx, active)
	s.regMu.Lock()
	s.registry = resolved
	s.regMu.Unlock()

	s.unsubscribe = s.client.Subscribe(s.handleEnvelope)

	pollCtx, cancel := context.WithCancel(context.Background())
	s.cancelPoll = cancel
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.pollLoop(pollCtx)
	}()

	s.stopKeepalive = s.conn.StartKeepalive(s.onFatal)
	s.running = true
	s.logger.Info("collector started", "channels", len(resolved))
	return nil
}

// Stop tears the pipeline down: keepalive first, then the poller, the
// subscription and finally the session. Each step runs even if the one
// before it misbehaved.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return apperrors.ErrNotRunning
	}

	if s.stopKeepalive != nil {
		s.stopKeepalive()
	}
	if s.cancelPoll != nil {
		s.cancelPoll()
	}
	s.wg.Wait()
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	if err := s.conn.Disconnect(); err != nil {
		s.logger.Warn("disconnect failed during stop", "error", err)
	}

	s.running = false
	s.logger.Info("collector stopped")
	return nil
}

// Status reports the pipeline's counters and connection state.
func (s *Service) Status() codomain.Status {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	s.regMu.RLock()
	monitored := len(s.registry)
	s.regMu.RUnlock()

	return codomain.Status{
		Running:           running,
		ConnState:         s.conn.State(),
		ChannelsMonitored: monitored,
		EventsReceived:    s.eventsReceived.Load(),
		MessagesReceived:  s.messagesReceived.Load(),
		CouponsSaved:      s.couponsSaved.Load(),
		DuplicatesSkipped: s.duplicatesSkipped.Load(),
		LastError:         s.lastError(),
	}
}

// SendCode starts the interactive login, connecting first if needed.
func (s *Service) SendCode(ctx context.Context) error {
	if err := s.conn.Connect(ctx); err != nil {
		return err
	}
	return s.conn.SendCode(ctx)
}

// VerifyCode finishes the interactive login.
func (s *Service) VerifyCode(ctx context.Context, code, password string) error {
	if err := s.conn.Connect(ctx); err != nil {
		return err
	}
	return s.conn.VerifyCode(ctx, code, password)
}

// process runs one message through schedule gate, extraction, dedup
// and persistence. It is safe to call concurrently from the push and
// poll paths; the store's fingerprint index is the dedup authority.
func (s *Service) process(ctx context.Context, ch *chdomain.Channel, msg *codomain.Message) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("message processing panicked",
				"channel", msg.ChannelOrigin, "message_id", msg.MessageID, "panic", r)
		}
	}()

	if !s.schedule.InScope(ch, msg, s.watermark(ch)) {
		return
	}
	s.messagesReceived.Add(1)

	for _, cand := range s.extractor.Extract(ctx, msg.Text, msg.MessageID, msg.ChannelOrigin) {
		s.persist(ctx, ch, cand)
	}

	s.advanceWatermark(ch, msg)
}

func (s *Service) persist(ctx context.Context, ch *chdomain.Channel, cand *cpdomain.Coupon) {
	if !platformAllowed(ch.PlatformFilter, cand.Platform) {
		return
	}

	existing, err := s.coupons.FindByFingerprint(ctx, cand.Fingerprint)
	if err != nil {
		s.recordError(err)
		s.logger.Error("dedup lookup failed", "code", cand.Code, "error", err)
		return
	}
	if existing != nil {
		s.duplicatesSkipped.Add(1)
		return
	}

	// Channel captures go straight to the catalog.
	cand.PendingApproval = false

	saved, err := s.coupons.Create(ctx, cand)
	if err != nil {
		s.recordError(err)
		s.logger.Error("failed to persist coupon", "code", cand.Code, "error", err)
		return
	}
	if saved != cand {
		// A concurrent delivery of the same message won the insert.
		s.duplicatesSkipped.Add(1)
		return
	}

	s.couponsSaved.Add(1)
	s.logger.Info("coupon captured",
		"code", saved.Code, "platform", saved.Platform, "channel", ch.Origin())

	if s.notifier == nil || saved.PendingApproval {
		return
	}
	if err := s.notifier.NotifyNewCoupon(ctx, saved); err != nil {
		// Announcements are best effort and never unwind the save.
		s.logger.Warn("notification failed", "code", saved.Code, "error", err)
	}
}

func platformAllowed(filter string, platform cpdomain.Platform) bool {
	return filter == "" || filter == "all" || filter == string(platform)
}

// advanceWatermark records that everything up to this message id has
// been classified for the channel, so restarts do not re-evaluate it.
func (s *Service) advanceWatermark(ch *chdomain.Channel, msg *codomain.Message) {
	s.regMu.Lock()
	if msg.MessageID <= ch.LastMessageID {
		s.regMu.Unlock()
		return
	}
	ch.LastMessageID = msg.MessageID
	ch.LastSyncAt = time.Now()
	// Persist a snapshot so marshaling never races a later advance.
	snapshot := *ch
	s.regMu.Unlock()

	if err := s.channels.SaveChannel(&snapshot); err != nil {
		s.logger.Warn("failed to persist watermark", "channel", ch.ID, "error", err)
	}
}

// watermark snapshots the channel's last classified message id. All
// hot-path reads go through here; advanceWatermark writes under the
// same lock.
func (s *Service) watermark(ch *chdomain.Channel) int64 {
	s.regMu.RLock()
	defer s.regMu.RUnlock()
	return ch.LastMessageID
}

func (s *Service) matchChannel(id int64) *chdomain.Channel {
	s.regMu.RLock()
	defer s.regMu.RUnlock()

	for _, ch := range s.registry {
		if chdomain.SameChannel(ch.ChannelID, id) {
			return ch
		}
	}
	return nil
}

func (s *Service) monitored() []*chdomain.Channel {
	s.regMu.RLock()
	defer s.regMu.RUnlock()
	return append([]*chdomain.Channel(nil), s.registry...)
}

func (s *Service) pauseUntil(t time.Time) {
	s.pauseMu.Lock()
	s.paused = t
	s.pauseMu.Unlock()
}

func (s *Service) pausedUntil() time.Time {
	s.pauseMu.Lock()
	defer s.pauseMu.Unlock()
	return s.paused
}

func (s *Service) onFatal(err error) {
	s.recordError(err)
	s.logger.Error("keepalive gave up, stopping collector", "error", err)
	if stopErr := s.Stop(); stopErr != nil {
		s.logger.Warn("stop after fatal failure", "error", stopErr)
	}
}

func (s *Service) recordError(err error) {
	s.errMu.Lock()
	s.lastErr = err.Error()
	s.errMu.Unlock()
}

func (s *Service) lastError() string {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.lastErr
}
