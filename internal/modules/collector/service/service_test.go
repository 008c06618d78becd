package service

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	chdomain "github.com/rdl-tech/coupon-radar/internal/modules/channel/domain"
	"github.com/rdl-tech/coupon-radar/internal/modules/collector/extractor"
	"github.com/rdl-tech/coupon-radar/internal/modules/collector/telegram"
	cpdomain "github.com/rdl-tech/coupon-radar/internal/modules/coupon/domain"
	apperrors "github.com/rdl-tech/coupon-radar/internal/shared/errors"
)

const couponText = "Cupom: TESTE20 com 20% OFF na shopee acima de R$50"

func activeChannel() *chdomain.Channel {
	return &chdomain.Channel{
		ID:          "ch1",
		Handle:      "@promodeals",
		IsActive:    true,
		CaptureMode: chdomain.CaptureModeUnrestricted,
	}
}

func newTestService(t *testing.T, client *fakeClient, channels ...*chdomain.Channel) (*Service, *memCouponRepo, *fakeNotifier) {
	t.Helper()

	logger := testLogger(t)
	coupons := newMemCouponRepo()
	notifier := &fakeNotifier{}

	conn := NewConnectionManager(client, &fakeSession{}, &memSettingsRepo{}, "+5511999999999", logger)
	conn.sleep = func(context.Context, time.Duration) error { return nil }

	svc := New(conn, client, newMemChannelRepo(channels...), coupons, extractor.New(nil, logger), notifier, logger)
	svc.pollEvery = time.Hour
	return svc, coupons, notifier
}

func readyClient() *fakeClient {
	client := newFakeClient()
	client.authorized = true
	client.entities["promodeals"] = &telegram.Entity{ID: 1234567890, Broadcast: true, Title: "Promo Deals"}
	return client
}

func mustStart(t *testing.T, svc *Service) {
	t.Helper()
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { _ = svc.Stop() })
}

func TestStartRequiresAuthentication(t *testing.T) {
	t.Parallel()

	client := readyClient()
	client.authorized = false
	svc, _, _ := newTestService(t, client, activeChannel())

	if err := svc.Start(context.Background()); !stderrors.Is(err, apperrors.ErrAuthRequired) {
		t.Fatalf("err = %v, want ErrAuthRequired", err)
	}
	if svc.Status().Running {
		t.Error("pipeline must not be running after a failed start")
	}
}

func TestStartWithoutChannels(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t, readyClient())
	if err := svc.Start(context.Background()); !stderrors.Is(err, apperrors.ErrNoActiveChannels) {
		t.Fatalf("err = %v, want ErrNoActiveChannels", err)
	}
}

func TestPushDeliveryPersistsCoupon(t *testing.T) {
	t.Parallel()

	client := readyClient()
	svc, coupons, notifier := newTestService(t, client, activeChannel())
	mustStart(t, svc)

	client.push(telegram.Envelope{
		PeerChannelID: 1234567890,
		Broadcast:     true,
		MessageID:     10,
		Date:          time.Now(),
		Message:       couponText,
	})

	stored := coupons.stored()
	if len(stored) != 1 {
		t.Fatalf("stored %d coupons, want 1", len(stored))
	}
	c := stored[0]
	if c.Code != "TESTE20" || c.Platform != cpdomain.PlatformShopee {
		t.Errorf("coupon = %s on %s", c.Code, c.Platform)
	}
	if c.PendingApproval {
		t.Error("live captures are published immediately")
	}
	if c.ChannelOrigin != "promodeals" {
		t.Errorf("origin = %q", c.ChannelOrigin)
	}

	if len(notifier.notified) != 1 {
		t.Errorf("notified %d times, want 1", len(notifier.notified))
	}

	st := svc.Status()
	if st.EventsReceived != 1 || st.MessagesReceived != 1 || st.CouponsSaved != 1 {
		t.Errorf("status counters = %+v", st)
	}
}

func TestDoubleDeliveryPersistsOnce(t *testing.T) {
	t.Parallel()

	client := readyClient()
	svc, coupons, _ := newTestService(t, client, activeChannel())
	mustStart(t, svc)

	env := telegram.Envelope{
		PeerChannelID: 1234567890,
		Broadcast:     true,
		MessageID:     10,
		Date:          time.Now(),
		Message:       couponText,
	}
	client.push(env)
	client.push(env)

	if got := len(coupons.stored()); got != 1 {
		t.Fatalf("stored %d coupons, want 1", got)
	}
	if st := svc.Status(); st.DuplicatesSkipped != 1 {
		t.Errorf("duplicates skipped = %d, want 1", st.DuplicatesSkipped)
	}
}

func TestPollingFallbackDelivers(t *testing.T) {
	t.Parallel()

	client := readyClient()
	svc, coupons, _ := newTestService(t, client, activeChannel())
	mustStart(t, svc)

	client.mu.Lock()
	client.history[-1001234567890] = []telegram.Envelope{
		{MessageID: 11, Date: time.Now(), Message: couponText},
	}
	client.mu.Unlock()

	svc.pollOnce(context.Background())

	if got := len(coupons.stored()); got != 1 {
		t.Fatalf("stored %d coupons, want 1", got)
	}
}

func TestPollingRespectsWatermark(t *testing.T) {
	t.Parallel()

	ch := activeChannel()
	ch.LastMessageID = 20
	client := readyClient()
	svc, coupons, _ := newTestService(t, client, ch)
	mustStart(t, svc)

	client.mu.Lock()
	client.history[-1001234567890] = []telegram.Envelope{
		{MessageID: 15, Date: time.Now(), Message: couponText},
	}
	client.mu.Unlock()

	svc.pollOnce(context.Background())

	if got := len(coupons.stored()); got != 0 {
		t.Fatalf("stored %d coupons, want 0", got)
	}
}

func TestUnmonitoredChannelDroppedSilently(t *testing.T) {
	t.Parallel()

	client := readyClient()
	svc, coupons, _ := newTestService(t, client, activeChannel())
	mustStart(t, svc)

	client.push(telegram.Envelope{
		PeerChannelID: 999999999,
		Broadcast:     true,
		MessageID:     5,
		Date:          time.Now(),
		Message:       couponText,
	})

	if got := len(coupons.stored()); got != 0 {
		t.Fatalf("stored %d coupons, want 0", got)
	}
	if st := svc.Status(); st.EventsReceived != 1 || st.MessagesReceived != 0 {
		t.Errorf("counters = %+v", st)
	}
}

func TestPlatformFilterSkipsOtherStores(t *testing.T) {
	t.Parallel()

	ch := activeChannel()
	ch.PlatformFilter = "amazon"
	client := readyClient()
	svc, coupons, _ := newTestService(t, client, ch)
	mustStart(t, svc)

	client.push(telegram.Envelope{
		PeerChannelID: 1234567890,
		Broadcast:     true,
		MessageID:     10,
		Date:          time.Now(),
		Message:       couponText, // shopee
	})

	if got := len(coupons.stored()); got != 0 {
		t.Fatalf("stored %d coupons, want 0", got)
	}
}

func TestWatermarkAdvancesAfterProcessing(t *testing.T) {
	t.Parallel()

	ch := activeChannel()
	client := readyClient()
	svc, _, _ := newTestService(t, client, ch)
	mustStart(t, svc)

	client.push(telegram.Envelope{
		PeerChannelID: 1234567890,
		Broadcast:     true,
		MessageID:     42,
		Date:          time.Now(),
		Message:       "mensagem longa sem cupom nenhum hoje",
	})

	if wm := svc.watermark(ch); wm != 42 {
		t.Errorf("watermark = %d, want 42 even without an extracted coupon", wm)
	}
	if ch.LastSyncAt.IsZero() {
		t.Error("last sync timestamp should be set")
	}
}

func TestConcurrentPushAndPollShareWatermark(t *testing.T) {
	t.Parallel()

	ch := activeChannel()
	ch.CaptureMode = chdomain.CaptureModeNewOnly
	client := readyClient()
	svc, _, _ := newTestService(t, client, ch)
	mustStart(t, svc)

	client.mu.Lock()
	client.history[-1001234567890] = []telegram.Envelope{
		{MessageID: 3, Date: time.Now(), Message: "mensagem longa sem cupom nenhum hoje"},
		{MessageID: 4, Date: time.Now(), Message: "mensagem longa sem cupom nenhum hoje"},
	}
	client.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := int64(1); i <= 50; i++ {
			client.push(telegram.Envelope{
				PeerChannelID: 1234567890,
				Broadcast:     true,
				MessageID:     i,
				Date:          time.Now(),
				Message:       "mensagem longa sem cupom nenhum hoje",
			})
		}
	}()
	for i := 0; i < 50; i++ {
		svc.pollOnce(context.Background())
	}
	<-done

	if wm := svc.watermark(ch); wm != 50 {
		t.Errorf("watermark = %d, want 50", wm)
	}
}

func TestStopIsOrderedAndIdempotent(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t, readyClient(), activeChannel())
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !svc.Status().Running {
		t.Fatal("expected running after start")
	}

	if err := svc.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if svc.Status().Running {
		t.Error("expected stopped")
	}
	if err := svc.Stop(); !stderrors.Is(err, apperrors.ErrNotRunning) {
		t.Errorf("second stop = %v, want ErrNotRunning", err)
	}

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	_ = svc.Stop()
}

func TestKeepaliveFailuresStopPipeline(t *testing.T) {
	t.Parallel()

	client := readyClient()
	probe := stderrors.New("probe failed")
	client.mu.Lock()
	client.pingErrs = []error{probe, probe, probe}
	client.mu.Unlock()

	svc, _, _ := newTestService(t, client, activeChannel())
	svc.conn.keepalive = 5 * time.Millisecond
	mustStart(t, svc)

	deadline := time.After(2 * time.Second)
	for svc.Status().Running {
		select {
		case <-deadline:
			t.Fatal("pipeline still running after keepalive exhaustion")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if st := svc.Status(); st.LastError == "" {
		t.Error("fatal stop should leave a last error")
	}
}

func TestResolverIsolatesFailures(t *testing.T) {
	t.Parallel()

	client := readyClient()
	client.resolveErr["badhandle"] = apperrors.ErrChannelNotFound

	logger := testLogger(t)
	repo := newMemChannelRepo()
	r := NewChannelResolver(client, repo, logger)

	good := &chdomain.Channel{ID: "g", Handle: "@promodeals", IsActive: true}
	bad := &chdomain.Channel{ID: "b", Handle: "@badhandle", IsActive: true}

	resolved := r.Resolve(context.Background(), []*chdomain.Channel{bad, good})
	if len(resolved) != 1 || resolved[0].ID != "g" {
		t.Fatalf("resolved = %+v", resolved)
	}
	if resolved[0].ChannelID != -1001234567890 {
		t.Errorf("normalized id = %d, want -1001234567890", resolved[0].ChannelID)
	}
	if resolved[0].Name != "Promo Deals" {
		t.Errorf("name = %q", resolved[0].Name)
	}
}

func TestResolverPlainNegativeForNonBroadcast(t *testing.T) {
	t.Parallel()

	client := readyClient()
	client.entities["privategroup"] = &telegram.Entity{ID: 555444333, Broadcast: false}

	r := NewChannelResolver(client, newMemChannelRepo(), testLogger(t))
	ch := &chdomain.Channel{ID: "p", Handle: "@privategroup", IsActive: true}

	resolved := r.Resolve(context.Background(), []*chdomain.Channel{ch})
	if len(resolved) != 1 || resolved[0].ChannelID != -555444333 {
		t.Fatalf("resolved id = %v, want -555444333", resolved)
	}
}
