package service

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"testing"

	chdomain "github.com/rdl-tech/coupon-radar/internal/modules/channel/domain"
	cpdomain "github.com/rdl-tech/coupon-radar/internal/modules/coupon/domain"
	setdomain "github.com/rdl-tech/coupon-radar/internal/modules/settings/domain"
	"github.com/rdl-tech/coupon-radar/internal/shared/errors"
)

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memChannelRepo struct {
	mu       sync.Mutex
	channels map[string]*chdomain.Channel
}

func newMemChannelRepo(channels ...*chdomain.Channel) *memChannelRepo {
	r := &memChannelRepo{channels: map[string]*chdomain.Channel{}}
	for _, ch := range channels {
		r.channels[ch.ID] = ch
	}
	return r
}

func (r *memChannelRepo) SaveChannel(ch *chdomain.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels[ch.ID] = ch
	return nil
}

func (r *memChannelRepo) GetChannel(id string) (*chdomain.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.channels[id]
	if !ok {
		return nil, errors.ErrChannelNotFound
	}
	return ch, nil
}

func (r *memChannelRepo) GetAllChannels() ([]*chdomain.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*chdomain.Channel, 0, len(r.channels))
	for _, ch := range r.channels {
		out = append(out, ch)
	}
	return out, nil
}

func (r *memChannelRepo) GetActiveChannels() ([]*chdomain.Channel, error) {
	all, _ := r.GetAllChannels()
	active := all[:0]
	for _, ch := range all {
		if ch.IsActive {
			active = append(active, ch)
		}
	}
	return active, nil
}

func (r *memChannelRepo) DeleteChannel(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.channels, id)
	return nil
}

// memCouponRepo enforces fingerprint uniqueness the way the real store
// does with its unique index.
type memCouponRepo struct {
	mu      sync.Mutex
	coupons map[string]*cpdomain.Coupon
	creates int
}

func newMemCouponRepo() *memCouponRepo {
	return &memCouponRepo{coupons: map[string]*cpdomain.Coupon{}}
}

func (r *memCouponRepo) FindByFingerprint(_ context.Context, fp string) (*cpdomain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.coupons[fp], nil
}

func (r *memCouponRepo) Create(_ context.Context, c *cpdomain.Coupon) (*cpdomain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.coupons[c.Fingerprint]; ok {
		return existing, nil
	}
	if c.ID == "" {
		c.ID = "c" + strconv.Itoa(len(r.coupons)+1)
	}
	r.coupons[c.Fingerprint] = c
	r.creates++
	return c, nil
}

func (r *memCouponRepo) stored() []*cpdomain.Coupon {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*cpdomain.Coupon, 0, len(r.coupons))
	for _, c := range r.coupons {
		out = append(out, c)
	}
	return out
}

type memSettingsRepo struct {
	mu       sync.Mutex
	settings setdomain.CollectorSettings
}

func (r *memSettingsRepo) Get() (*setdomain.CollectorSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.settings
	return &s, nil
}

func (r *memSettingsRepo) Save(s *setdomain.CollectorSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = *s
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	notified []*cpdomain.Coupon
	err      error
}

func (n *fakeNotifier) NotifyNewCoupon(_ context.Context, c *cpdomain.Coupon) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notified = append(n.notified, c)
	return n.err
}
