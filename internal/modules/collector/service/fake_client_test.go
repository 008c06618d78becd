package service

import (
	"context"
	"sync"

	"github.com/rdl-tech/coupon-radar/internal/modules/collector/telegram"
	"github.com/rdl-tech/coupon-radar/internal/shared/errors"
)

// fakeClient scripts the MTProto surface for tests. Error slices are
// consumed one call at a time; once exhausted, calls succeed.
type fakeClient struct {
	mu sync.Mutex

	connected    bool
	connectErrs  []error
	connectCalls int

	authorized bool
	authErr    error

	entities   map[string]*telegram.Entity
	resolveErr map[string]error

	history    map[int64][]telegram.Envelope
	historyErr error

	pingErrs  []error
	pingCalls int

	sentCodeHash string
	signInErr    error

	handlers []func(telegram.Envelope)
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		entities:   map[string]*telegram.Entity{},
		resolveErr: map[string]error{},
		history:    map[int64][]telegram.Envelope{},
	}
}

func (f *fakeClient) Connect(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.connectCalls++
	if len(f.connectErrs) > 0 {
		err := f.connectErrs[0]
		f.connectErrs = f.connectErrs[1:]
		if err != nil {
			return err
		}
	}
	f.connected = true
	return nil
}

func (f *fakeClient) Disconnect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	return nil
}

func (f *fakeClient) IsAuthorized(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authorized, f.authErr
}

func (f *fakeClient) SendCode(context.Context, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sentCodeHash, nil
}

func (f *fakeClient) SignIn(context.Context, string, string, string, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signInErr == nil {
		f.authorized = true
	}
	return f.signInErr
}

func (f *fakeClient) ResolveHandle(_ context.Context, handle string) (*telegram.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.resolveErr[handle]; err != nil {
		return nil, err
	}
	if e, ok := f.entities[handle]; ok {
		return e, nil
	}
	return nil, errors.ErrChannelNotFound
}

func (f *fakeClient) RecentMessages(_ context.Context, channelID int64, limit int) ([]telegram.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	envs := f.history[channelID]
	if len(envs) > limit {
		envs = envs[len(envs)-limit:]
	}
	return envs, nil
}

func (f *fakeClient) Subscribe(handler func(telegram.Envelope)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := len(f.handlers)
	f.handlers = append(f.handlers, handler)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.handlers[idx] = nil
	}
}

func (f *fakeClient) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingCalls++
	if len(f.pingErrs) > 0 {
		err := f.pingErrs[0]
		f.pingErrs = f.pingErrs[1:]
		return err
	}
	return nil
}

// push delivers an envelope to every live subscriber, as the real
// update loop would.
func (f *fakeClient) push(env telegram.Envelope) {
	f.mu.Lock()
	handlers := make([]func(telegram.Envelope), 0, len(f.handlers))
	for _, h := range f.handlers {
		if h != nil {
			handlers = append(handlers, h)
		}
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h(env)
	}
}
