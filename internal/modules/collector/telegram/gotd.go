package telegram

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/samber/oops"

	chdomain "github.com/rdl-tech/coupon-radar/internal/modules/channel/domain"
	apperrors "github.com/rdl-tech/coupon-radar/internal/shared/errors"
)

// GotdClient implements Client on top of gotd's MTProto stack.
type GotdClient struct {
	apiID   int
	apiHash string
	sess    *FileSession
	logger  *slog.Logger

	mu     sync.Mutex
	client *telegram.Client
	api    *tg.Client
	cancel context.CancelFunc
	done   chan struct{}

	handlersMu  sync.RWMutex
	handlers    map[int]func(Envelope)
	nextHandler int

	hashesMu     sync.Mutex
	accessHashes map[int64]int64
}

// NewGotdClient creates the production MTProto client
func NewGotdClient(apiID int, apiHash string, sess *FileSession, logger *slog.Logger) *GotdClient {
	return &GotdClient{
		apiID:        apiID,
		apiHash:      apiHash,
		sess:         sess,
		logger:       logger,
		handlers:     map[int]func(Envelope){},
		accessHashes: map[int64]int64{},
	}
}

// Connect spins up a fresh gotd client and blocks until the transport
// is ready. Calling Connect while connected is a no-op, so recovery
// paths can tear down and reconnect without tracking extra state.
func (c *GotdClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return nil
	}

	client := telegram.NewClient(c.apiID, c.apiHash, telegram.Options{
		SessionStorage: c.sess,
		UpdateHandler:  telegram.UpdateHandlerFunc(c.handleUpdates),
	})

	runCtx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	done := make(chan struct{})
	var runErr error

	go func() {
		defer close(done)
		runErr = client.Run(runCtx, func(ctx context.Context) error {
			close(ready)
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	select {
	case <-ready:
		c.client = client
		c.api = client.API()
		c.cancel = cancel
		c.done = done
		c.logger.Debug("telegram transport ready")
		return nil
	case <-done:
		cancel()
		return c.mapError(runErr)
	case <-ctx.Done():
		cancel()
		<-done
		return ctx.Err()
	}
}

func (c *GotdClient) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}

	c.cancel()
	<-c.done
	c.client = nil
	c.api = nil
	c.cancel = nil
	c.done = nil
	return nil
}

func (c *GotdClient) IsAuthorized(ctx context.Context) (bool, error) {
	client, _, err := c.current()
	if err != nil {
		return false, err
	}

	status, err := client.Auth().Status(ctx)
	if err != nil {
		return false, c.mapError(err)
	}

	return status.Authorized, nil
}

func (c *GotdClient) SendCode(ctx context.Context, phone string) (string, error) {
	client, _, err := c.current()
	if err != nil {
		return "", err
	}

	sent, err := client.Auth().SendCode(ctx, phone, auth.SendCodeOptions{})
	if err != nil {
		return "", c.mapError(err)
	}

	code, ok := sent.(*tg.AuthSentCode)
	if !ok {
		return "", oops.With("type", sent.TypeName()).Errorf("unexpected sent code response")
	}

	return code.PhoneCodeHash, nil
}

func (c *GotdClient) SignIn(ctx context.Context, phone, codeHash, code, password string) error {
	client, _, err := c.current()
	if err != nil {
		return err
	}

	_, err = client.Auth().SignIn(ctx, phone, code, codeHash)
	if errors.Is(err, auth.ErrPasswordAuthNeeded) {
		if password == "" {
			return apperrors.ErrPasswordNeeded
		}
		_, err = client.Auth().Password(ctx, password)
	}
	if err != nil {
		return c.mapError(err)
	}

	return nil
}

func (c *GotdClient) ResolveHandle(ctx context.Context, handle string) (*Entity, error) {
	_, api, err := c.current()
	if err != nil {
		return nil, err
	}

	res, err := api.ContactsResolveUsername(ctx, &tg.ContactsResolveUsernameRequest{Username: handle})
	if err != nil {
		return nil, c.mapError(err)
	}

	for _, chat := range res.Chats {
		channel, ok := chat.(*tg.Channel)
		if !ok {
			continue
		}

		c.hashesMu.Lock()
		c.accessHashes[channel.ID] = channel.AccessHash
		c.hashesMu.Unlock()

		return &Entity{
			ID:         channel.ID,
			AccessHash: channel.AccessHash,
			Broadcast:  channel.Broadcast,
			Title:      channel.Title,
		}, nil
	}

	return nil, oops.With("handle", handle).Wrap(apperrors.ErrChannelNotFound)
}

func (c *GotdClient) RecentMessages(ctx context.Context, channelID int64, limit int) ([]Envelope, error) {
	_, api, err := c.current()
	if err != nil {
		return nil, err
	}

	bare := chdomain.BareID(channelID)

	c.hashesMu.Lock()
	hash, ok := c.accessHashes[bare]
	c.hashesMu.Unlock()
	if !ok {
		// Channels configured by raw id and never resolved by handle
		// have no access hash, so history cannot be fetched for them.
		return nil, oops.With("channel_id", channelID).Wrap(apperrors.ErrChannelNotFound)
	}

	res, err := api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
		Peer:  &tg.InputPeerChannel{ChannelID: bare, AccessHash: hash},
		Limit: limit,
	})
	if err != nil {
		return nil, c.mapError(err)
	}

	var raw []tg.MessageClass
	switch m := res.(type) {
	case *tg.MessagesChannelMessages:
		raw = m.Messages
	case *tg.MessagesMessages:
		raw = m.Messages
	case *tg.MessagesMessagesSlice:
		raw = m.Messages
	default:
		return nil, oops.With("type", res.TypeName()).Errorf("unexpected history response")
	}

	envelopes := make([]Envelope, 0, len(raw))
	for _, mc := range raw {
		msg, ok := mc.(*tg.Message)
		if !ok {
			continue
		}
		envelopes = append(envelopes, envelopeFromMessage(msg))
	}

	// History arrives newest first
	sort.Slice(envelopes, func(i, j int) bool {
		return envelopes[i].MessageID < envelopes[j].MessageID
	})

	return envelopes, nil
}

func (c *GotdClient) Subscribe(handler func(Envelope)) func() {
	c.handlersMu.Lock()
	id := c.nextHandler
	c.nextHandler++
	c.handlers[id] = handler
	c.handlersMu.Unlock()

	return func() {
		c.handlersMu.Lock()
		delete(c.handlers, id)
		c.handlersMu.Unlock()
	}
}

func (c *GotdClient) Ping(ctx context.Context) error {
	client, _, err := c.current()
	if err != nil {
		return err
	}

	if _, err := client.Self(ctx); err != nil {
		return c.mapError(err)
	}
	return nil
}

func (c *GotdClient) current() (*telegram.Client, *tg.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil, nil, oops.Wrap(apperrors.ErrNotRunning)
	}
	return c.client, c.api, nil
}

func (c *GotdClient) handleUpdates(_ context.Context, updates tg.UpdatesClass) error {
	switch u := updates.(type) {
	case *tg.Updates:
		for _, upd := range u.Updates {
			c.dispatch(upd)
		}
	case *tg.UpdatesCombined:
		for _, upd := range u.Updates {
			c.dispatch(upd)
		}
	case *tg.UpdateShort:
		c.dispatch(u.Update)
	}
	return nil
}

func (c *GotdClient) dispatch(upd tg.UpdateClass) {
	var raw tg.MessageClass
	switch u := upd.(type) {
	case *tg.UpdateNewChannelMessage:
		raw = u.Message
	case *tg.UpdateNewMessage:
		raw = u.Message
	default:
		return
	}

	msg, ok := raw.(*tg.Message)
	if !ok {
		return
	}

	env := envelopeFromMessage(msg)

	c.handlersMu.RLock()
	handlers := make([]func(Envelope), 0, len(c.handlers))
	for _, h := range c.handlers {
		handlers = append(handlers, h)
	}
	c.handlersMu.RUnlock()

	for _, h := range handlers {
		h(env)
	}
}

func envelopeFromMessage(msg *tg.Message) Envelope {
	env := Envelope{
		MessageID: int64(msg.ID),
		Date:      time.Unix(int64(msg.Date), 0),
		Message:   msg.Message,
	}

	switch peer := msg.PeerID.(type) {
	case *tg.PeerChannel:
		env.PeerChannelID = peer.ChannelID
		env.Broadcast = true
	case *tg.PeerChat:
		env.PeerChatID = peer.ChatID
	}

	return env
}

// mapError translates transport errors into the app's taxonomy so the
// connection manager can pick the right recovery path.
func (c *GotdClient) mapError(err error) error {
	if err == nil {
		return nil
	}

	if tgErr, ok := tgerr.As(err); ok {
		switch {
		case tgErr.Type == "FLOOD_WAIT":
			return &apperrors.RateLimitedError{Wait: time.Duration(tgErr.Argument) * time.Second}
		case strings.HasSuffix(tgErr.Type, "_MIGRATE"):
			return &apperrors.MigrationError{DC: tgErr.Argument}
		case tgErr.Type == "AUTH_KEY_UNREGISTERED",
			tgErr.Type == "AUTH_KEY_INVALID",
			tgErr.Type == "SESSION_REVOKED",
			tgErr.Type == "SESSION_EXPIRED":
			return oops.With("type", tgErr.Type).Wrap(apperrors.ErrAuthRequired)
		case tgErr.Type == "SESSION_PASSWORD_NEEDED":
			return apperrors.ErrPasswordNeeded
		case tgErr.Type == "PHONE_CODE_EXPIRED":
			return apperrors.ErrCodeExpired
		case tgErr.Type == "PHONE_NUMBER_BANNED":
			return apperrors.ErrPhoneBanned
		case tgErr.Type == "USERNAME_NOT_OCCUPIED", tgErr.Type == "USERNAME_INVALID":
			return oops.With("type", tgErr.Type).Wrap(apperrors.ErrChannelNotFound)
		}
		return oops.With("type", tgErr.Type).Wrap(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return oops.With("cause", err.Error()).Wrap(apperrors.ErrNetworkTransient)
	}

	return oops.Wrap(err)
}
