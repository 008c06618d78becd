package telegram

import (
	"context"
	"time"
)

// Entity is a resolved channel identity.
type Entity struct {
	ID         int64
	AccessHash int64
	Broadcast  bool
	Title      string
}

// ChatRef carries nested chat identity observed on some update shapes.
type ChatRef struct {
	ID int64
}

// Envelope is a raw update event. Which identity and text fields are
// populated depends on the update shape the server sent, so consumers
// read them through ordered fallbacks rather than trusting any single
// field.
type Envelope struct {
	PeerChannelID int64
	PeerChatID    int64
	ChatID        int64
	Chat          *ChatRef
	Broadcast     bool
	MessageID     int64
	Date          time.Time
	Message       string
	Text          string
	RawText       string
	Caption       string
}

// Client is the MTProto surface the collector needs. The production
// implementation is GotdClient; tests substitute fakes.
type Client interface {
	// Connect establishes the transport session. It does not imply
	// the account is signed in.
	Connect(ctx context.Context) error
	Disconnect() error

	IsAuthorized(ctx context.Context) (bool, error)
	// SendCode asks Telegram to deliver a login code and returns the
	// code hash needed to complete sign-in
	SendCode(ctx context.Context, phone string) (string, error)
	// SignIn completes the login. password is only consulted when the
	// account has two-step verification enabled.
	SignIn(ctx context.Context, phone, codeHash, code, password string) error

	ResolveHandle(ctx context.Context, handle string) (*Entity, error)
	RecentMessages(ctx context.Context, channelID int64, limit int) ([]Envelope, error)
	// Subscribe registers a handler for incoming updates and returns
	// an unsubscribe func
	Subscribe(handler func(Envelope)) func()
	// Ping performs a lightweight self-lookup to verify the session
	// is alive
	Ping(ctx context.Context) error
}
