package service

import (
	"context"
	"strings"

	chdomain "github.com/rdl-tech/coupon-radar/internal/modules/channel/domain"
	codomain "github.com/rdl-tech/coupon-radar/internal/modules/collector/domain"
	"github.com/rdl-tech/coupon-radar/internal/modules/collector/telegram"
	"github.com/rdl-tech/coupon-radar/internal/shared/fallback"
)

// channelIdentity reads the originating chat id out of whichever field
// the update shape populated, normalized to the stored id convention.
func channelIdentity(env telegram.Envelope) (int64, bool) {
	return fallback.First(env,
		func(e telegram.Envelope) (int64, bool) {
			if e.PeerChannelID != 0 {
				return chdomain.NormalizeID(e.PeerChannelID, true), true
			}
			return 0, false
		},
		func(e telegram.Envelope) (int64, bool) {
			if e.PeerChatID != 0 {
				return chdomain.NormalizeID(e.PeerChatID, false), true
			}
			return 0, false
		},
		func(e telegram.Envelope) (int64, bool) {
			if e.ChatID != 0 {
				return chdomain.NormalizeID(e.ChatID, e.Broadcast), true
			}
			return 0, false
		},
		func(e telegram.Envelope) (int64, bool) {
			if e.Chat != nil && e.Chat.ID != 0 {
				return chdomain.NormalizeID(e.Chat.ID, e.Broadcast), true
			}
			return 0, false
		},
	)
}

// messageText reads the text out of whichever field carries it; media
// posts put it in the caption.
func messageText(env telegram.Envelope) (string, bool) {
	return fallback.First(env,
		func(e telegram.Envelope) (string, bool) { return nonEmpty(e.Message) },
		func(e telegram.Envelope) (string, bool) { return nonEmpty(e.Text) },
		func(e telegram.Envelope) (string, bool) { return nonEmpty(e.RawText) },
		func(e telegram.Envelope) (string, bool) { return nonEmpty(e.Caption) },
	)
}

func nonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// handleEnvelope is the push-delivery entry point. Events from
// unmonitored chats are dropped silently; a failure inside one
// message's processing never reaches the update loop.
func (s *Service) handleEnvelope(env telegram.Envelope) {
	s.eventsReceived.Add(1)

	id, ok := channelIdentity(env)
	if !ok {
		return
	}
	ch := s.matchChannel(id)
	if ch == nil {
		return
	}
	text, ok := messageText(env)
	if !ok {
		return
	}

	msg := &codomain.Message{
		ChannelID:     id,
		ChannelOrigin: ch.Origin(),
		MessageID:     env.MessageID,
		Date:          env.Date,
		Text:          text,
	}

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()
	s.process(ctx, ch, msg)
}
