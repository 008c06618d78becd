package service

import (
	"context"
	"time"

	codomain "github.com/rdl-tech/coupon-radar/internal/modules/collector/domain"
	apperrors "github.com/rdl-tech/coupon-radar/internal/shared/errors"
)

// Polling parameters. Push delivery can stall silently; a poll every
// interval bounds how long a stall goes unnoticed.
const (
	pollInterval = 30 * time.Second
	pollDepth    = 5
)

func (s *Service) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(s.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pollOnce(ctx)
		}
	}
}

// pollOnce fetches the newest messages for every monitored channel and
// feeds the ones past the watermark through the same path as push
// delivery, oldest first. The deduplicator absorbs any overlap with
// pushed events.
func (s *Service) pollOnce(ctx context.Context) {
	if until := s.pausedUntil(); time.Now().Before(until) {
		return
	}

	for _, ch := range s.monitored() {
		if ch.ChannelID == 0 || !s.schedule.inWindow(ch) {
			continue
		}

		envs, err := s.client.RecentMessages(ctx, ch.ChannelID, pollDepth)
		if err != nil {
			if rl, ok := apperrors.IsRateLimited(err); ok {
				s.logger.Warn("polling rate limited", "wait", rl.Wait)
				s.pauseUntil(time.Now().Add(rl.Wait))
				return
			}
			s.logger.Warn("polling failed", "channel", ch.Origin(), "error", err)
			continue
		}

		wm := s.watermark(ch)
		for _, env := range envs {
			if env.MessageID <= wm {
				continue
			}
			text, ok := messageText(env)
			if !ok {
				continue
			}

			msg := &codomain.Message{
				ChannelID:     ch.ChannelID,
				ChannelOrigin: ch.Origin(),
				MessageID:     env.MessageID,
				Date:          env.Date,
				Text:          text,
			}
			s.process(ctx, ch, msg)
		}
	}
}
