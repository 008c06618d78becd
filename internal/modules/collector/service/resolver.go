package service

import (
	"context"
	"log/slog"
	"time"

	chdomain "github.com/rdl-tech/coupon-radar/internal/modules/channel/domain"
	chrepo "github.com/rdl-tech/coupon-radar/internal/modules/channel/repository"
	"github.com/rdl-tech/coupon-radar/internal/modules/collector/telegram"
)

const resolveTimeout = 15 * time.Second

// ChannelResolver fills in numeric ids for channels configured only by
// handle, persisting the result so resolution happens once.
type ChannelResolver struct {
	client   telegram.Client
	channels chrepo.Repository
	logger   *slog.Logger
}

func NewChannelResolver(client telegram.Client, channels chrepo.Repository, logger *slog.Logger) *ChannelResolver {
	return &ChannelResolver{client: client, channels: channels, logger: logger}
}

// Resolve returns the channels that are usable for monitoring. A
// channel whose handle cannot be resolved is dropped from the result
// and logged; it never aborts resolution of the others.
func (r *ChannelResolver) Resolve(ctx context.Context, pending []*chdomain.Channel) []*chdomain.Channel {
	resolved := make([]*chdomain.Channel, 0, len(pending))

	for _, ch := range pending {
		if !ch.NeedsResolution() {
			// Resolve anyway when a handle exists, so the access hash
			// needed for history fetches gets cached.
			if ch.CleanHandle() != "" {
				r.resolveOne(ctx, ch)
			}
			resolved = append(resolved, ch)
			continue
		}

		if !r.resolveOne(ctx, ch) {
			continue
		}

		if err := r.channels.SaveChannel(ch); err != nil {
			r.logger.Warn("failed to persist resolved channel id", "channel", ch.ID, "error", err)
		}
		resolved = append(resolved, ch)
	}

	return resolved
}

func (r *ChannelResolver) resolveOne(ctx context.Context, ch *chdomain.Channel) bool {
	rctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	entity, err := r.client.ResolveHandle(rctx, ch.CleanHandle())
	if err != nil {
		r.logger.Warn("channel resolution failed", "handle", ch.Handle, "error", err)
		return false
	}

	ch.ChannelID = chdomain.NormalizeID(entity.ID, entity.Broadcast)
	if ch.Name == "" {
		ch.Name = entity.Title
	}
	return true
}
