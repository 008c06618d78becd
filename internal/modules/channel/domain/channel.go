package domain

import (
	"strconv"
	"strings"
	"time"
)

// Channel represents a Telegram channel monitored for coupon content.
// A channel is identified by its public handle, its numeric Telegram id, or
// both; at least one must be set. ChannelID == 0 means the handle still needs
// to be resolved against the network.
type Channel struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Handle         string      `json:"handle"`
	ChannelID      int64       `json:"channel_id"`
	IsActive       bool        `json:"is_active"`
	CaptureMode    CaptureMode `json:"capture_mode"`
	PlatformFilter string      `json:"platform_filter"`
	ScheduleStart  string      `json:"capture_schedule_start,omitempty"`
	ScheduleEnd    string      `json:"capture_schedule_end,omitempty"`
	LastMessageID  int64       `json:"last_message_id"`
	LastSyncAt     time.Time   `json:"last_sync_at"`
	AddedAt        time.Time   `json:"added_at"`
}

// NeedsResolution reports whether the channel still has to be resolved from
// its handle to a numeric id.
func (c *Channel) NeedsResolution() bool {
	return c.ChannelID == 0 && c.Handle != ""
}

// CleanHandle returns the handle without a leading @.
func (c *Channel) CleanHandle() string {
	return strings.TrimPrefix(strings.TrimSpace(c.Handle), "@")
}

// Origin returns the identity used when tagging extracted coupons: the
// handle when known, otherwise the numeric id.
func (c *Channel) Origin() string {
	if h := c.CleanHandle(); h != "" {
		return h
	}
	return strconv.FormatInt(c.ChannelID, 10)
}

// NormalizeID converts a raw provider entity id into the convention used for
// stored channel ids: broadcast channels get the -100 prefix, everything else
// a plain negative sign. Ids that already carry a sign are kept as-is.
func NormalizeID(raw int64, broadcast bool) int64 {
	if raw <= 0 {
		return raw
	}
	if broadcast {
		prefixed, err := strconv.ParseInt("-100"+strconv.FormatInt(raw, 10), 10, 64)
		if err != nil {
			return -raw
		}
		return prefixed
	}
	return -raw
}

// BareID strips the sign and any -100 broadcast prefix so that ids arriving
// in different provider shapes can be compared against each other.
func BareID(id int64) int64 {
	if id < 0 {
		id = -id
	}
	s := strconv.FormatInt(id, 10)
	if rest, ok := strings.CutPrefix(s, "100"); ok && len(rest) >= 6 {
		if bare, err := strconv.ParseInt(rest, 10, 64); err == nil {
			return bare
		}
	}
	return id
}

// SameChannel reports whether two ids refer to the same channel regardless
// of sign or broadcast prefix.
func SameChannel(a, b int64) bool {
	if a == b {
		return true
	}
	return BareID(a) == BareID(b)
}
