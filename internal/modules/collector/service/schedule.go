package service

import (
	"strconv"
	"strings"
	"time"

	chdomain "github.com/rdl-tech/coupon-radar/internal/modules/channel/domain"
	codomain "github.com/rdl-tech/coupon-radar/internal/modules/collector/domain"
)

// newOnlyMaxAge is the age guard for new_only capture. The watermark
// alone is not enough: a reset watermark would otherwise re-admit the
// whole channel history.
const newOnlyMaxAge = 24 * time.Hour

// ScheduleFilter gates messages by the channel's daily capture window
// and capture mode.
type ScheduleFilter struct {
	now func() time.Time
}

func NewScheduleFilter() *ScheduleFilter {
	return &ScheduleFilter{now: time.Now}
}

// InScope reports whether the message should be processed for the
// channel right now. The watermark is passed in rather than read off
// the channel so callers holding the registry lock decide the snapshot.
func (f *ScheduleFilter) InScope(ch *chdomain.Channel, msg *codomain.Message, watermark int64) bool {
	if !f.inWindow(ch) {
		return false
	}

	now := f.now()
	switch ch.CaptureMode {
	case chdomain.CaptureModeLast1Day:
		return now.Sub(msg.Date) <= 24*time.Hour
	case chdomain.CaptureModeLast2Days:
		return now.Sub(msg.Date) <= 48*time.Hour
	case chdomain.CaptureModeUnrestricted:
		return true
	default:
		// new_only, also the fallback for unset modes
		if msg.MessageID <= watermark {
			return false
		}
		return now.Sub(msg.Date) <= newOnlyMaxAge
	}
}

func (f *ScheduleFilter) inWindow(ch *chdomain.Channel) bool {
	start, okStart := parseClock(ch.ScheduleStart)
	end, okEnd := parseClock(ch.ScheduleEnd)
	if !okStart || !okEnd || start == end {
		return true
	}

	now := f.now()
	minute := now.Hour()*60 + now.Minute()

	// end before start means the window wraps midnight
	if end < start {
		return minute >= start || minute < end
	}
	return minute >= start && minute < end
}

// parseClock reads "HH:MM" into minutes of day.
func parseClock(s string) (int, bool) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, false
	}

	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}

	return hour*60 + minute, true
}
