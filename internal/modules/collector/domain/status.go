//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// ConnState tracks where the Telegram connection stands
// ENUM(disconnected, connecting, connected, migrating)
type ConnState string

// Status is a point-in-time snapshot of the running collector.
type Status struct {
	Running           bool      `json:"running"`
	ConnState         ConnState `json:"connection_state"`
	ChannelsMonitored int       `json:"channels_monitored"`
	EventsReceived    int64     `json:"events_received"`
	MessagesReceived  int64     `json:"messages_received"`
	CouponsSaved      int64     `json:"coupons_saved"`
	DuplicatesSkipped int64     `json:"duplicates_skipped"`
	LastError         string    `json:"last_error,omitempty"`
}
