package domain

import "time"

// Message is a channel message normalized for extraction. ChannelID is
// the normalized negative identifier of the originating channel.
type Message struct {
	ChannelID     int64
	ChannelOrigin string
	MessageID     int64
	Date          time.Time
	Text          string
}
