package domain

import "time"

// CollectorSettings holds the mutable authentication state of the
// Telegram collector. API credentials live in the config file; only
// state that changes at runtime is persisted here.
type CollectorSettings struct {
	IsAuthenticated bool       `json:"is_authenticated"`
	PhoneCodeHash   string     `json:"phone_code_hash,omitempty"`
	LastCodeSentAt  *time.Time `json:"last_code_sent_at,omitempty"`
	LastError       string     `json:"last_error,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
