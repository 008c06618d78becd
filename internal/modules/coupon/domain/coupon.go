package domain

import "time"

// Coupon is a persisted discount coupon extracted from a channel message.
type Coupon struct {
	ID            string       `json:"id" gorm:"primaryKey"`
	Code          string       `json:"code" gorm:"index"`
	Platform      Platform     `json:"platform" gorm:"type:varchar(32)"`
	DiscountType  DiscountType `json:"discount_type" gorm:"type:varchar(16)"`
	DiscountValue float64      `json:"discount_value"`
	MinPurchase   *float64     `json:"min_purchase,omitempty"`
	MaxDiscount   *float64     `json:"max_discount,omitempty"`
	ValidFrom     time.Time    `json:"valid_from"`
	// ValidUntil is always set; a 7-day default applies when the
	// message carries no expiry.
	ValidUntil      time.Time `json:"valid_until"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ChannelOrigin   string    `json:"channel_origin" gorm:"index"`
	MessageID       int64     `json:"message_id"`
	Source          string    `json:"source"`
	PendingApproval bool      `json:"pending_approval"`
	Fingerprint     string    `json:"fingerprint" gorm:"uniqueIndex;size:64"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
