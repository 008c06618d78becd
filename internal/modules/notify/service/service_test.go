package service

import (
	"strings"
	"testing"
	"time"

	"github.com/rdl-tech/coupon-radar/internal/modules/coupon/domain"
)

func TestFormatCoupon(t *testing.T) {
	t.Parallel()

	minP := 100.0
	c := &domain.Coupon{
		Code:          "PROMO20",
		Platform:      domain.PlatformShopee,
		DiscountType:  domain.DiscountTypePercentage,
		DiscountValue: 20,
		MinPurchase:   &minP,
		ValidUntil:    time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC),
		ChannelOrigin: "promodeals",
	}

	got := formatCoupon(c)
	for _, want := range []string{"`PROMO20`", "shopee", "20%", "R$100.00", "31/12/2026", "promodeals"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatted message missing %q:\n%s", want, got)
		}
	}
}

func TestFormatCouponFixedDiscount(t *testing.T) {
	t.Parallel()

	c := &domain.Coupon{
		Code:          "DESC180",
		Platform:      domain.PlatformGeneral,
		DiscountType:  domain.DiscountTypeFixed,
		DiscountValue: 180,
		ValidUntil:    time.Date(2026, 6, 1, 23, 59, 59, 0, time.UTC),
		ChannelOrigin: "promodeals",
	}

	if got := formatCoupon(c); !strings.Contains(got, "R$180.00") {
		t.Errorf("fixed discount should render as currency:\n%s", got)
	}
}
