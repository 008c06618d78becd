package extractor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/rdl-tech/coupon-radar/internal/modules/collector/ai"
	"github.com/rdl-tech/coupon-radar/internal/modules/coupon/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeAnalyzer struct {
	fields *ai.Fields
	err    error
}

func (f *fakeAnalyzer) Analyze(context.Context, string) (*ai.Fields, error) {
	return f.fields, f.err
}

func TestExtractAnalyzerVerdictWins(t *testing.T) {
	t.Parallel()

	e := New(&fakeAnalyzer{fields: &ai.Fields{
		IsCoupon:      true,
		Code:          "aiform10",
		Platform:      "shopee",
		DiscountType:  "fixed",
		DiscountValue: 25,
	}}, testLogger())

	got := e.Extract(context.Background(), "Cupom: OUTROCODIGO10 na shopee", 5, "promodeals")
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}

	c := got[0]
	if c.Code != "AIFORM10" {
		t.Errorf("code = %q, want the analyzer's code uppercased", c.Code)
	}
	if c.PendingApproval {
		t.Error("analyzer-confirmed coupons skip the approval queue")
	}
	if c.Platform != domain.PlatformShopee || c.DiscountType != domain.DiscountTypeFixed || c.DiscountValue != 25 {
		t.Errorf("fields = %s %s %v", c.Platform, c.DiscountType, c.DiscountValue)
	}
	if c.ValidUntil.IsZero() {
		t.Error("valid until must be set even without an analyzer date")
	}
}

func TestExtractAnalyzerErrorFallsThrough(t *testing.T) {
	t.Parallel()

	e := New(&fakeAnalyzer{err: errors.New("model offline")}, testLogger())

	got := e.Extract(context.Background(), "Cupom: FALLBACK15 com 15% OFF", 6, "promodeals")
	if len(got) != 1 || got[0].Code != "FALLBACK15" {
		t.Fatalf("heuristics should take over on analyzer failure, got %v", got)
	}
	if !got[0].PendingApproval {
		t.Error("heuristic fallback candidates stay pending approval")
	}
}

func TestExtractAnalyzerNoCouponFallsThrough(t *testing.T) {
	t.Parallel()

	e := New(&fakeAnalyzer{fields: &ai.Fields{IsCoupon: false}}, testLogger())

	got := e.Extract(context.Background(), "Cupom: AINDA20 com 20% OFF", 8, "promodeals")
	if len(got) != 1 || got[0].Code != "AINDA20" {
		t.Fatalf("heuristics should take over when the analyzer sees no coupon, got %v", got)
	}
}
