package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rdl-tech/coupon-radar/internal/modules/collector/ai"
	"github.com/rdl-tech/coupon-radar/internal/modules/coupon/domain"
	"github.com/rdl-tech/coupon-radar/internal/shared/fallback"
	"github.com/samber/lo"
)

const (
	// Messages shorter than this carry no extractable coupon.
	minTextLength = 10
	// detailRadius is how much text around a located code feeds the
	// discount/platform/validity sub-extractors.
	detailRadius = 300

	defaultDiscountValue = 10
	descriptionLimit     = 200
)

// Extractor turns message text into coupon candidates. A message may
// carry several codes; all of them become candidates.
type Extractor struct {
	analyzer ai.Analyzer
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an extractor. analyzer may be nil, in which case only
// the deterministic strategies run.
func New(analyzer ai.Analyzer, logger *slog.Logger) *Extractor {
	return &Extractor{analyzer: analyzer, logger: logger, now: time.Now}
}

// Extract runs the strategy chain against one message. An empty result
// means the message carried no coupon, which is not an error.
func (e *Extractor) Extract(ctx context.Context, text string, messageID int64, channelOrigin string) []*domain.Coupon {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minTextLength {
		return nil
	}

	if e.analyzer != nil {
		if c := e.fromAnalyzer(ctx, trimmed, messageID, channelOrigin); c != nil {
			return []*domain.Coupon{c}
		}
	}

	// Stages run in confidence order; the first stage yielding codes
	// wins outright, so delimiter-marked codes suppress the noisier
	// heuristics entirely.
	codes := fallback.FirstNonEmpty(trimmed,
		inlineCodes,
		labelCodes,
		emojiCodes,
		contextCodes,
		relaxedCodes,
	)

	return lo.Map(codes, func(code string, _ int) *domain.Coupon {
		return e.buildCandidate(trimmed, code, messageID, channelOrigin)
	})
}

// buildCandidate fills in the details for one located code. Each
// sub-extractor tries the code's surrounding window first, then the
// full text, then a fixed default, so a located code is never thrown
// away for lack of detail.
func (e *Extractor) buildCandidate(text, code string, messageID int64, channelOrigin string) *domain.Coupon {
	now := e.now()
	window := contextWindow(text, code, detailRadius)

	disc, ok := fallback.First(window,
		extractDiscount,
		func(string) (discount, bool) { return extractDiscount(text) },
	)
	if !ok {
		disc = discount{Type: domain.DiscountTypePercentage, Value: defaultDiscountValue}
	}

	platform, ok := fallback.First(window,
		extractPlatform,
		func(string) (domain.Platform, bool) { return extractPlatform(text) },
	)
	if !ok {
		platform = domain.PlatformGeneral
	}

	validity := extractValidity(now)
	validUntil, ok := fallback.First(window,
		validity,
		func(string) (time.Time, bool) { return validity(text) },
	)
	if !ok {
		validUntil = now.AddDate(0, 0, defaultValidityDays)
	}

	var minPurchase, maxDiscount *float64
	if v, ok := fallback.First(window,
		extractMinPurchase,
		func(string) (float64, bool) { return extractMinPurchase(text) },
	); ok {
		minPurchase = &v
	}
	if v, ok := fallback.First(window,
		extractMaxDiscount,
		func(string) (float64, bool) { return extractMaxDiscount(text) },
	); ok {
		maxDiscount = &v
	}

	return &domain.Coupon{
		Code:            code,
		Platform:        platform,
		DiscountType:    disc.Type,
		DiscountValue:   disc.Value,
		MinPurchase:     minPurchase,
		MaxDiscount:     maxDiscount,
		ValidFrom:       now,
		ValidUntil:      validUntil,
		Title:           fmt.Sprintf("Cupom %s", code),
		Description:     truncate(text, descriptionLimit),
		ChannelOrigin:   channelOrigin,
		MessageID:       messageID,
		Source:          "telegram",
		PendingApproval: true,
		Fingerprint:     domain.Fingerprint(channelOrigin, messageID, text, code),
	}
}

// fromAnalyzer converts an AI verdict into a candidate. Analyzer
// output carries higher confidence, so it skips the approval queue.
// Any failure falls through to the deterministic strategies.
func (e *Extractor) fromAnalyzer(ctx context.Context, text string, messageID int64, channelOrigin string) *domain.Coupon {
	fields, err := e.analyzer.Analyze(ctx, text)
	if err != nil {
		e.logger.Debug("analyzer unavailable, using heuristics", "error", err)
		return nil
	}
	if !fields.IsCoupon {
		return nil
	}

	code, ok := validCode(fields.Code)
	if !ok {
		return nil
	}

	now := e.now()

	platform, err := domain.ParsePlatform(fields.Platform)
	if err != nil {
		platform = domain.PlatformGeneral
	}

	discountType, err := domain.ParseDiscountType(fields.DiscountType)
	if err != nil {
		discountType = domain.DiscountTypePercentage
	}

	value := fields.DiscountValue
	if value <= 0 {
		value = defaultDiscountValue
	}

	validUntil := now.AddDate(0, 0, defaultValidityDays)
	if fields.ValidUntil != "" {
		if t, ok := extractValidity(now)(fields.ValidUntil); ok {
			validUntil = t
		}
	}

	title := fields.Title
	if title == "" {
		title = fmt.Sprintf("Cupom %s", code)
	}
	description := fields.Description
	if description == "" {
		description = truncate(text, descriptionLimit)
	}

	return &domain.Coupon{
		Code:            code,
		Platform:        platform,
		DiscountType:    discountType,
		DiscountValue:   value,
		MinPurchase:     fields.MinPurchase,
		MaxDiscount:     fields.MaxDiscount,
		ValidFrom:       now,
		ValidUntil:      validUntil,
		Title:           title,
		Description:     description,
		ChannelOrigin:   channelOrigin,
		MessageID:       messageID,
		Source:          "telegram",
		PendingApproval: false,
		Fingerprint:     domain.Fingerprint(channelOrigin, messageID, text, code),
	}
}

// contextWindow slices out the text around the code's occurrence.
// The search folds case in place; indexing an upper-cased copy would
// drift whenever a case mapping changes byte length.
func contextWindow(text, code string, radius int) string {
	idx := strings.Index(text, code)
	for i := 0; idx < 0 && i+len(code) <= len(text); i++ {
		if strings.EqualFold(text[i:i+len(code)], code) {
			idx = i
		}
	}
	if idx < 0 {
		return text
	}

	start := max(0, idx-radius)
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	end := min(len(text), idx+len(code)+radius)
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}
	return text[start:end]
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
