package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rdl-tech/coupon-radar/internal/modules/coupon/domain"
)

type discount struct {
	Type  domain.DiscountType
	Value float64
}

var (
	percentRe     = regexp.MustCompile(`(?i)(\d{1,3})\s*(?:%|por\s?cento|percent)`)
	currencyOffRe = regexp.MustCompile(`(?i)R\$\s*(\d+(?:[.,]\d{1,3})*)\s*(?:de\s+desconto|off)`)
	bareOffRe     = regexp.MustCompile(`(?i)(\d+(?:[.,]\d{1,3})*)\s*(?:de\s+desconto|off)`)

	minPurchaseRe = regexp.MustCompile(`(?i)(?:acima(?:\s+de)?|m[íi]nim[oa](?:\s+de)?|a\s+partir\s+de|compras?\s+m[íi]nimas?(?:\s+de)?)\s*(?:de\s+)?R?\$?\s*(\d+(?:[.,]\d{1,3})*)`)
	maxDiscountRe = regexp.MustCompile(`(?i)(?:limite|limitado\s+a|m[áa]x(?:imo)?(?:\s+de)?)\s*(?:de\s+)?R?\$?\s*(\d+(?:[.,]\d{1,3})*)`)
)

const maxMinPurchase = 100000

// extractDiscount reads a discount out of a text fragment. Percentages
// win over currency amounts. A bare "N OFF" with N above 100 cannot be
// a percentage, so it is read as a currency amount.
func extractDiscount(s string) (discount, bool) {
	if m := percentRe.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil && v >= 1 && v <= 100 {
			return discount{Type: domain.DiscountTypePercentage, Value: v}, true
		}
	}

	if m := currencyOffRe.FindStringSubmatch(s); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			return discount{Type: domain.DiscountTypeFixed, Value: v}, true
		}
	}

	if m := bareOffRe.FindStringSubmatch(s); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			if v > 100 {
				return discount{Type: domain.DiscountTypeFixed, Value: v}, true
			}
			if v >= 1 {
				return discount{Type: domain.DiscountTypePercentage, Value: v}, true
			}
		}
	}

	return discount{}, false
}

func extractMinPurchase(s string) (float64, bool) {
	m := minPurchaseRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	v, ok := parseAmount(m[1])
	if !ok || v <= 0 || v > maxMinPurchase {
		return 0, false
	}
	return v, true
}

func extractMaxDiscount(s string) (float64, bool) {
	m := maxDiscountRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	v, ok := parseAmount(m[1])
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// parseAmount handles Brazilian number formatting: dots as thousand
// separators, comma as the decimal mark.
func parseAmount(raw string) (float64, bool) {
	s := raw
	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case strings.Contains(s, ","):
		s = strings.Replace(s, ",", ".", 1)
	case strings.Contains(s, "."):
		// "1.999" is a thousand separator, "19.90" a decimal point
		if idx := strings.LastIndex(s, "."); len(s)-idx-1 == 3 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
