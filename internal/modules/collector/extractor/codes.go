package extractor

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

const (
	codeMinLen = 4
	codeMaxLen = 15
	// relaxedMinLen applies when the message as a whole talks about
	// coupons; token-local context is not required then but slightly
	// longer tokens are, to keep the noise down.
	relaxedMinLen = 5
	// contextRadius is how far around a bare token we look for coupon
	// or discount markers before accepting it as a code.
	contextRadius = 200
)

// Tokens that pass the shape check but are never coupon codes.
var denyList = map[string]struct{}{
	"HTTP": {}, "HTTPS": {}, "WWW": {}, "COM": {}, "ORG": {}, "NET": {},
	"FRETE": {}, "GRATIS": {}, "OFF": {}, "HOJE": {}, "AGORA": {},
	"BRASIL": {}, "MELI": {}, "APP": {}, "LINK": {}, "PROMO": {},
	"CUPOM": {}, "CODIGO": {}, "CODE": {}, "COUPON": {}, "DESCONTO": {},
	"OFERTA": {}, "SHOPEE": {}, "AMAZON": {}, "KABUM": {}, "PICHAU": {},
	"MAGALU": {}, "ALIEXPRESS": {}, "MERCADOLIVRE": {}, "AMERICANAS": {},
	"SUBMARINO": {},
}

var (
	inlineCodeRe   = regexp.MustCompile("`\\s*([A-Za-z0-9]{4,15})\\s*`")
	labelCodeRe    = regexp.MustCompile(`(?i)\b(?:cupom|c[óo]digo|code|coupon|use|usar|usando)\b\s*[:\-]?\s*([A-Za-z0-9]{4,15})\b`)
	promoEmojiRe   = regexp.MustCompile(`(?:🎟️?|🎫|🏷️?|💳|🔖|🤑|💰)\s*:?\s*([A-Za-z0-9]{4,15})\b`)
	upperTokenRe   = regexp.MustCompile(`\b[A-Z0-9]{4,15}\b`)
	relaxedTokenRe = regexp.MustCompile(`\b[A-Z0-9]{5,15}\b`)

	couponKeywordRe  = regexp.MustCompile(`(?i)\b(?:cupom|c[óo]digo|code|coupon|voucher|promo)\b`)
	discountMarkerRe = regexp.MustCompile(`(?i)%|\boff\b|R\$|desconto`)
)

// validCode decides whether a token has the shape of a coupon code.
// Heuristic on purpose: deny-list plus length plus at-least-one-letter
// is the whole filter.
func validCode(token string) (string, bool) {
	up := strings.ToUpper(strings.TrimSpace(token))
	if len(up) < codeMinLen || len(up) > codeMaxLen {
		return "", false
	}
	if _, denied := denyList[up]; denied {
		return "", false
	}

	hasLetter := false
	for _, r := range up {
		switch {
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
		default:
			return "", false
		}
	}
	if !hasLetter {
		return "", false
	}

	return up, true
}

func submatchCodes(re *regexp.Regexp, text string) []string {
	return lo.FilterMap(re.FindAllStringSubmatch(text, -1), func(m []string, _ int) (string, bool) {
		return validCode(m[1])
	})
}

// inlineCodes finds codes set off with backtick markers. Authors use
// these to quote the literal coupon string, which makes them the most
// reliable signal.
func inlineCodes(text string) []string {
	return lo.Uniq(submatchCodes(inlineCodeRe, text))
}

// labelCodes finds codes introduced by a label such as "Código:".
func labelCodes(text string) []string {
	return lo.Uniq(submatchCodes(labelCodeRe, text))
}

// emojiCodes finds codes announced by a promotional emoji.
func emojiCodes(text string) []string {
	return lo.Uniq(submatchCodes(promoEmojiRe, text))
}

// contextCodes accepts bare uppercase tokens whose surrounding text
// mentions coupons or a discount.
func contextCodes(text string) []string {
	codes := lo.FilterMap(upperTokenRe.FindAllStringIndex(text, -1), func(loc []int, _ int) (string, bool) {
		code, ok := validCode(text[loc[0]:loc[1]])
		if !ok {
			return "", false
		}

		start := max(0, loc[0]-contextRadius)
		end := min(len(text), loc[1]+contextRadius)
		window := text[start:end]
		if !couponKeywordRe.MatchString(window) && !discountMarkerRe.MatchString(window) {
			return "", false
		}

		return code, true
	})

	return lo.Uniq(codes)
}

// relaxedCodes accepts slightly longer bare tokens anywhere in the
// message, but only when the message as a whole talks about coupons.
func relaxedCodes(text string) []string {
	if !couponKeywordRe.MatchString(text) {
		return nil
	}

	codes := lo.FilterMap(relaxedTokenRe.FindAllString(text, -1), func(token string, _ int) (string, bool) {
		return validCode(token)
	})

	return lo.Uniq(codes)
}
