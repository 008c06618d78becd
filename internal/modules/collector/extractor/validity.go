package extractor

import (
	"regexp"
	"strconv"
	"time"
)

// defaultValidityDays is the horizon applied when a message carries no
// expiry at all.
const defaultValidityDays = 7

var (
	explicitDateRe = regexp.MustCompile(`(?i)(?:v[áa]lido\s+(?:at[ée]|ao?)|at[ée]\s+(?:o\s+dia\s+)?|expira\s+(?:em\s+)?)(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?`)
	bareDateRe     = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}))\b`)
	validForDaysRe = regexp.MustCompile(`(?i)v[áa]lido\s+por\s+(\d{1,3})\s+dias?`)
)

// extractValidity reads an expiry out of a text fragment. Only future
// dates are usable; anything in the past is treated as no match so the
// default horizon applies.
func extractValidity(now time.Time) func(string) (time.Time, bool) {
	return func(s string) (time.Time, bool) {
		if m := validForDaysRe.FindStringSubmatch(s); m != nil {
			days, err := strconv.Atoi(m[1])
			if err == nil && days > 0 {
				return now.AddDate(0, 0, days), true
			}
		}

		for _, m := range [][]string{
			explicitDateRe.FindStringSubmatch(s),
			bareDateRe.FindStringSubmatch(s),
		} {
			if m == nil {
				continue
			}
			if t, ok := buildDate(m[1], m[2], m[3], now); ok {
				return t, true
			}
		}

		return time.Time{}, false
	}
}

func buildDate(dayStr, monthStr, yearStr string, now time.Time) (time.Time, bool) {
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}

	year := now.Year()
	if yearStr != "" {
		year, err = strconv.Atoi(yearStr)
		if err != nil {
			return time.Time{}, false
		}
		if year < 100 {
			year += 2000
		}
	}

	// Expiry covers the whole announced day
	t := time.Date(year, time.Month(month), day, 23, 59, 59, 0, now.Location())
	if yearStr == "" && t.Before(now) {
		// A day/month with no year that already passed means next year
		t = t.AddDate(1, 0, 0)
	}
	if t.Before(now) {
		return time.Time{}, false
	}

	return t, true
}
