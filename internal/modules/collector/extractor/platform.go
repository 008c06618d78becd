package extractor

import (
	"strings"

	"github.com/rdl-tech/coupon-radar/internal/modules/coupon/domain"
)

// platformMarkers pairs each supported platform with the keywords and
// short-link domains that identify it. Order matters: the first hit
// wins.
var platformMarkers = []struct {
	platform domain.Platform
	markers  []string
}{
	{domain.PlatformShopee, []string{"shopee", "shp.ee"}},
	{domain.PlatformMercadolivre, []string{"mercado livre", "mercadolivre", "meli"}},
	{domain.PlatformAmazon, []string{"amazon", "amzn"}},
	{domain.PlatformAliexpress, []string{"aliexpress", "ali express"}},
	{domain.PlatformMagazineluiza, []string{"magazine luiza", "magazineluiza", "magalu"}},
	{domain.PlatformKabum, []string{"kabum"}},
	{domain.PlatformPichau, []string{"pichau"}},
}

// Stores we recognize but do not catalog separately. Matching one
// keeps the coupon under "general" instead of dropping it.
var recognizedStores = []string{"americanas", "submarino", "casas bahia", "casasbahia"}

func extractPlatform(s string) (domain.Platform, bool) {
	lower := strings.ToLower(s)

	for _, candidate := range platformMarkers {
		for _, marker := range candidate.markers {
			if strings.Contains(lower, marker) {
				return candidate.platform, true
			}
		}
	}

	for _, store := range recognizedStores {
		if strings.Contains(lower, store) {
			return domain.PlatformGeneral, true
		}
	}

	return "", false
}
