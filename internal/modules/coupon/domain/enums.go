//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Platform is the store a coupon applies to
// ENUM(shopee, mercadolivre, amazon, aliexpress, magazineluiza, kabum, pichau, general)
type Platform string

// DiscountType is how the discount value is interpreted
// ENUM(percentage, fixed)
type DiscountType string
