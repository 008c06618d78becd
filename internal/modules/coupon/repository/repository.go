package repository

import (
	"context"

	"github.com/rdl-tech/coupon-radar/internal/modules/coupon/domain"
)

// Repository persists extracted coupons
type Repository interface {
	// FindByFingerprint returns the stored coupon with the given
	// fingerprint, or nil when none exists
	FindByFingerprint(ctx context.Context, fingerprint string) (*domain.Coupon, error)
	// Create stores a coupon. When another writer raced the same
	// fingerprint in, the already-stored coupon is returned instead
	// of an error.
	Create(ctx context.Context, coupon *domain.Coupon) (*domain.Coupon, error)
}
