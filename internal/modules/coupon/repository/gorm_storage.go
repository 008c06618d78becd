package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rdl-tech/coupon-radar/internal/modules/coupon/domain"
	"github.com/samber/oops"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStorage implements coupon.Repository on Postgres
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage opens the database and migrates the coupons table
func NewGormStorage(dsn string) (Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, oops.With("context", "failed to open database").Wrap(err)
	}

	if err := db.AutoMigrate(&domain.Coupon{}); err != nil {
		return nil, oops.With("context", "failed to migrate coupons table").Wrap(err)
	}

	return &GormStorage{db: db}, nil
}

func (s *GormStorage) FindByFingerprint(ctx context.Context, fingerprint string) (*domain.Coupon, error) {
	var coupon domain.Coupon
	err := s.db.WithContext(ctx).Where("fingerprint = ?", fingerprint).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, oops.With("fingerprint", fingerprint, "context", "failed to query coupon").Wrap(err)
	}

	return &coupon, nil
}

func (s *GormStorage) Create(ctx context.Context, coupon *domain.Coupon) (*domain.Coupon, error) {
	if coupon.ID == "" {
		coupon.ID = uuid.New().String()
	}

	err := s.db.WithContext(ctx).Create(coupon).Error
	if err != nil {
		// A concurrent writer may have stored the same fingerprint
		// between our lookup and this insert. The unique index is the
		// authority, so hand back the winning row.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.FindByFingerprint(ctx, coupon.Fingerprint)
		}
		return nil, oops.With("fingerprint", coupon.Fingerprint, "context", "failed to store coupon").Wrap(err)
	}

	return coupon, nil
}
