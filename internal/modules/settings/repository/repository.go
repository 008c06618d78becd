package repository

import (
	"github.com/rdl-tech/coupon-radar/internal/modules/settings/domain"
)

// Repository persists the collector settings record
type Repository interface {
	// Get returns the stored settings, or a zero-value record when
	// nothing has been saved yet
	Get() (*domain.CollectorSettings, error)
	// Save overwrites the settings record
	Save(settings *domain.CollectorSettings) error
}
