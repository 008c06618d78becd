package repository

import (
	"github.com/rdl-tech/coupon-radar/internal/modules/channel/domain"
)

// Repository defines the interface for channel registry persistence
// This abstraction allows easy replacement of storage implementations
// (e.g., FileStorage -> PostgreSQL -> MongoDB)
type Repository interface {
	SaveChannel(channel *domain.Channel) error
	GetChannel(id string) (*domain.Channel, error)
	GetAllChannels() ([]*domain.Channel, error)
	GetActiveChannels() ([]*domain.Channel, error)
	DeleteChannel(id string) error
}
