package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rdl-tech/coupon-radar/internal/modules/settings/domain"
	"github.com/samber/oops"
)

// FileStorage implements settings.Repository using file system
type FileStorage struct {
	path string
	mu   sync.RWMutex
}

// NewFileStorage creates a new file-based settings repository
func NewFileStorage(basePath string) (Repository, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create settings directory").Wrap(err)
	}

	return &FileStorage{path: filepath.Join(basePath, "collector.json")}, nil
}

func (s *FileStorage) Get() (*domain.CollectorSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &domain.CollectorSettings{}, nil
		}
		return nil, oops.With("path", s.path, "context", "failed to read settings").Wrap(err)
	}

	var settings domain.CollectorSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, oops.With("path", s.path, "context", "failed to unmarshal settings").Wrap(err)
	}

	return &settings, nil
}

func (s *FileStorage) Save(settings *domain.CollectorSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return oops.With("path", s.path, "context", "failed to marshal settings").Wrap(err)
	}

	return os.WriteFile(s.path, data, 0644)
}
