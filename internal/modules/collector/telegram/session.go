package telegram

import (
	"os"
	"path/filepath"

	"github.com/gotd/td/session"
	"github.com/samber/oops"
)

// FileSession stores the MTProto session blob on disk and can wipe it
// when the session is judged corrupt.
type FileSession struct {
	session.FileStorage
}

// NewFileSession creates the session store at path
func NewFileSession(path string) (*FileSession, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, oops.With("path", path, "context", "failed to create session directory").Wrap(err)
	}

	return &FileSession{FileStorage: session.FileStorage{Path: path}}, nil
}

// Reset discards the stored session blob. The next connect starts from
// a clean, unauthenticated state.
func (s *FileSession) Reset() error {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return oops.With("path", s.Path, "context", "failed to remove session file").Wrap(err)
	}
	return nil
}
