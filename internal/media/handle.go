package media

import (
	"fmt"
	"os"
	"sync"
)

// FileHandle pins an open descriptor for a playlist entry, standing in
// for the temporary blob reference a track carries. Release is
// idempotent: the playlist releases each handle exactly once, and a
// second call is a no-op.
type FileHandle struct {
	path string
	file *os.File
	once sync.Once
	err  error
}

// OpenFileHandle opens path and returns a handle pinning it
func OpenFileHandle(path string) (*FileHandle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open media file: %w", err)
	}
	return &FileHandle{path: path, file: f}, nil
}

// Path returns the file path behind the handle
func (h *FileHandle) Path() string {
	return h.path
}

// Release closes the pinned descriptor
func (h *FileHandle) Release() error {
	h.once.Do(func() {
		h.err = h.file.Close()
	})
	return h.err
}
