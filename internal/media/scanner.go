package media

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"

	"playhead/api"
	playerrors "playhead/pkg/errors"
)

// Scanner walks directories concurrently and loads every playable
// file it finds
type Scanner struct {
	workers int
	loader  *Loader
}

// NewScanner creates a scanner with the given worker count
func NewScanner(workers int) *Scanner {
	if workers <= 0 {
		workers = 4
	}
	return &Scanner{
		workers: workers,
		loader:  NewLoader(),
	}
}

// Scan walks paths and returns channels of loaded tracks and scan
// errors. Both channels close when the walk finishes or ctx is
// canceled.
func (s *Scanner) Scan(ctx context.Context, paths []string) (<-chan *api.Track, <-chan error) {
	tracks := make(chan *api.Track, 100)
	errs := make(chan error, 10)
	files := make(chan string, 100)

	var wg sync.WaitGroup

	go func() {
		defer close(files)
		for _, path := range paths {
			select {
			case <-ctx.Done():
				return
			default:
			}

			err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					select {
					case errs <- &playerrors.ScanError{Path: p, Err: err}:
					default:
					}
					return nil
				}

				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				if !d.IsDir() && Playable(p) {
					select {
					case files <- p:
					case <-ctx.Done():
						return ctx.Err()
					}
				}
				return nil
			})

			if err != nil && err != context.Canceled {
				select {
				case errs <- &playerrors.ScanError{Path: path, Err: err}:
				default:
				}
			}
		}
	}()

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range files {
				select {
				case <-ctx.Done():
					return
				default:
				}

				track, err := s.loader.Load(path)
				if err != nil {
					select {
					case errs <- &playerrors.ScanError{Path: path, Err: err}:
					default:
					}
					continue
				}

				select {
				case tracks <- track:
				case <-ctx.Done():
					track.Handle.Release()
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(tracks)
		close(errs)
	}()

	return tracks, errs
}

// ScanFile loads a single file as a track
func (s *Scanner) ScanFile(path string) (*api.Track, error) {
	if !Playable(path) {
		return nil, playerrors.ErrInvalidFormat
	}
	return s.loader.Load(path)
}
