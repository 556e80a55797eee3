package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/google/uuid"

	"playhead/api"
)

var audioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".webm": true,
	".mov":  true,
}

// TypeFor infers the media type from a file extension
func TypeFor(path string) api.MediaType {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case audioExtensions[ext]:
		return api.MediaAudio
	case videoExtensions[ext]:
		return api.MediaVideo
	default:
		return api.MediaUnknown
	}
}

// Playable reports whether the file can enter the playlist at all
func Playable(path string) bool {
	return TypeFor(path) != api.MediaUnknown
}

// Loader builds Track entries from local files
type Loader struct{}

// NewLoader creates a track loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads a file's metadata and returns a Track owning an open
// resource handle. The caller (normally the playlist) is responsible
// for releasing the handle.
func (l *Loader) Load(path string) (*api.Track, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat media file: %w", err)
	}

	handle, err := OpenFileHandle(path)
	if err != nil {
		return nil, err
	}

	track := &api.Track{
		ID:       uuid.NewString(),
		Title:    filepath.Base(path),
		Filename: filepath.Base(path),
		Path:     path,
		Type:     TypeFor(path),
		Size:     info.Size(),
		Handle:   handle,
	}

	// Tags are best-effort: untagged files keep the filename title
	meta, err := tag.ReadFrom(handle.file)
	if err == nil {
		if t := meta.Title(); t != "" {
			track.Title = t
		}
		track.Artist = meta.Artist()
		track.Album = meta.Album()
	}
	if _, err := handle.file.Seek(0, 0); err != nil {
		handle.Release()
		return nil, fmt.Errorf("rewind media file: %w", err)
	}

	return track, nil
}
