package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"playhead/api"
)

func TestTypeFor(t *testing.T) {
	tests := []struct {
		path string
		want api.MediaType
	}{
		{"/music/song.mp3", api.MediaAudio},
		{"/music/song.MP3", api.MediaAudio},
		{"/music/song.flac", api.MediaAudio},
		{"/music/song.wav", api.MediaAudio},
		{"/movies/clip.mp4", api.MediaVideo},
		{"/movies/clip.mkv", api.MediaVideo},
		{"/movies/clip.webm", api.MediaVideo},
		{"/docs/readme.txt", api.MediaUnknown},
		{"/music/noext", api.MediaUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := TypeFor(tt.path); got != tt.want {
				t.Errorf("TypeFor(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestLoadUntaggedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "untitled.mp3")
	if err := os.WriteFile(path, []byte("not really audio"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	track, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer track.Handle.Release()

	if track.ID == "" {
		t.Error("expected a generated track ID")
	}
	if track.Title != "untitled.mp3" {
		t.Errorf("untagged file should use filename title, got %q", track.Title)
	}
	if track.Type != api.MediaAudio {
		t.Errorf("expected audio type, got %v", track.Type)
	}
	if track.Size != int64(len("not really audio")) {
		t.Errorf("unexpected size %d", track.Size)
	}
	if track.Handle == nil {
		t.Error("expected an attached resource handle")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "absent.mp3"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileHandleReleaseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.mp3")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	h, err := OpenFileHandle(path)
	if err != nil {
		t.Fatalf("OpenFileHandle: %v", err)
	}

	if err := h.Release(); err != nil {
		t.Fatalf("first Release: %v", err)
	}
	if err := h.Release(); err != nil {
		t.Errorf("second Release should be a no-op, got %v", err)
	}
}

func TestScanFindsPlayableFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.mp3", "b.flac", "notes.txt", "c.mp4"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	scanner := NewScanner(2)
	tracks, errs := scanner.Scan(context.Background(), []string{dir})

	var found []*api.Track
	for track := range tracks {
		found = append(found, track)
	}
	for range errs {
	}

	if len(found) != 3 {
		t.Fatalf("expected 3 playable files, got %d", len(found))
	}
	for _, track := range found {
		if track.Type == api.MediaUnknown {
			t.Errorf("scanner loaded an unplayable file: %s", track.Path)
		}
		track.Handle.Release()
	}
}

func TestScanFileRejectsUnknownFormat(t *testing.T) {
	if _, err := NewScanner(1).ScanFile("/tmp/readme.txt"); err == nil {
		t.Error("expected error for unplayable file")
	}
}
