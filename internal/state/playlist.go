package state

import (
	"playhead/api"
)

// SetPlaylist replaces the playlist wholesale. Selection resets to the
// first track (or none when empty), the shuffle order is rebuilt when
// shuffle is on, and the handles of tracks that do not survive the
// replacement are released. A playlist-update event always fires.
func (s *Store) SetPlaylist(tracks []api.Track) {
	s.mu.Lock()

	kept := make(map[string]bool, len(tracks))
	for _, t := range tracks {
		kept[t.ID] = true
	}
	for _, t := range s.state.Playlist {
		if !kept[t.ID] {
			s.release(t)
		}
	}

	s.state.Playlist = make([]api.Track, len(tracks))
	copy(s.state.Playlist, tracks)
	if len(tracks) > 0 {
		s.state.CurrentIndex = 0
	} else {
		s.state.CurrentIndex = -1
	}
	if s.state.Shuffle {
		s.state.ShuffleOrder = s.shuffleOrderLocked()
	} else {
		s.state.ShuffleOrder = nil
	}

	update := s.playlistUpdateLocked()
	s.mu.Unlock()

	s.bus.Publish(api.TopicPlaylistUpdate, update)
}

// AddTracks appends tracks by replaying the whole list through
// SetPlaylist. The selection resets to index 0 even when a track is
// already playing.
func (s *Store) AddTracks(tracks []api.Track) {
	s.mu.RLock()
	combined := make([]api.Track, 0, len(s.state.Playlist)+len(tracks))
	combined = append(combined, s.state.Playlist...)
	combined = append(combined, tracks...)
	s.mu.RUnlock()

	s.SetPlaylist(combined)
}

// RemoveTrack removes the entry at index, releasing its handle. The
// current selection is decremented when a prior entry is removed and
// clamped when the current entry itself is removed. Out-of-range
// indices are ignored.
func (s *Store) RemoveTrack(index int) {
	s.mu.Lock()

	n := len(s.state.Playlist)
	if index < 0 || index >= n {
		s.mu.Unlock()
		return
	}

	removed := s.state.Playlist[index]
	playlist := make([]api.Track, 0, n-1)
	playlist = append(playlist, s.state.Playlist[:index]...)
	playlist = append(playlist, s.state.Playlist[index+1:]...)
	s.state.Playlist = playlist
	s.release(removed)

	switch {
	case len(playlist) == 0:
		s.state.CurrentIndex = -1
	case index < s.state.CurrentIndex:
		s.state.CurrentIndex--
	case s.state.CurrentIndex >= len(playlist):
		s.state.CurrentIndex = len(playlist) - 1
	}

	// Keep the shuffle order a permutation of the remaining indices
	if len(s.state.ShuffleOrder) > 0 {
		order := make([]int, 0, len(s.state.ShuffleOrder)-1)
		for _, idx := range s.state.ShuffleOrder {
			if idx == index {
				continue
			}
			if idx > index {
				idx--
			}
			order = append(order, idx)
		}
		if len(order) == 0 {
			order = nil
		}
		s.state.ShuffleOrder = order
	}

	update := s.playlistUpdateLocked()
	s.mu.Unlock()

	s.bus.Publish(api.TopicPlaylistUpdate, update)
}

// SetCurrentTrack selects the track at index and fires a track-change
// event. Out-of-range indices are a silent no-op.
func (s *Store) SetCurrentTrack(index int) {
	s.mu.Lock()

	if index < 0 || index >= len(s.state.Playlist) {
		s.mu.Unlock()
		return
	}
	s.state.CurrentIndex = index
	track := s.state.Playlist[index]
	s.mu.Unlock()

	s.bus.Publish(api.TopicTrackChange, api.TrackChange{Track: track, Index: index})
}

// CurrentIndex returns the selected playlist index, -1 when none
func (s *Store) CurrentIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CurrentIndex
}

// CurrentTrack returns a copy of the selected track, or nil
func (s *Store) CurrentTrack() *api.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.CurrentIndex < 0 || s.state.CurrentIndex >= len(s.state.Playlist) {
		return nil
	}
	track := s.state.Playlist[s.state.CurrentIndex]
	return &track
}

// NextTrackIndex resolves the index playback should advance to, or -1
// when the playlist is exhausted. Repeat-one pins the current index.
// Under shuffle the order list is walked; it wraps only when repeating
// all. Sequential mode walks forward with the same wrap rule.
func (s *Store) NextTrackIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := &s.state
	if len(st.Playlist) == 0 {
		return -1
	}
	if st.Repeat == api.RepeatOne {
		return st.CurrentIndex
	}

	if st.Shuffle && len(st.ShuffleOrder) > 0 {
		pos := indexOf(st.ShuffleOrder, st.CurrentIndex)
		if pos+1 < len(st.ShuffleOrder) {
			return st.ShuffleOrder[pos+1]
		}
		if st.Repeat == api.RepeatAll {
			return st.ShuffleOrder[0]
		}
		return -1
	}

	if st.CurrentIndex+1 < len(st.Playlist) {
		return st.CurrentIndex + 1
	}
	if st.Repeat == api.RepeatAll {
		return 0
	}
	return -1
}

// PreviousTrackIndex resolves the index playback should step back to,
// or -1. Under shuffle it always wraps to the last position of the
// order, regardless of repeat mode; sequential mode wraps only when
// repeating all.
func (s *Store) PreviousTrackIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := &s.state
	if len(st.Playlist) == 0 {
		return -1
	}
	if st.Repeat == api.RepeatOne {
		return st.CurrentIndex
	}

	if st.Shuffle && len(st.ShuffleOrder) > 0 {
		pos := indexOf(st.ShuffleOrder, st.CurrentIndex)
		if pos > 0 {
			return st.ShuffleOrder[pos-1]
		}
		return st.ShuffleOrder[len(st.ShuffleOrder)-1]
	}

	if st.CurrentIndex-1 >= 0 {
		return st.CurrentIndex - 1
	}
	if st.Repeat == api.RepeatAll {
		return len(st.Playlist) - 1
	}
	return -1
}

// ToggleShuffle enables or disables shuffle. Enabling builds a fresh
// permutation with the current track first, so playback continues
// uninterrupted; disabling clears the order.
func (s *Store) ToggleShuffle() {
	s.mu.Lock()

	s.state.Shuffle = !s.state.Shuffle
	if s.state.Shuffle {
		s.state.ShuffleOrder = s.shuffleOrderLocked()
	} else {
		s.state.ShuffleOrder = nil
	}

	toggle := api.ShuffleToggle{Enabled: s.state.Shuffle}
	if s.state.ShuffleOrder != nil {
		toggle.Order = make([]int, len(s.state.ShuffleOrder))
		copy(toggle.Order, s.state.ShuffleOrder)
	}
	s.mu.Unlock()

	s.bus.Publish(api.TopicShuffleToggle, toggle)
}

// CycleRepeatMode rotates off -> all -> one -> off
func (s *Store) CycleRepeatMode() {
	s.mu.Lock()

	switch s.state.Repeat {
	case api.RepeatOff:
		s.state.Repeat = api.RepeatAll
	case api.RepeatAll:
		s.state.Repeat = api.RepeatOne
	default:
		s.state.Repeat = api.RepeatOff
	}
	mode := s.state.Repeat
	s.mu.Unlock()

	s.bus.Publish(api.TopicRepeatChange, api.RepeatChange{Mode: mode})
}

// Close releases every handle still owned by the playlist
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.state.Playlist {
		s.release(t)
	}
	s.state.Playlist = nil
	s.state.ShuffleOrder = nil
	s.state.CurrentIndex = -1
}

// shuffleOrderLocked builds a permutation of playlist indices with
// the current index first and the rest Fisher-Yates shuffled. Must be
// called with the lock held.
func (s *Store) shuffleOrderLocked() []int {
	n := len(s.state.Playlist)
	if n == 0 {
		return nil
	}

	cur := s.state.CurrentIndex
	rest := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if i != cur {
			rest = append(rest, i)
		}
	}
	for i := len(rest) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		rest[i], rest[j] = rest[j], rest[i]
	}

	if cur >= 0 && cur < n {
		return append([]int{cur}, rest...)
	}
	return rest
}

// playlistUpdateLocked snapshots the playlist event payload. Must be
// called with the lock held.
func (s *Store) playlistUpdateLocked() api.PlaylistUpdate {
	tracks := make([]api.Track, len(s.state.Playlist))
	copy(tracks, s.state.Playlist)
	return api.PlaylistUpdate{Tracks: tracks, Index: s.state.CurrentIndex}
}

// release frees a track's resource handle; errors are logged, never
// surfaced. Each track leaves the playlist exactly once, so each
// handle is released exactly once.
func (s *Store) release(t api.Track) {
	if t.Handle == nil {
		return
	}
	if err := t.Handle.Release(); err != nil {
		s.logger.Warn("release track handle", "track", t.ID, "err", err)
	}
}

// indexOf returns the position of v in order, -1 when absent
func indexOf(order []int, v int) int {
	for i, o := range order {
		if o == v {
			return i
		}
	}
	return -1
}
