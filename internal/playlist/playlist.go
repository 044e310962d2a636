// ABOUTME: Playlist settings builder for VLC media-playlist inputs
// ABOUTME: Turns media paths and an active index into the input settings payload
package playlist

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// BehaviorStopRestart stops when hidden and restarts when shown
	BehaviorStopRestart = "stop_restart"

	// BehaviorPauseUnpause pauses when hidden and resumes when shown
	BehaviorPauseUnpause = "pause_unpause"

	// BehaviorAlwaysPlay keeps playing regardless of visibility
	BehaviorAlwaysPlay = "always_play"
)

var (
	// ErrEmptyPlaylist is returned when no media paths are given
	ErrEmptyPlaylist = errors.New("playlist: no media paths")

	// ErrActiveOutOfRange is returned when the active index is not a playlist position
	ErrActiveOutOfRange = errors.New("playlist: active index out of range")
)

// Item is one playlist entry
type Item struct {
	Hidden   bool   `json:"hidden"`
	Selected bool   `json:"selected"`
	Value    string `json:"value"`
}

// Settings is the settings payload of a VLC playlist input
type Settings struct {
	PlaybackBehavior string `json:"playback_behavior"`
	Playlist         []Item `json:"playlist"`
	Shuffle          bool   `json:"shuffle"`
}

// Options tunes the fixed policy fields
type Options struct {
	PlaybackBehavior string
	Shuffle          bool
}

// Build creates settings with stop_restart playback and shuffle off
func Build(paths []string, active int) (Settings, error) {
	return BuildWithOptions(paths, active, Options{})
}

// BuildWithOptions creates settings with one entry per path, in order,
// only the active entry selected and no entry hidden
func BuildWithOptions(paths []string, active int, opts Options) (Settings, error) {
	if len(paths) == 0 {
		return Settings{}, ErrEmptyPlaylist
	}
	if active < 0 || active >= len(paths) {
		return Settings{}, fmt.Errorf("%w: %d not in [0, %d)", ErrActiveOutOfRange, active, len(paths))
	}

	behavior := opts.PlaybackBehavior
	if behavior == "" {
		behavior = BehaviorStopRestart
	}

	items := make([]Item, len(paths))
	for i, p := range paths {
		items[i] = Item{Hidden: false, Selected: i == active, Value: p}
	}

	return Settings{
		PlaybackBehavior: behavior,
		Playlist:         items,
		Shuffle:          opts.Shuffle,
	}, nil
}

// Active returns the index of the first selected entry, or -1
func (s Settings) Active() int {
	for i, item := range s.Playlist {
		if item.Selected {
			return i
		}
	}
	return -1
}

// InputSettings converts the settings into the generic map sent on the wire
func (s Settings) InputSettings() map[string]any {
	items := make([]any, len(s.Playlist))
	for i, item := range s.Playlist {
		items[i] = map[string]any{
			"hidden":   item.Hidden,
			"selected": item.Selected,
			"value":    item.Value,
		}
	}
	return map[string]any{
		"playback_behavior": s.PlaybackBehavior,
		"playlist":          items,
		"shuffle":           s.Shuffle,
	}
}

// Decode reads playlist settings back out of a generic settings map.
// Keys unrelated to the playlist are ignored.
func Decode(settings map[string]any) (Settings, error) {
	raw, err := json.Marshal(settings)
	if err != nil {
		return Settings{}, fmt.Errorf("playlist: encode settings: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return Settings{}, fmt.Errorf("playlist: decode settings: %w", err)
	}
	return s, nil
}
