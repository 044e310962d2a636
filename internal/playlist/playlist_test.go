// ABOUTME: Tests for the playlist settings builder
// ABOUTME: Tests selection, ordering, policy fields and decoding
package playlist

import (
	"errors"
	"fmt"
	"testing"
)

func TestBuildSelectsOnlyActive(t *testing.T) {
	paths := []string{"bird.mp4", "ship.mp4", "horse.mp4", "meeting_1.mp4"}

	for active := range paths {
		t.Run(fmt.Sprintf("active=%d", active), func(t *testing.T) {
			s, err := Build(paths, active)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(s.Playlist) != len(paths) {
				t.Fatalf("expected %d entries, got %d", len(paths), len(s.Playlist))
			}

			selected := 0
			for i, item := range s.Playlist {
				if item.Value != paths[i] {
					t.Errorf("entry %d: expected value %s, got %s", i, paths[i], item.Value)
				}
				if item.Hidden {
					t.Errorf("entry %d should not be hidden", i)
				}
				if item.Selected {
					selected++
					if i != active {
						t.Errorf("entry %d selected, expected %d", i, active)
					}
				}
			}
			if selected != 1 {
				t.Errorf("expected exactly one selected entry, got %d", selected)
			}
			if s.Active() != active {
				t.Errorf("expected Active()=%d, got %d", active, s.Active())
			}
		})
	}
}

func TestBuildPolicyDefaults(t *testing.T) {
	s, err := Build([]string{"bird.mp4"}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.PlaybackBehavior != BehaviorStopRestart {
		t.Errorf("expected playback behavior %s, got %s", BehaviorStopRestart, s.PlaybackBehavior)
	}
	if s.Shuffle {
		t.Error("expected shuffle off")
	}
}

func TestBuildWithOptions(t *testing.T) {
	s, err := BuildWithOptions([]string{"a.mp4", "b.mp4"}, 1, Options{
		PlaybackBehavior: BehaviorAlwaysPlay,
		Shuffle:          true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.PlaybackBehavior != BehaviorAlwaysPlay {
		t.Errorf("expected %s, got %s", BehaviorAlwaysPlay, s.PlaybackBehavior)
	}
	if !s.Shuffle {
		t.Error("expected shuffle on")
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		paths  []string
		active int
		want   error
	}{
		{name: "no paths", paths: nil, active: 0, want: ErrEmptyPlaylist},
		{name: "negative index", paths: []string{"a.mp4"}, active: -1, want: ErrActiveOutOfRange},
		{name: "index past end", paths: []string{"a.mp4", "b.mp4"}, active: 2, want: ErrActiveOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.paths, tt.active)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestInputSettingsShape(t *testing.T) {
	s, _ := Build([]string{"bird.mp4", "ship.mp4"}, 0)
	m := s.InputSettings()

	if m["playback_behavior"] != BehaviorStopRestart {
		t.Errorf("unexpected playback_behavior: %v", m["playback_behavior"])
	}
	if m["shuffle"] != false {
		t.Errorf("unexpected shuffle: %v", m["shuffle"])
	}

	items, ok := m["playlist"].([]any)
	if !ok {
		t.Fatalf("playlist should be []any, got %T", m["playlist"])
	}
	first, ok := items[0].(map[string]any)
	if !ok {
		t.Fatalf("entries should be maps, got %T", items[0])
	}
	if first["value"] != "bird.mp4" || first["selected"] != true || first["hidden"] != false {
		t.Errorf("unexpected first entry: %v", first)
	}
}

func TestDecodeIgnoresOtherKeys(t *testing.T) {
	in := map[string]any{
		"loop":              true,
		"network_caching":   400,
		"playback_behavior": "pause_unpause",
		"shuffle":           true,
		"playlist": []any{
			map[string]any{"hidden": false, "selected": false, "value": "a.mp4"},
			map[string]any{"hidden": true, "selected": true, "value": "b.mp4"},
		},
	}

	s, err := Decode(in)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if s.PlaybackBehavior != BehaviorPauseUnpause || !s.Shuffle {
		t.Errorf("unexpected policy fields: %+v", s)
	}
	if len(s.Playlist) != 2 || s.Playlist[1].Value != "b.mp4" || !s.Playlist[1].Hidden {
		t.Errorf("unexpected playlist: %+v", s.Playlist)
	}
	if s.Active() != 1 {
		t.Errorf("expected active 1, got %d", s.Active())
	}
}

func TestDecodeRejectsBadShape(t *testing.T) {
	_, err := Decode(map[string]any{"playlist": "not a list"})
	if err == nil {
		t.Error("expected error for non-list playlist")
	}
}
