// ABOUTME: Demo scenario configuration loaded from YAML
// ABOUTME: Defaults reproduce the built-in playlist swap demo
package scenario

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Resonate-Protocol/obsctl/internal/playlist"
	"gopkg.in/yaml.v3"
)

const (
	DefaultInput  = "mySource"
	DefaultSettle = 10 * time.Second
	DefaultHold   = 30 * time.Second
)

// DefaultMedia is the three-clip playlist of the built-in demo
var DefaultMedia = []string{
	"C:/Users/NHAN/OneDrive/Desktop/workspace/CMS/mp4_videos/bird.mp4",
	"C:/Users/NHAN/OneDrive/Desktop/workspace/CMS/mp4_videos/ship.mp4",
	"C:/Users/NHAN/OneDrive/Desktop/workspace/CMS/mp4_videos/horse.mp4",
}

// Scenario describes one playlist swap run
type Scenario struct {
	// Input is the name of the playlist input to rewrite
	Input string `yaml:"input"`

	// Media lists playlist entries in order
	Media []string `yaml:"media"`

	// Active is the index of the entry to select
	Active int `yaml:"active"`

	PlaybackBehavior string `yaml:"playback_behavior"`
	Shuffle          bool   `yaml:"shuffle"`

	// Settle is waited between reading and applying settings
	Settle time.Duration `yaml:"settle"`

	// Hold is waited after applying settings, before the stream stops
	Hold time.Duration `yaml:"hold"`

	// Destination, when set, is applied before the stream starts
	Destination *Destination `yaml:"destination,omitempty"`
}

// Destination is a stream service to push to
type Destination struct {
	Type     string `yaml:"type"`
	Server   string `yaml:"server"`
	Key      string `yaml:"key"`
	Protocol string `yaml:"protocol"`
	Service  string `yaml:"service"`
	Bwtest   bool   `yaml:"bwtest"`
}

// Default returns the built-in demo scenario
func Default() Scenario {
	return Scenario{
		Input:            DefaultInput,
		Media:            append([]string(nil), DefaultMedia...),
		Active:           0,
		PlaybackBehavior: playlist.BehaviorStopRestart,
		Settle:           DefaultSettle,
		Hold:             DefaultHold,
	}
}

// Load reads a scenario file; fields it leaves out keep their defaults
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scenario document over the defaults
func Parse(data []byte) (Scenario, error) {
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// Validate checks the scenario can be turned into a playlist and run
func (s Scenario) Validate() error {
	if s.Input == "" {
		return errors.New("scenario: input name is required")
	}
	if s.Settle < 0 || s.Hold < 0 {
		return errors.New("scenario: waits must not be negative")
	}
	if s.Destination != nil && s.Destination.Type == "" {
		return errors.New("scenario: destination type is required")
	}
	_, err := s.Playlist()
	return err
}

// Playlist builds the input settings this scenario applies
func (s Scenario) Playlist() (playlist.Settings, error) {
	return playlist.BuildWithOptions(s.Media, s.Active, playlist.Options{
		PlaybackBehavior: s.PlaybackBehavior,
		Shuffle:          s.Shuffle,
	})
}
