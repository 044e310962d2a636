// ABOUTME: One-shot query and stream commands for obsctl
// ABOUTME: Each prints its result and returns a process exit code
package main

import (
	"encoding/json"
	"fmt"

	"github.com/Resonate-Protocol/obsctl/internal/control"
	"github.com/Resonate-Protocol/obsctl/internal/playlist"
	"go.uber.org/zap"
)

func printInputs(ctrl *control.Controller, log *zap.Logger) int {
	inputs, err := ctrl.ListInputs("")
	if err != nil {
		log.Error("input list failed", zap.Error(err))
		return 1
	}
	for _, in := range inputs {
		fmt.Printf("%-30s %s\n", in.Name, in.Kind)
	}
	return 0
}

func printStatus(ctrl *control.Controller, log *zap.Logger) int {
	status, err := ctrl.GetStreamStatus()
	if err != nil {
		log.Error("stream status failed", zap.Error(err))
		return 1
	}
	state := "idle"
	if status.Active {
		state = "live"
	}
	fmt.Printf("Stream: %s %s (%d bytes)\n", state, status.Timecode, status.Bytes)
	return 0
}

func toggleStream(ctrl *control.Controller, log *zap.Logger) int {
	active, err := ctrl.ToggleStream()
	if err != nil {
		log.Error("stream toggle failed", zap.Error(err))
		return 1
	}
	if active {
		fmt.Println("Live Stream Started")
	} else {
		fmt.Println("Live Stream Stopped")
	}
	return 0
}

// printDefaults dumps the default settings of an input kind
func printDefaults(ctrl *control.Controller, kind string, log *zap.Logger) int {
	defaults, err := ctrl.GetInputDefaultSettings(kind)
	if err != nil {
		log.Error("default settings failed", zap.String("kind", kind), zap.Error(err))
		return 1
	}
	data, err := json.MarshalIndent(defaults, "", "   ")
	if err != nil {
		log.Error("failed to encode defaults", zap.Error(err))
		return 1
	}
	fmt.Println(string(data))
	return 0
}

// printPlaylist reads an input's playlist back and marks the selected entry
func printPlaylist(ctrl *control.Controller, input string, log *zap.Logger) int {
	settings, kind, err := ctrl.GetInputSettings(input)
	if err != nil {
		log.Error("input settings failed", zap.String("input", input), zap.Error(err))
		return 1
	}
	pl, err := playlist.Decode(settings)
	if err != nil {
		log.Error("input has no playlist", zap.String("input", input), zap.String("kind", kind), zap.Error(err))
		return 1
	}

	fmt.Printf("%s (%s) %s shuffle=%t\n", input, kind, pl.PlaybackBehavior, pl.Shuffle)
	for i, item := range pl.Playlist {
		mark := " "
		if item.Selected {
			mark = "*"
		}
		fmt.Printf("%s %d %s\n", mark, i, item.Value)
	}
	return 0
}
