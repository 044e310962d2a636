// ABOUTME: Demo driver swapping a playlist while a stream is live
// ABOUTME: Start/stop of the stream is scoped so the stop runs exactly once
package demo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Resonate-Protocol/obsctl/internal/control"
	"github.com/Resonate-Protocol/obsctl/internal/scenario"
	"github.com/Resonate-Protocol/obsctl/pkg/obsws"
	"go.uber.org/zap"
)

var separator = strings.Repeat("-", 100)

// OBS is the part of the control facade the demo uses
type OBS interface {
	GetStreamServiceSettings() (control.StreamService, error)
	SetStreamServiceSettings(svc control.StreamService) error
	StartStream() error
	StopStream() error
	GetInputSettings(name string) (control.InputSettings, string, error)
	SetInputSettings(name string, settings control.InputSettings, overlay bool) error
}

// Config holds driver configuration
type Config struct {
	Scenario scenario.Scenario

	// Out receives progress lines and JSON dumps (default: os.Stdout)
	Out io.Writer

	// Logger receives structured logs (default: no-op)
	Logger *zap.Logger

	// OnStateChange is called on every transition
	OnStateChange func(State)
}

// Driver runs one demo scenario against OBS
type Driver struct {
	obs    OBS
	config Config
	log    *zap.Logger
	out    io.Writer

	mu    sync.RWMutex
	state State
}

// New creates a driver in the Idle state
func New(obs OBS, config Config) *Driver {
	if config.Out == nil {
		config.Out = os.Stdout
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &Driver{
		obs:    obs,
		config: config,
		log:    config.Logger,
		out:    config.Out,
		state:  StateIdle,
	}
}

// State returns the current state
func (d *Driver) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

func (d *Driver) setState(s State) {
	d.mu.Lock()
	prev := d.state
	d.state = s
	d.mu.Unlock()

	d.log.Debug("state change", zap.Stringer("from", prev), zap.Stringer("to", s))
	if d.config.OnStateChange != nil {
		d.config.OnStateChange(s)
	}
}

// Run executes the scenario. Whatever happens after the scenario validates,
// the stream is stopped exactly once before Run returns.
func (d *Driver) Run(ctx context.Context) (err error) {
	sc := d.config.Scenario
	settings, err := sc.Playlist()
	if err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}

	defer func() {
		if err != nil {
			d.log.Error("demo failed", zap.Stringer("state", d.State()), zap.Error(err))
			d.printf("Demo failed: %v\n", err)
		}
		err = errors.Join(err, d.stopStream())
		d.setState(StateStopped)
	}()

	d.setState(StateFetchDestination)
	if sc.Destination != nil {
		if err := d.obs.SetStreamServiceSettings(destination(sc.Destination)); err != nil {
			return fmt.Errorf("set stream destination: %w", err)
		}
	}
	svc, err := d.obs.GetStreamServiceSettings()
	if err != nil {
		return fmt.Errorf("get stream destination: %w", err)
	}
	d.printf("%s\n", svc.Type)
	d.printJSON(svc.Settings)

	d.printf("Live Stream is Starting\n")
	if err := d.obs.StartStream(); err != nil {
		return fmt.Errorf("start stream: %w", err)
	}
	d.setState(StateStreaming)

	d.printf("%s\nGET Input Settings:\n", separator)
	d.setState(StateReadSettings)
	current, kind, err := d.obs.GetInputSettings(sc.Input)
	if err != nil {
		return fmt.Errorf("get input settings: %w", err)
	}
	d.printf("Input Kind: %s\nInput Setting:\n", kind)
	d.printJSON(current)

	if err := wait(ctx, sc.Settle); err != nil {
		return err
	}

	d.printf("%s\nSET Input Settings:\n", separator)
	d.setState(StateApplySettings)
	payload := settings.InputSettings()
	d.printJSON(payload)
	if err := d.obs.SetInputSettings(sc.Input, payload, true); err != nil {
		return fmt.Errorf("set input settings: %w", err)
	}
	d.log.Info("playlist applied",
		zap.String("input", sc.Input),
		zap.Int("entries", len(settings.Playlist)),
		zap.Int("active", settings.Active()))

	d.setState(StateWaiting)
	return wait(ctx, sc.Hold)
}

// stopStream stops the output; an output that is already stopped is fine
func (d *Driver) stopStream() error {
	err := d.obs.StopStream()
	if obsws.IsRemoteCode(err, obsws.StatusOutputNotRunning) {
		d.log.Info("stream was not running")
		err = nil
	}
	if err != nil {
		return fmt.Errorf("stop stream: %w", err)
	}
	d.printf("Live Stream Stopped\n")
	return nil
}

// wait blocks for d or until ctx is done
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func destination(dst *scenario.Destination) control.StreamService {
	return control.StreamService{
		Type: dst.Type,
		Settings: control.StreamServiceSettings{
			Server:   dst.Server,
			Key:      dst.Key,
			Protocol: dst.Protocol,
			Service:  dst.Service,
			Bwtest:   dst.Bwtest,
		},
	}
}

func (d *Driver) printf(format string, args ...any) {
	fmt.Fprintf(d.out, format, args...)
}

// printJSON dumps v indented by three spaces
func (d *Driver) printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "   ")
	if err != nil {
		d.log.Warn("failed to encode JSON dump", zap.Error(err))
		return
	}
	d.printf("%s\n", data)
}
