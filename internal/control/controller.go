// ABOUTME: Thin RPC facade over an obs-websocket session
// ABOUTME: One method per remote capability, reshaping arguments into request payloads
package control

import (
	"go.uber.org/zap"
)

// Caller carries one request over an open session.
// *obsws.Client satisfies it; tests substitute their own.
type Caller interface {
	Call(requestType string, data, out any) error
}

// Controller exposes OBS operations over an injected session
type Controller struct {
	session Caller
	log     *zap.Logger
}

// New creates a controller on an already connected session
func New(session Caller, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{session: session, log: log}
}

// GetVersion returns the OBS and obs-websocket versions
func (c *Controller) GetVersion() (VersionInfo, error) {
	var v VersionInfo
	err := c.session.Call("GetVersion", nil, &v)
	return v, err
}

// ListInputs returns all inputs, filtered server-side when kind is non-empty
func (c *Controller) ListInputs(kind string) ([]Input, error) {
	var data any
	if kind != "" {
		data = map[string]any{"inputKind": kind}
	}

	var resp struct {
		Inputs []Input `json:"inputs"`
	}
	if err := c.session.Call("GetInputList", data, &resp); err != nil {
		return nil, err
	}
	return resp.Inputs, nil
}

// GetInputSettings returns an input's settings and kind
func (c *Controller) GetInputSettings(name string) (InputSettings, string, error) {
	var resp struct {
		InputSettings InputSettings `json:"inputSettings"`
		InputKind     string        `json:"inputKind"`
	}
	if err := c.session.Call("GetInputSettings", map[string]any{"inputName": name}, &resp); err != nil {
		return nil, "", err
	}
	return resp.InputSettings, resp.InputKind, nil
}

// GetInputDefaultSettings returns the defaults of an input kind
func (c *Controller) GetInputDefaultSettings(kind string) (InputSettings, error) {
	var resp struct {
		DefaultInputSettings InputSettings `json:"defaultInputSettings"`
	}
	if err := c.session.Call("GetInputDefaultSettings", map[string]any{"inputKind": kind}, &resp); err != nil {
		return nil, err
	}
	return resp.DefaultInputSettings, nil
}

// SetInputSettings writes settings to an input. With overlay the settings are
// merged over the current ones, otherwise the input is reset to its kind
// defaults first.
func (c *Controller) SetInputSettings(name string, settings InputSettings, overlay bool) error {
	c.log.Debug("set input settings", zap.String("input", name), zap.Bool("overlay", overlay), zap.Int("keys", len(settings)))
	return c.session.Call("SetInputSettings", map[string]any{
		"inputName":     name,
		"inputSettings": settings,
		"overlay":       overlay,
	}, nil)
}

// GetStreamServiceSettings returns the current stream destination
func (c *Controller) GetStreamServiceSettings() (StreamService, error) {
	var svc StreamService
	err := c.session.Call("GetStreamServiceSettings", nil, &svc)
	return svc, err
}

// SetStreamServiceSettings replaces the stream destination
func (c *Controller) SetStreamServiceSettings(svc StreamService) error {
	c.log.Debug("set stream service", zap.String("type", svc.Type), zap.String("server", svc.Settings.Server))
	return c.session.Call("SetStreamServiceSettings", svc, nil)
}

// StartStream starts the stream output
func (c *Controller) StartStream() error {
	return c.session.Call("StartStream", nil, nil)
}

// StopStream stops the stream output
func (c *Controller) StopStream() error {
	return c.session.Call("StopStream", nil, nil)
}

// ToggleStream flips the stream output and returns whether it is now active
func (c *Controller) ToggleStream() (bool, error) {
	var resp struct {
		OutputActive bool `json:"outputActive"`
	}
	if err := c.session.Call("ToggleStream", nil, &resp); err != nil {
		return false, err
	}
	return resp.OutputActive, nil
}

// GetStreamStatus returns the state of the stream output
func (c *Controller) GetStreamStatus() (StreamStatus, error) {
	var status StreamStatus
	err := c.session.Call("GetStreamStatus", nil, &status)
	return status, err
}
