// ABOUTME: Typed values returned by the OBS control facade
// ABOUTME: Inputs, settings maps, stream destination and status
package control

// InputSettings maps settings keys to values for one input kind
type InputSettings map[string]any

// Input is a named configurable element inside OBS
type Input struct {
	Name            string `json:"inputName"`
	UUID            string `json:"inputUuid"`
	Kind            string `json:"inputKind"`
	UnversionedKind string `json:"unversionedInputKind"`
}

// VersionInfo describes the running OBS instance
type VersionInfo struct {
	ObsVersion          string   `json:"obsVersion"`
	ObsWebSocketVersion string   `json:"obsWebSocketVersion"`
	RPCVersion          int      `json:"rpcVersion"`
	AvailableRequests   []string `json:"availableRequests"`
	Platform            string   `json:"platform"`
	PlatformDescription string   `json:"platformDescription"`
}

// StreamServiceSettings is the destination the stream output pushes to
type StreamServiceSettings struct {
	Server   string `json:"server"`
	Key      string `json:"key"`
	Protocol string `json:"protocol"`
	Service  string `json:"service"`
	Bwtest   bool   `json:"bwtest"`
}

// StreamService pairs a service type (rtmp_custom, rtmp_common) with its settings
type StreamService struct {
	Type     string                `json:"streamServiceType"`
	Settings StreamServiceSettings `json:"streamServiceSettings"`
}

// StreamStatus reports the state of the stream output
type StreamStatus struct {
	Active       bool   `json:"outputActive"`
	Reconnecting bool   `json:"outputReconnecting"`
	Timecode     string `json:"outputTimecode"`
	DurationMs   int64  `json:"outputDuration"`
	Bytes        int64  `json:"outputBytes"`
}
