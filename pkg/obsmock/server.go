// ABOUTME: In-memory OBS emulator speaking obs-websocket v5
// ABOUTME: Answers input, stream-service and streaming requests for tests and local runs
package obsmock

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Resonate-Protocol/obsctl/pkg/obsws"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// ObsVersion is reported by GetVersion unless overridden
	ObsVersion = "30.2.0"

	// ObsWebSocketVersion is reported in Hello and GetVersion
	ObsWebSocketVersion = "5.5.0"

	// KindVLCSource is the VLC playlist input kind
	KindVLCSource = "vlc_source"

	// KindFFmpegSource is the single-file media input kind
	KindFFmpegSource = "ffmpeg_source"
)

// Config configures the emulator
type Config struct {
	// Password enables authentication when non-empty
	Password string

	// ObsVersion overrides the reported OBS version
	ObsVersion string

	// Logger receives emulator logs (default: no-op)
	Logger *zap.Logger
}

// Server emulates the subset of OBS used by the controller
type Server struct {
	config   Config
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu             sync.Mutex
	kindDefaults   map[string]map[string]any
	inputs         map[string]*input
	order          []string
	streamType     string
	streamSettings map[string]any
	streaming      bool
	streamStarted  time.Time
	requests       []string

	httpServer *http.Server
}

type input struct {
	uuid      string
	kind      string
	overrides map[string]any
}

// incomingRequest keeps requestData raw so each handler decodes its own shape
type incomingRequest struct {
	RequestType string          `json:"requestType"`
	RequestID   string          `json:"requestId"`
	RequestData json.RawMessage `json:"requestData,omitempty"`
}

// New creates an emulator with VLC and FFmpeg kind defaults and a custom RTMP destination
func New(config Config) *Server {
	if config.ObsVersion == "" {
		config.ObsVersion = ObsVersion
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &Server{
		config: config,
		log:    config.Logger,
		upgrader: websocket.Upgrader{
			Subprotocols: []string{Subprotocol},
			CheckOrigin:  func(r *http.Request) bool { return true },
		},
		kindDefaults: map[string]map[string]any{
			KindVLCSource: {
				"loop":              true,
				"shuffle":           false,
				"playback_behavior": "stop_restart",
				"network_caching":   400,
				"track":             1,
				"subtitle_enable":   false,
				"subtitle":          1,
			},
			KindFFmpegSource: {
				"is_local_file":       true,
				"looping":             false,
				"restart_on_activate": true,
				"buffering_mb":        2,
				"speed_percent":       100,
			},
		},
		inputs:     make(map[string]*input),
		streamType: "rtmp_custom",
		streamSettings: map[string]any{
			"server": "rtmp://localhost/live",
			"key":    "",
		},
	}
}

// AddInput registers an input with initial override settings
func (s *Server) AddInput(name, kind string, settings map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inputs[name]; !ok {
		s.order = append(s.order, name)
	}
	overrides := make(map[string]any, len(settings))
	for k, v := range settings {
		overrides[k] = v
	}
	s.inputs[name] = &input{uuid: uuid.NewString(), kind: kind, overrides: overrides}
}

// SetKindDefaults replaces the default settings of an input kind
func (s *Server) SetKindDefaults(kind string, defaults map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kindDefaults[kind] = defaults
}

// SetStreaming forces the streaming state
func (s *Server) SetStreaming(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streaming = active
	if active {
		s.streamStarted = time.Now()
	}
}

// Streaming reports whether the emulated stream output is active
func (s *Server) Streaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaming
}

// Requests returns every request type received, in order
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Count returns how many times a request type was received
func (s *Server) Count(requestType string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, r := range s.requests {
		if r == requestType {
			n++
		}
	}
	return n
}

// Start serves the emulator on addr until Stop is called
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/", s)

	s.mu.Lock()
	s.httpServer = &http.Server{Addr: addr, Handler: mux}
	srv := s.httpServer
	s.mu.Unlock()

	s.log.Info("emulator listening", zap.String("addr", addr), zap.Bool("auth", s.config.Password != ""))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop closes the listener started by Start
func (s *Server) Stop() {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv != nil {
		srv.Close()
	}
}

// ServeHTTP upgrades the request and runs one obs-websocket session
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if err := s.identify(conn); err != nil {
		s.log.Info("identify failed", zap.Error(err))
		return
	}

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Op != OpRequest {
			s.log.Warn("unexpected op", zap.Stringer("op", msg.Op))
			continue
		}

		var req incomingRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			s.log.Warn("bad request", zap.Error(err))
			continue
		}

		resp := s.handle(req)
		out, err := NewMessage(OpRequestResponse, resp)
		if err != nil {
			s.log.Error("encode response", zap.Error(err))
			return
		}
		if err := conn.WriteJSON(out); err != nil {
			return
		}
	}
}

// identify runs the Hello/Identify/Identified exchange
func (s *Server) identify(conn *websocket.Conn) error {
	hello := Hello{
		ObsWebSocketVersion: ObsWebSocketVersion,
		RPCVersion:          RPCVersion,
	}
	if s.config.Password != "" {
		hello.Authentication = &Authentication{
			Challenge: uuid.NewString(),
			Salt:      uuid.NewString(),
		}
	}

	msg, err := NewMessage(OpHello, hello)
	if err != nil {
		return err
	}
	if err := conn.WriteJSON(msg); err != nil {
		return err
	}

	if err := conn.ReadJSON(&msg); err != nil {
		return err
	}
	if msg.Op != OpIdentify {
		return fmt.Errorf("expected Identify, got %s", msg.Op)
	}

	var ident Identify
	if err := json.Unmarshal(msg.Data, &ident); err != nil {
		return err
	}

	if hello.Authentication != nil {
		want := AuthResponse(s.config.Password, hello.Authentication.Salt, hello.Authentication.Challenge)
		if ident.Authentication != want {
			closeMsg := websocket.FormatCloseMessage(CloseAuthenticationFailed, "Authentication failed.")
			conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(time.Second))
			return errors.New("authentication failed")
		}
	}

	msg, err = NewMessage(OpIdentified, Identified{NegotiatedRPCVersion: RPCVersion})
	if err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

// handle dispatches one request and builds its response
func (s *Server) handle(req incomingRequest) RequestResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req.RequestType)
	s.log.Debug("request", zap.String("request_type", req.RequestType))

	resp := RequestResponse{
		RequestType: req.RequestType,
		RequestID:   req.RequestID,
	}

	data, err := s.dispatch(req)
	if err != nil {
		var remoteErr *obsws.RemoteError
		if !errors.As(err, &remoteErr) {
			remoteErr = &obsws.RemoteError{Code: obsws.StatusRequestProcessFailed, Comment: err.Error()}
		}
		resp.RequestStatus = RequestStatus{Result: false, Code: remoteErr.Code, Comment: remoteErr.Comment}
		return resp
	}

	resp.RequestStatus = RequestStatus{Result: true, Code: obsws.StatusSuccess}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			resp.RequestStatus = RequestStatus{Code: obsws.StatusRequestProcessFailed, Comment: err.Error()}
			return resp
		}
		resp.ResponseData = raw
	}
	return resp
}

// dispatch must be called with s.mu held
func (s *Server) dispatch(req incomingRequest) (any, error) {
	switch req.RequestType {
	case "GetVersion":
		return s.getVersion(), nil
	case "GetInputList":
		return s.getInputList(req.RequestData)
	case "GetInputSettings":
		return s.getInputSettings(req.RequestData)
	case "GetInputDefaultSettings":
		return s.getInputDefaultSettings(req.RequestData)
	case "SetInputSettings":
		return nil, s.setInputSettings(req.RequestData)
	case "GetStreamServiceSettings":
		return map[string]any{
			"streamServiceType":     s.streamType,
			"streamServiceSettings": s.streamSettings,
		}, nil
	case "SetStreamServiceSettings":
		return nil, s.setStreamServiceSettings(req.RequestData)
	case "GetStreamStatus":
		return s.streamStatus(), nil
	case "StartStream":
		if s.streaming {
			return nil, remote(obsws.StatusOutputRunning, "The stream output is already running.")
		}
		s.streaming = true
		s.streamStarted = time.Now()
		return nil, nil
	case "StopStream":
		if !s.streaming {
			return nil, remote(obsws.StatusOutputNotRunning, "The stream output is not running.")
		}
		s.streaming = false
		return nil, nil
	case "ToggleStream":
		s.streaming = !s.streaming
		if s.streaming {
			s.streamStarted = time.Now()
		}
		return map[string]any{"outputActive": s.streaming}, nil
	}
	return nil, remote(obsws.StatusUnknownRequestType, fmt.Sprintf("Your request type `%s` is not valid.", req.RequestType))
}

func (s *Server) getVersion() map[string]any {
	return map[string]any{
		"obsVersion":            s.config.ObsVersion,
		"obsWebSocketVersion":   ObsWebSocketVersion,
		"rpcVersion":            RPCVersion,
		"availableRequests":     AvailableRequests(),
		"supportedImageFormats": []string{"png", "jpg"},
		"platform":              runtime.GOOS,
		"platformDescription":   "obsmock",
	}
}

// AvailableRequests lists the request types the emulator answers
func AvailableRequests() []string {
	reqs := []string{
		"GetVersion", "GetInputList", "GetInputSettings", "GetInputDefaultSettings",
		"SetInputSettings", "GetStreamServiceSettings", "SetStreamServiceSettings",
		"GetStreamStatus", "StartStream", "StopStream", "ToggleStream",
	}
	sort.Strings(reqs)
	return reqs
}

func (s *Server) getInputList(raw json.RawMessage) (any, error) {
	var params struct {
		InputKind string `json:"inputKind"`
	}
	if err := decode(raw, &params); err != nil {
		return nil, err
	}

	inputs := make([]map[string]any, 0, len(s.order))
	for _, name := range s.order {
		in := s.inputs[name]
		if params.InputKind != "" && in.kind != params.InputKind {
			continue
		}
		inputs = append(inputs, map[string]any{
			"inputName":            name,
			"inputUuid":            in.uuid,
			"inputKind":            in.kind,
			"unversionedInputKind": in.kind,
		})
	}
	return map[string]any{"inputs": inputs}, nil
}

func (s *Server) lookup(raw json.RawMessage) (string, *input, error) {
	var params struct {
		InputName string `json:"inputName"`
	}
	if err := decode(raw, &params); err != nil {
		return "", nil, err
	}
	if params.InputName == "" {
		return "", nil, remote(obsws.StatusMissingRequestField, "Your request is missing the `inputName` field.")
	}
	in, ok := s.inputs[params.InputName]
	if !ok {
		return "", nil, remote(obsws.StatusResourceNotFound, "No source was found by the name of `"+params.InputName+"`.")
	}
	return params.InputName, in, nil
}

func (s *Server) getInputSettings(raw json.RawMessage) (any, error) {
	_, in, err := s.lookup(raw)
	if err != nil {
		return nil, err
	}

	effective := make(map[string]any)
	for k, v := range s.kindDefaults[in.kind] {
		effective[k] = v
	}
	for k, v := range in.overrides {
		effective[k] = v
	}
	return map[string]any{"inputSettings": effective, "inputKind": in.kind}, nil
}

func (s *Server) getInputDefaultSettings(raw json.RawMessage) (any, error) {
	var params struct {
		InputKind string `json:"inputKind"`
	}
	if err := decode(raw, &params); err != nil {
		return nil, err
	}
	defaults, ok := s.kindDefaults[params.InputKind]
	if !ok {
		return nil, remote(obsws.StatusInvalidInputKind, "Your specified input kind is not supported by OBS.")
	}
	return map[string]any{"defaultInputSettings": defaults}, nil
}

func (s *Server) setInputSettings(raw json.RawMessage) error {
	name, in, err := s.lookup(raw)
	if err != nil {
		return err
	}

	var params struct {
		InputSettings map[string]any `json:"inputSettings"`
		Overlay       *bool          `json:"overlay"`
	}
	if err := decode(raw, &params); err != nil {
		return err
	}
	if params.InputSettings == nil {
		return remote(obsws.StatusMissingRequestField, "Your request is missing the `inputSettings` field.")
	}
	if err := validateSettings(in.kind, params.InputSettings); err != nil {
		return err
	}

	overlay := params.Overlay == nil || *params.Overlay
	if !overlay {
		in.overrides = make(map[string]any, len(params.InputSettings))
	}
	for k, v := range params.InputSettings {
		in.overrides[k] = v
	}

	s.log.Debug("input settings applied", zap.String("input", name), zap.Bool("overlay", overlay))
	return nil
}

// validateSettings rejects settings whose shape does not fit the kind
func validateSettings(kind string, settings map[string]any) error {
	if kind != KindVLCSource {
		return nil
	}
	v, ok := settings["playlist"]
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return remote(obsws.StatusInvalidRequestFieldTy, "The field `playlist` must be an array.")
	}
	for _, item := range items {
		if _, ok := item.(map[string]any); !ok {
			return remote(obsws.StatusInvalidRequestFieldTy, "Playlist entries must be objects.")
		}
	}
	return nil
}

func (s *Server) setStreamServiceSettings(raw json.RawMessage) error {
	var params struct {
		StreamServiceType     string         `json:"streamServiceType"`
		StreamServiceSettings map[string]any `json:"streamServiceSettings"`
	}
	if err := decode(raw, &params); err != nil {
		return err
	}
	if params.StreamServiceType == "" {
		return remote(obsws.StatusMissingRequestField, "Your request is missing the `streamServiceType` field.")
	}
	if params.StreamServiceSettings == nil {
		return remote(obsws.StatusMissingRequestField, "Your request is missing the `streamServiceSettings` field.")
	}

	// Same service type overlays, a new type replaces
	if params.StreamServiceType != s.streamType {
		s.streamType = params.StreamServiceType
		s.streamSettings = make(map[string]any)
	}
	for k, v := range params.StreamServiceSettings {
		s.streamSettings[k] = v
	}
	return nil
}

func (s *Server) streamStatus() map[string]any {
	var duration time.Duration
	if s.streaming {
		duration = time.Since(s.streamStarted)
	}
	return map[string]any{
		"outputActive":        s.streaming,
		"outputReconnecting":  false,
		"outputTimecode":      timecode(duration),
		"outputDuration":      duration.Milliseconds(),
		"outputCongestion":    0,
		"outputBytes":         0,
		"outputSkippedFrames": 0,
		"outputTotalFrames":   0,
	}
}

func timecode(d time.Duration) string {
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	sec := int(d/time.Second) % 60
	ms := int(d/time.Millisecond) % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, sec, ms)
}

func decode(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return remote(obsws.StatusInvalidRequestFieldTy, err.Error())
	}
	return nil
}

func remote(code int, comment string) error {
	return &obsws.RemoteError{Code: code, Comment: comment}
}
