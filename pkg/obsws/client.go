// ABOUTME: obs-websocket v5 session backed by the goobs client
// ABOUTME: Carries generic requests and maps failures onto the local error types
package obsws

import (
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/andreykaipov/goobs"
	"github.com/andreykaipov/goobs/api"
	"github.com/davecgh/go-spew/spew"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// DefaultPort is the port obs-websocket listens on out of the box
	DefaultPort = 4455

	// DefaultHandshakeTimeout bounds the WebSocket opening handshake
	DefaultHandshakeTimeout = 5 * time.Second

	// Subprotocol selects JSON encoding on the server
	Subprotocol = "obswebsocket.json"
)

// Config holds client configuration
type Config struct {
	Host     string
	Port     int
	Password string

	// HandshakeTimeout bounds the WebSocket opening handshake (default: 5s)
	HandshakeTimeout time.Duration

	// Logger receives transport logs (default: no-op)
	Logger *zap.Logger
}

// Client is a single obs-websocket session
type Client struct {
	config Config
	log    *zap.Logger

	// mu serializes calls, goobs pairs each request with the next response
	mu  sync.Mutex
	obs *goobs.Client
}

// request carries any payload as the requestData of requestType
type request struct {
	requestType string
	data        any
}

func (r request) GetRequestName() string {
	return r.requestType
}

func (r request) MarshalJSON() ([]byte, error) {
	if r.data == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.data)
}

// response keeps the raw responseData for decoding into the caller's type
type response struct {
	api.ResponseCommon
}

// New creates a client; nothing is dialed until Connect
func New(config Config) *Client {
	if config.Host == "" {
		config.Host = "localhost"
	}
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.HandshakeTimeout == 0 {
		config.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &Client{
		config: config,
		log:    config.Logger,
	}
}

// Addr returns the host:port the client dials
func (c *Client) Addr() string {
	return net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))
}

// Connect opens the session, authenticating when OBS asks for a password
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.obs != nil {
		return nil
	}

	c.log.Info("connecting", zap.String("addr", c.Addr()))

	stdLog, err := zap.NewStdLogAt(c.log.Named("goobs"), zap.DebugLevel)
	if err != nil {
		return &ConnectionError{Op: "connect", Err: err}
	}

	opts := []goobs.Option{
		goobs.WithDialer(&websocket.Dialer{
			Subprotocols:     []string{Subprotocol},
			HandshakeTimeout: c.config.HandshakeTimeout,
		}),
		goobs.WithEventSubscriptions(0),
		goobs.WithLogger(stdLog),
	}
	if c.config.Password != "" {
		opts = append(opts, goobs.WithPassword(c.config.Password))
	}

	obs, err := goobs.New(c.Addr(), opts...)
	if err != nil {
		return &ConnectionError{Op: "connect", Err: err}
	}
	c.obs = obs

	c.log.Info("identified")
	return nil
}

// Call sends a request and blocks until its response arrives.
// A nil out discards the response data.
func (c *Client) Call(requestType string, data, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.obs == nil {
		return &ConnectionError{Op: requestType, Err: ErrNotConnected}
	}

	c.log.Debug("request", zap.String("request_type", requestType))

	var resp response
	if err := c.obs.SendRequest(request{requestType: requestType, data: data}, &resp); err != nil {
		return classify(requestType, err)
	}

	raw := resp.GetRaw()
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", requestType, err)
	}

	if ce := c.log.Check(zap.DebugLevel, "response"); ce != nil {
		ce.Write(zap.String("request_type", requestType), zap.String("dump", spew.Sdump(out)))
	}
	return nil
}

// Close disconnects; calling it again is a no-op
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.obs == nil {
		return
	}
	if err := c.obs.Disconnect(); err != nil {
		c.log.Warn("disconnect failed", zap.Error(err))
	}
	c.obs = nil
	c.log.Info("connection closed")
}

// IsConnected returns connection status
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.obs != nil
}
