// ABOUTME: obs-websocket v5 message type definitions
// ABOUTME: Defines the op-coded envelope and the payloads the emulator speaks
package obsmock

import "encoding/json"

// OpCode identifies the kind of message carried by an envelope
type OpCode int

const (
	OpHello           OpCode = 0
	OpIdentify        OpCode = 1
	OpIdentified      OpCode = 2
	OpReidentify      OpCode = 3
	OpEvent           OpCode = 5
	OpRequest         OpCode = 6
	OpRequestResponse OpCode = 7
)

// String returns the protocol name of the op code
func (o OpCode) String() string {
	switch o {
	case OpHello:
		return "Hello"
	case OpIdentify:
		return "Identify"
	case OpIdentified:
		return "Identified"
	case OpReidentify:
		return "Reidentify"
	case OpEvent:
		return "Event"
	case OpRequest:
		return "Request"
	case OpRequestResponse:
		return "RequestResponse"
	}
	return "Unknown"
}

const (
	// Subprotocol selects JSON encoding on the server
	Subprotocol = "obswebsocket.json"

	// RPCVersion is the protocol revision the emulator negotiates
	RPCVersion = 1

	// CloseAuthenticationFailed is the close code sent on a bad password
	CloseAuthenticationFailed = 4009
)

// Message is the top-level wrapper for all protocol messages
type Message struct {
	Op   OpCode          `json:"op"`
	Data json.RawMessage `json:"d"`
}

// Hello is sent by the server right after the socket opens
type Hello struct {
	ObsWebSocketVersion string          `json:"obsWebSocketVersion"`
	RPCVersion          int             `json:"rpcVersion"`
	Authentication      *Authentication `json:"authentication,omitempty"`
}

// Authentication carries the challenge parameters when a password is set
type Authentication struct {
	Challenge string `json:"challenge"`
	Salt      string `json:"salt"`
}

// Identify is the client's answer to Hello
type Identify struct {
	RPCVersion         int    `json:"rpcVersion"`
	Authentication     string `json:"authentication,omitempty"`
	EventSubscriptions int    `json:"eventSubscriptions"`
}

// Identified confirms the session is ready for requests
type Identified struct {
	NegotiatedRPCVersion int `json:"negotiatedRpcVersion"`
}

// Request asks the server to perform one operation
type Request struct {
	RequestType string `json:"requestType"`
	RequestID   string `json:"requestId"`
	RequestData any    `json:"requestData,omitempty"`
}

// RequestStatus reports the outcome of a request
type RequestStatus struct {
	Result  bool   `json:"result"`
	Code    int    `json:"code"`
	Comment string `json:"comment,omitempty"`
}

// RequestResponse answers a Request with the same id
type RequestResponse struct {
	RequestType   string          `json:"requestType"`
	RequestID     string          `json:"requestId"`
	RequestStatus RequestStatus   `json:"requestStatus"`
	ResponseData  json.RawMessage `json:"responseData,omitempty"`
}

// NewMessage encodes a payload into an envelope
func NewMessage(op OpCode, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Op: op, Data: data}, nil
}
