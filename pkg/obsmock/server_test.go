// ABOUTME: Integration tests for the OBS emulator
// ABOUTME: Speaks raw obs-websocket frames to check handshake and status codes
package obsmock

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Resonate-Protocol/obsctl/pkg/obsws"
	"github.com/gorilla/websocket"
)

// dial connects and completes Identify, answering the challenge when password is set
func dial(t *testing.T, s *Server, password string) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	dialer := websocket.Dialer{Subprotocols: []string{Subprotocol}}
	conn, _, err := dialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("failed to read Hello: %v", err)
	}
	if msg.Op != OpHello {
		t.Fatalf("expected Hello, got %s", msg.Op)
	}

	var hello Hello
	json.Unmarshal(msg.Data, &hello)

	ident := Identify{RPCVersion: RPCVersion}
	if hello.Authentication != nil {
		ident.Authentication = AuthResponse(password, hello.Authentication.Salt, hello.Authentication.Challenge)
	}
	out, _ := NewMessage(OpIdentify, ident)
	if err := conn.WriteJSON(out); err != nil {
		t.Fatalf("failed to send Identify: %v", err)
	}
	return conn
}

func request(t *testing.T, conn *websocket.Conn, requestType string, data any) RequestResponse {
	t.Helper()

	msg, _ := NewMessage(OpRequest, Request{RequestType: requestType, RequestID: requestType + "-1", RequestData: data})
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("failed to send %s: %v", requestType, err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp Message
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("failed to read %s response: %v", requestType, err)
	}
	if resp.Op != OpRequestResponse {
		t.Fatalf("expected RequestResponse, got %s", resp.Op)
	}

	var rr RequestResponse
	if err := json.Unmarshal(resp.Data, &rr); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if rr.RequestID != requestType+"-1" {
		t.Errorf("response id %s does not echo request", rr.RequestID)
	}
	return rr
}

func readIdentified(t *testing.T, conn *websocket.Conn) {
	t.Helper()

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("failed to read Identified: %v", err)
	}
	if msg.Op != OpIdentified {
		t.Fatalf("expected Identified, got %s", msg.Op)
	}
}

func TestHandshakeWithPassword(t *testing.T) {
	conn := dial(t, New(Config{Password: "pw"}), "pw")
	readIdentified(t, conn)
}

func TestHandshakeWrongPasswordCloses(t *testing.T) {
	conn := dial(t, New(Config{Password: "pw"}), "nope")

	var msg Message
	err := conn.ReadJSON(&msg)
	if !websocket.IsCloseError(err, CloseAuthenticationFailed) {
		t.Fatalf("expected close %d, got %v", CloseAuthenticationFailed, err)
	}
}

func TestUnknownRequestType(t *testing.T) {
	conn := dial(t, New(Config{}), "")
	readIdentified(t, conn)

	rr := request(t, conn, "DoTheThing", nil)
	if rr.RequestStatus.Result || rr.RequestStatus.Code != obsws.StatusUnknownRequestType {
		t.Errorf("unexpected status: %+v", rr.RequestStatus)
	}
}

func TestSetInputSettingsMissingField(t *testing.T) {
	s := New(Config{})
	s.AddInput("mySource", KindVLCSource, nil)
	conn := dial(t, s, "")
	readIdentified(t, conn)

	rr := request(t, conn, "SetInputSettings", map[string]any{"inputName": "mySource"})
	if rr.RequestStatus.Code != obsws.StatusMissingRequestField {
		t.Errorf("expected MissingRequestField, got %+v", rr.RequestStatus)
	}

	rr = request(t, conn, "GetInputSettings", map[string]any{})
	if rr.RequestStatus.Code != obsws.StatusMissingRequestField {
		t.Errorf("expected MissingRequestField for empty name, got %+v", rr.RequestStatus)
	}
}

func TestOverlayDefaultsToTrue(t *testing.T) {
	s := New(Config{})
	s.AddInput("mySource", KindVLCSource, map[string]any{"loop": false})
	conn := dial(t, s, "")
	readIdentified(t, conn)

	request(t, conn, "SetInputSettings", map[string]any{"inputName": "mySource", "inputSettings": map[string]any{"shuffle": true}})

	rr := request(t, conn, "GetInputSettings", map[string]any{"inputName": "mySource"})
	var data struct {
		InputSettings map[string]any `json:"inputSettings"`
	}
	json.Unmarshal(rr.ResponseData, &data)
	if data.InputSettings["loop"] != false || data.InputSettings["shuffle"] != true {
		t.Errorf("expected merged settings, got %v", data.InputSettings)
	}
}

func TestUnknownInputKindDefaults(t *testing.T) {
	conn := dial(t, New(Config{}), "")
	readIdentified(t, conn)

	rr := request(t, conn, "GetInputDefaultSettings", map[string]any{"inputKind": "nope_source"})
	if rr.RequestStatus.Code != obsws.StatusInvalidInputKind {
		t.Errorf("expected InvalidInputKind, got %+v", rr.RequestStatus)
	}
}

func TestRequestsAreRecorded(t *testing.T) {
	s := New(Config{})
	conn := dial(t, s, "")
	readIdentified(t, conn)

	request(t, conn, "StartStream", nil)
	request(t, conn, "StopStream", nil)
	request(t, conn, "StopStream", nil)

	if s.Count("StopStream") != 2 {
		t.Errorf("expected 2 StopStream, got %d", s.Count("StopStream"))
	}
	got := strings.Join(s.Requests(), ",")
	if got != "StartStream,StopStream,StopStream" {
		t.Errorf("unexpected request log %s", got)
	}
	if s.Streaming() {
		t.Error("stream should be stopped")
	}
}

func TestTimecode(t *testing.T) {
	d := time.Hour + 2*time.Minute + 3*time.Second + 45*time.Millisecond
	if got := timecode(d); got != "01:02:03.045" {
		t.Errorf("expected 01:02:03.045, got %s", got)
	}
}
