// ABOUTME: obs-websocket v5 session package
// ABOUTME: Wraps goobs behind a generic request call with typed errors
// Package obsws opens an obs-websocket v5 session and carries requests over it.
//
// The handshake, authentication and request framing are done by goobs.
// This package adds a generic Call that takes any request type and payload,
// and splits failures into ConnectionError and RemoteError.
//
// Example:
//
//	client := obsws.New(obsws.Config{Host: "localhost", Port: 4455, Password: "secret"})
//	if err := client.Connect(); err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	var version map[string]any
//	err := client.Call("GetVersion", nil, &version)
package obsws
