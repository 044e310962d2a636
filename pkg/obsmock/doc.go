// ABOUTME: OBS emulator package
// ABOUTME: Serves obs-websocket v5 from memory for tests and local development
// Package obsmock emulates the parts of OBS Studio that obsctl talks to.
//
// The emulator keeps inputs with kind defaults and per-input overrides,
// one stream destination and the streaming flag, and answers requests with
// the same status codes OBS uses.
//
// Example:
//
//	mock := obsmock.New(obsmock.Config{Password: "secret"})
//	mock.AddInput("mySource", obsmock.KindVLCSource, nil)
//	srv := httptest.NewServer(mock)
//	defer srv.Close()
package obsmock
