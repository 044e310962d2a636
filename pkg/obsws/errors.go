// ABOUTME: Error taxonomy for the obs-websocket client
// ABOUTME: Separates transport failures from requests rejected by OBS
package obsws

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Request status codes returned by OBS
const (
	StatusSuccess               = 100
	StatusMissingRequestType    = 203
	StatusUnknownRequestType    = 204
	StatusGenericError          = 205
	StatusMissingRequestField   = 300
	StatusMissingRequestData    = 301
	StatusInvalidRequestField   = 400
	StatusInvalidRequestFieldTy = 401
	StatusOutputRunning         = 500
	StatusOutputNotRunning      = 501
	StatusResourceNotFound      = 600
	StatusInvalidResourceType   = 602
	StatusInvalidInputKind      = 605
	StatusRequestProcessFailed  = 702
)

// ErrNotConnected is returned for calls on a closed or never opened session
var ErrNotConnected = errors.New("not connected")

// ConnectionError reports that the session is not available
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("obsws: %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// RemoteError reports that OBS rejected a request
type RemoteError struct {
	RequestType string
	Code        int
	Comment     string
}

func (e *RemoteError) Error() string {
	if e.Comment == "" {
		return fmt.Sprintf("obsws: %s failed with code %d", e.RequestType, e.Code)
	}
	return fmt.Sprintf("obsws: %s failed with code %d: %s", e.RequestType, e.Code, e.Comment)
}

// IsRemoteCode reports whether err is a RemoteError carrying code
func IsRemoteCode(err error, code int) bool {
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr) && remoteErr.Code == code
}

// statusPattern finds the request status goobs reports as "Name (code): comment"
var statusPattern = regexp.MustCompile(`\((\d{3})\)(?::\s*(.*))?`)

// classify turns a goobs request error into a RemoteError when OBS answered
// with a status code, and into a ConnectionError otherwise
func classify(requestType string, err error) error {
	m := statusPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return &ConnectionError{Op: requestType, Err: err}
	}
	code, _ := strconv.Atoi(m[1])
	return &RemoteError{RequestType: requestType, Code: code, Comment: m[2]}
}
