// ABOUTME: Demo driver state machine states
// ABOUTME: Idle through Stopped, in the order the demo visits them
package demo

// State is a step of the demo sequence
type State int

const (
	StateIdle State = iota
	StateFetchDestination
	StateStreaming
	StateReadSettings
	StateApplySettings
	StateWaiting
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateFetchDestination:
		return "FetchDestination"
	case StateStreaming:
		return "Streaming"
	case StateReadSettings:
		return "ReadSettings"
	case StateApplySettings:
		return "ApplySettings"
	case StateWaiting:
		return "Waiting"
	case StateStopped:
		return "Stopped"
	}
	return "Unknown"
}
