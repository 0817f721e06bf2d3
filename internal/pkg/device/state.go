package device

// State describes the device session lifecycle.
type State int

const (
	// Disconnected means no socket is held.
	Disconnected State = iota
	// Connecting means the local endpoint is being bound.
	Connecting
	// Connected means the session loop is running but the engine has not
	// yet answered an identify probe.
	Connected
	// Ready means the engine answered an identify probe.
	Ready
	// Disconnecting means shutdown was requested and the loop is draining.
	Disconnecting
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "DISCONNECTED"
	case Connecting:
		return "CONNECTING"
	case Connected:
		return "CONNECTED"
	case Ready:
		return "READY"
	case Disconnecting:
		return "DISCONNECTING"
	default:
		return "UNKNOWN"
	}
}
