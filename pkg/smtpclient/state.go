package smtpclient

// State is the session position in the linear happy path. Transitions only
// move forward; any failure tears the session down to StateDisconnected via
// Disconnect.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateGreeted
	StateAuthenticated
	StateMailFromAccepted
	StateRcptToAccepted
	StateDataPhase
	StateSent
)

var stateNames = map[State]string{
	StateDisconnected:     "disconnected",
	StateConnected:        "connected",
	StateGreeted:          "greeted",
	StateAuthenticated:    "authenticated",
	StateMailFromAccepted: "mail-from-accepted",
	StateRcptToAccepted:   "rcpt-to-accepted",
	StateDataPhase:        "data-phase",
	StateSent:             "sent",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
