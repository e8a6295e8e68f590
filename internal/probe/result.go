package probe

import "time"

// Status classifies the outcome of one echo request.
type Status string

const (
	StatusSuccess            Status = "Success"
	StatusTimedOut           Status = "TimedOut"
	StatusHostUnreachable    Status = "DestinationHostUnreachable"
	StatusNetworkUnreachable Status = "DestinationNetworkUnreachable"
	StatusUnknown            Status = "Unknown"
)

// OK reports whether s is a successful reply.
func (s Status) OK() bool {
	return s == StatusSuccess
}

// Reply is what a Prober observed for one echo request.
type Reply struct {
	Status Status
	RTT    time.Duration
}

// Result is the outcome of one monitoring cycle.
type Result struct {
	Host                 string
	Status               Status
	RTT                  time.Duration
	InterfaceName        string
	InterfaceDescription string
	CheckedAt            time.Time
}
