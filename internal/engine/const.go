package engine

import "time"

// Control tokens exchanged on the wire. A worker-topic of PingToken is a
// liveness probe; RegisterToken doubles as the inbound worker-subscribe
// frame and the broker's own reconnection hint sent back to an unknown
// worker.
const (
	PingToken     = "@@PING"
	RegisterToken = "@@REGISTER"
	PongToken     = "@@PONG"
)

// DefaultTaskTimeout is the in-flight deadline NewBroker uses when it is
// given a non-positive timeout.
const DefaultTaskTimeout = 60 * time.Second
