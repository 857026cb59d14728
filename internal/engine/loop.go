// Package engine implements the broker's in-process routing engine: the
// joint state machine over clients, workers, topics, in-flight tasks and
// the retry queue, driven by a single-threaded, run-to-completion event
// loop.
package engine

import (
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Transport is the engine's only external dependency: a blocking receive
// of the next logical message's frames, and a non-waiting send to a named
// identity that reports whether the datagram was actually enqueued. A nil
// frame slice with a nil error from Receive means "no message arrived
// within this poll interval" and is not itself an event.
type Transport interface {
	Receive() (frames []string, err error)
	SendTo(identity, payload string) (delivered bool)
}

// Broker owns every table in the routing engine. All mutation happens on
// the goroutine that calls Run; Broker is not safe for concurrent use.
type Broker struct {
	transport Transport
	registry  *registry
	tasks     *taskTable
	timeout   time.Duration
}

// NewBroker constructs a broker bound to the given transport, with the
// given task in-flight deadline. A non-positive timeout falls back to
// DefaultTaskTimeout.
func NewBroker(transport Transport, timeout time.Duration) *Broker {
	if timeout <= 0 {
		timeout = DefaultTaskTimeout
	}
	return &Broker{
		transport: transport,
		registry:  newRegistry(),
		tasks:     newTaskTable(),
		timeout:   timeout,
	}
}

// Run drives the event loop until stop is closed or the transport returns
// a fatal error. It is the broker's sole suspension point besides the
// blocking receive inside Transport.Receive.
func (b *Broker) Run(stop <-chan struct{}) error {
	log.Info("starting broker event loop")
	for {
		select {
		case <-stop:
			log.Info("broker event loop stopping")
			return nil
		default:
		}

		frames, err := b.transport.Receive()
		if err != nil {
			return err
		}
		if frames == nil {
			continue
		}

		if err := b.handle(frames); err != nil {
			return err
		}
	}
}

// handle classifies one logical message by its worker-topic and
// response-topic frames and dispatches it to the appropriate table
// mutation.
func (b *Broker) handle(frames []string) error {
	if len(frames) > 4 {
		return NewProtocolViolationError(len(frames))
	}

	var identity, workerTopic, responseTopic, payload string
	identity = frames[0]
	if len(frames) > 1 {
		workerTopic = frames[1]
	}
	if len(frames) > 2 {
		responseTopic = frames[2]
	}
	if len(frames) > 3 {
		payload = frames[3]
	}

	log.WithFields(log.Fields{
		"identity":       identity,
		"worker_topic":   workerTopic,
		"response_topic": responseTopic,
	}).Trace("received message")

	switch {
	case workerTopic == PingToken:
		b.handlePing(identity)
		return nil // bandwidth control: no sweep, no diagnostic on pings

	case workerTopic == RegisterToken && responseTopic != "":
		b.handleRegister(identity, responseTopic)

	case responseTopic == "":
		// Worker reply: an empty response-topic always means "this is a
		// reply on worker-topic", even for the degenerate client request
		// that happens to omit one. Known wart, kept for compatibility.
		b.respond(workerTopic, payload)

	default:
		b.handleClientRequest(identity, workerTopic, responseTopic, payload)
	}

	b.sweepTimeouts()
	b.logDiagnostics()
	return nil
}

// handlePing answers a worker liveness probe. If the sender looks like a
// worker identity the broker has no record of, it is also sent a
// RegisterToken hint so it re-announces — the only way a worker recovers
// state after a broker restart.
func (b *Broker) handlePing(identity string) {
	if strings.HasPrefix(identity, "worker") {
		if _, known := b.registry.clients[identity]; !known {
			b.transport.SendTo(identity, RegisterToken)
		}
	}
	b.transport.SendTo(identity, PongToken)
}

// handleRegister subscribes the sender as a worker on responseTopic and
// drains the retry queue — the arrival of a new worker is the only event
// that triggers a retry attempt.
func (b *Broker) handleRegister(identity, responseTopic string) {
	b.registry.register(true, identity, responseTopic)
	for _, task := range b.tasks.drainRetry() {
		b.dispatch(task)
	}
}

// handleClientRequest subscribes the sender as a client awaiting a reply
// on responseTopic and dispatches a fresh task for workerTopic/payload.
func (b *Broker) handleClientRequest(identity, workerTopic, responseTopic, payload string) {
	b.registry.register(false, identity, responseTopic)
	b.dispatch(newTask(workerTopic, responseTopic, payload))
}

// logDiagnostics emits a one-line summary of table sizes after every
// non-ping event, cheap enough to compute on every pass and handy for
// eyeballing broker health from the logs alone.
func (b *Broker) logDiagnostics() {
	var workers, clients int
	for _, c := range b.registry.clients {
		if c.isWorker {
			workers++
		} else {
			clients++
		}
	}
	log.Infof("[%d workers; %d clients; %d topics; %d tasks, %d waiting]",
		workers, clients, len(b.registry.topics), len(b.tasks.inflight), len(b.tasks.retry))
}
