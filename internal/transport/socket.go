// Package transport adapts a ZeroMQ ROUTER socket to the minimal
// send/receive contract the routing engine depends on: a blocking receive
// of the next frame set, and a non-waiting send that reports delivery
// success rather than blocking or silently dropping.
package transport

import (
	log "github.com/sirupsen/logrus"
	czmq "github.com/zeromq/goczmq/v4"
)

// pollIntervalMS bounds how long a single poll waits before Receive
// returns a nil frame set, giving the caller a chance to check its own
// shutdown signal between polls.
const pollIntervalMS = 1000

// Socket wraps a ROUTER socket bound to a single endpoint shared by every
// client and worker connection.
type Socket struct {
	endpoint string
	sock     *czmq.Sock
	poller   *czmq.Poller
}

// Bind creates and binds the ROUTER socket. Mandatory routing is enabled
// so a send to a vanished identity fails rather than silently dropping —
// the only mechanism by which the engine learns a worker is unreachable.
func Bind(endpoint string) (*Socket, error) {
	sock, err := czmq.NewRouter(endpoint)
	if err != nil {
		log.WithFields(log.Fields{"endpoint": endpoint, "error": err}).Error("failed to bind broker socket")
		return nil, err
	}

	sock.SetOption(czmq.SockSetRouterMandatory(1))
	sock.SetOption(czmq.SockSetRcvhwm(500000))

	poller, err := czmq.NewPoller(sock)
	if err != nil {
		sock.Destroy()
		return nil, err
	}

	log.WithFields(log.Fields{"endpoint": endpoint}).Info("switchboard broker is active")

	return &Socket{endpoint: endpoint, sock: sock, poller: poller}, nil
}

// Close unbinds and destroys the underlying socket.
func (s *Socket) Close() {
	if s.poller != nil {
		s.poller.Destroy()
		s.poller = nil
	}
	if s.sock != nil {
		_ = s.sock.Unbind(s.endpoint)
		s.sock.Destroy()
		s.sock = nil
	}
}

// Receive blocks (up to pollIntervalMS) for the next frame set. A nil,nil
// return means the poll timed out with nothing to report, not an error.
func (s *Socket) Receive() ([]string, error) {
	socket, err := s.poller.Wait(pollIntervalMS)
	if err != nil {
		return nil, err
	}
	if socket == nil {
		return nil, nil
	}

	recv, err := socket.RecvMessage()
	if err != nil {
		return nil, err
	}

	return byte2DToStringArray(recv), nil
}

// SendTo attempts a 3-frame datagram (identity, empty delimiter, payload)
// to identity using the socket's non-waiting send mode. Any frame that
// fails to enqueue is treated as total delivery failure.
func (s *Socket) SendTo(identity, payload string) bool {
	frames := [][]byte{[]byte(identity), []byte(""), []byte(payload)}
	for i, frame := range frames {
		flags := czmq.FlagMore | czmq.FlagDontWait
		if i == len(frames)-1 {
			flags = czmq.FlagDontWait
		}
		if err := s.sock.SendFrame(frame, flags); err != nil {
			log.WithFields(log.Fields{"identity": identity, "error": err}).
				Debug("send failed, peer is unreachable")
			return false
		}
	}
	return true
}

func byte2DToStringArray(in [][]byte) []string {
	out := make([]string, 0, len(in))
	for _, b := range in {
		out = append(out, string(b))
	}
	return out
}
