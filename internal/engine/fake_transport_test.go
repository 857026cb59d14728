package engine

// fakeTransport is an in-memory stand-in for transport.Socket, used so the
// engine's behavior can be exercised without a real ZeroMQ socket.
type sentMessage struct {
	identity string
	payload  string
}

type fakeTransport struct {
	outbound    []sentMessage
	unreachable map[string]bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{unreachable: make(map[string]bool)}
}

func (f *fakeTransport) Receive() ([]string, error) {
	return nil, nil
}

func (f *fakeTransport) SendTo(identity, payload string) bool {
	if f.unreachable[identity] {
		return false
	}
	f.outbound = append(f.outbound, sentMessage{identity: identity, payload: payload})
	return true
}

func (f *fakeTransport) payloadsTo(identity string) []string {
	var payloads []string
	for _, m := range f.outbound {
		if m.identity == identity {
			payloads = append(payloads, m.payload)
		}
	}
	return payloads
}

func (f *fakeTransport) markUnreachable(identity string) {
	f.unreachable[identity] = true
}
