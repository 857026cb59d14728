package engine

import (
	log "github.com/sirupsen/logrus"
)

// respond fans payload out to every client currently subscribed to
// responseTopic, then garbage-collects: each delivered client loses its
// subscription to responseTopic, any client left with no subscriptions at
// all is dropped, the topic's client list is cleared, the topic itself is
// dropped once it has no workers either, and every in-flight task sharing
// this response-topic is considered delivered and purged. A reply on a
// topic with no subscribers is a no-op.
func (b *Broker) respond(responseTopic, payload string) {
	t, ok := b.registry.topics[responseTopic]
	if !ok {
		return
	}

	// Snapshot before mutating — the loop below mutates client rows and
	// possibly this very topic row.
	recipients := append([]string(nil), t.clients...)

	var emptied []string
	for _, identity := range recipients {
		b.transport.SendTo(identity, payload) // best-effort; client reconnects if this fails
		if b.registry.removeClientSubscription(identity, responseTopic) {
			emptied = append(emptied, identity)
		}
	}

	for _, identity := range emptied {
		delete(b.registry.clients, identity)
	}

	t.clients = nil
	if len(t.workers) == 0 {
		delete(b.registry.topics, responseTopic)
	}

	b.tasks.purgeByResponseTopic(responseTopic)

	log.WithFields(log.Fields{"topic": responseTopic, "recipients": len(recipients)}).
		Debug("fanned out reply")
}
