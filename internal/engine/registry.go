package engine

import (
	log "github.com/sirupsen/logrus"
)

// client is an identity known to the broker, either a worker or a plain
// client, along with every topic it is currently subscribed to. The same
// topic name may appear more than once: re-registration is not
// deduplicated, so a worker that announces itself twice gets two turns in
// its topic's round robin.
type client struct {
	identity string
	isWorker bool
	topics   []string
}

// topic is a named routing point. workers holds the round-robin serving
// order for this topic; clients holds every identity awaiting a reply on
// it. cursor is the index of the next worker to hand out.
type topic struct {
	name    string
	workers []string
	cursor  int
	clients []string
}

// selectWorker returns the next worker to dispatch to, advancing the
// cursor forward and wrapping back to the front once it runs past the end
// of the list. It does not remove anything from the list; eviction is a
// separate step.
func (t *topic) selectWorker() (string, bool) {
	if len(t.workers) == 0 {
		return "", false
	}
	if t.cursor < len(t.workers) {
		worker := t.workers[t.cursor]
		t.cursor++
		return worker, true
	}
	t.cursor = 1
	return t.workers[0], true
}

// registry is the broker's in-memory client/topic table. The broker owns
// it exclusively; registry methods never run concurrently with each other.
type registry struct {
	clients map[string]*client
	topics  map[string]*topic
}

func newRegistry() *registry {
	return &registry{
		clients: make(map[string]*client),
		topics:  make(map[string]*topic),
	}
}

// register idempotently inserts the client row, appends topicName to its
// subscription list, and links the identity into the topic's worker or
// client list depending on isWorker. No duplicate suppression is
// performed — repeated registrations accumulate.
func (r *registry) register(isWorker bool, identity, topicName string) {
	c, ok := r.clients[identity]
	if !ok {
		c = &client{identity: identity, isWorker: isWorker}
		r.clients[identity] = c
		log.WithFields(log.Fields{"identity": identity, "worker": isWorker}).Debug("registering new client")
	}
	c.topics = append(c.topics, topicName)

	t := r.requireTopic(topicName)
	if isWorker {
		t.workers = append(t.workers, identity)
	} else {
		t.clients = append(t.clients, identity)
	}
}

// requireTopic is a lazy constructor that locates a topic by name, or
// creates it if this is the first registration against it.
func (r *registry) requireTopic(name string) *topic {
	t, ok := r.topics[name]
	if !ok {
		t = &topic{name: name}
		r.topics[name] = t
		log.WithField("topic", name).Debug("added topic")
	}
	return t
}

// removeWorker evicts a worker identity from every table it appears in.
// It walks the worker's own subscription list rather than searching every
// topic, removing exactly one matching occurrence per duplicate
// registration — so a worker registered twice on the same topic is fully
// unlinked after its eviction.
func (r *registry) removeWorker(identity string) {
	c, ok := r.clients[identity]
	if !ok {
		return
	}
	for _, topicName := range c.topics {
		t, ok := r.topics[topicName]
		if !ok {
			continue
		}
		t.workers = removeFirst(t.workers, identity)
		r.deleteTopicIfEmpty(topicName)
	}
	delete(r.clients, identity)
	log.WithField("identity", identity).Debug("evicted worker")
}

// removeClientSubscription removes one occurrence of topicName from the
// client's subscription list and reports whether the list is now empty.
// A no-op (returns false) if the client is unknown.
func (r *registry) removeClientSubscription(identity, topicName string) (emptied bool) {
	c, ok := r.clients[identity]
	if !ok {
		return false
	}
	c.topics = removeFirst(c.topics, topicName)
	return len(c.topics) == 0
}

// deleteTopicIfEmpty deletes a topic row once both its worker and client
// lists are empty — a topic with nobody left on either side has nothing
// left to route.
func (r *registry) deleteTopicIfEmpty(name string) {
	t, ok := r.topics[name]
	if ok && len(t.workers) == 0 && len(t.clients) == 0 {
		delete(r.topics, name)
	}
}

// removeFirst removes the first occurrence of value from list, preserving
// order, and returns the (possibly reallocated) slice.
func removeFirst(list []string, value string) []string {
	for i, v := range list {
		if v == value {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
