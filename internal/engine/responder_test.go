package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// A worker reply fans out to every client waiting on the
// response topic and completes every task sharing it, not just one.
func TestRespondFansOutAndCompletesAllSharingTasks(t *testing.T) {
	tr := newFakeTransport()
	b := newTestBroker(tr)
	b.registry.register(true, "w1", "T")
	b.registry.register(true, "w1", "R")

	b.registry.register(false, "c1", "R")
	b.registry.register(false, "c2", "R")

	task1 := newTask("T", "R", "payload-1")
	task2 := newTask("T", "R", "payload-2")
	b.dispatch(task1)
	b.dispatch(task2)

	b.respond("R", "reply")

	assert.Equal(t, []string{"reply"}, tr.payloadsTo("c1"))
	assert.Equal(t, []string{"reply"}, tr.payloadsTo("c2"))
	assert.Empty(t, b.tasks.inflight)
	assert.NotContains(t, b.registry.clients, "c1")
	assert.NotContains(t, b.registry.clients, "c2")
	// The topic still has its worker, so the row survives, empty of clients.
	assert.Contains(t, b.registry.topics, "R")
	assert.Empty(t, b.registry.topics["R"].clients)
}

func TestRespondOnUnknownTopicIsNoop(t *testing.T) {
	tr := newFakeTransport()
	b := newTestBroker(tr)

	assert.NotPanics(t, func() { b.respond("ghost", "reply") })
	assert.Empty(t, tr.outbound)
}

func TestRespondDropsTopicWithNoWorkersAfterFanout(t *testing.T) {
	tr := newFakeTransport()
	b := newTestBroker(tr)
	b.registry.register(false, "c1", "R")

	b.respond("R", "reply")

	assert.NotContains(t, b.registry.topics, "R")
	assert.NotContains(t, b.registry.clients, "c1")
}

func TestRespondOnlyRemovesMatchingSubscription(t *testing.T) {
	tr := newFakeTransport()
	b := newTestBroker(tr)
	b.registry.register(true, "w1", "R")
	b.registry.register(false, "c1", "R")
	b.registry.register(false, "c1", "S")

	b.respond("R", "reply")

	// c1 still has its S subscription, so it survives.
	assert.Contains(t, b.registry.clients, "c1")
	assert.Equal(t, []string{"S"}, b.registry.clients["c1"].topics)
}
