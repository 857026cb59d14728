package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// A task that never receives a reply is dropped once its
// deadline elapses, cascading cleanup of its response-topic and clients.
func TestSweepTimeoutsCascadesCleanup(t *testing.T) {
	tr := newFakeTransport()
	b := NewBroker(tr, 10*time.Millisecond)
	b.registry.register(true, "w1", "T")
	b.registry.register(false, "c1", "R")

	task := newTask("T", "R", "payload")
	b.dispatch(task)
	task.DispatchedAt = time.Now().Add(-time.Hour)

	b.sweepTimeouts()

	assert.Empty(t, b.tasks.inflight)
	assert.NotContains(t, b.registry.topics, "R")
	assert.NotContains(t, b.registry.clients, "c1")
}

func TestSweepTimeoutsKeepsFreshTasks(t *testing.T) {
	tr := newFakeTransport()
	b := newTestBroker(tr)
	b.registry.register(true, "w1", "T")
	b.registry.register(false, "c1", "R")

	task := newTask("T", "R", "payload")
	b.dispatch(task)

	b.sweepTimeouts()

	assert.Equal(t, []*Task{task}, b.tasks.inflight)
	assert.Contains(t, b.registry.topics, "R")
	assert.Contains(t, b.registry.clients, "c1")
}

func TestCascadeTimeoutPreservesClientSubscribedElsewhere(t *testing.T) {
	tr := newFakeTransport()
	b := newTestBroker(tr)
	b.registry.register(false, "c1", "R")
	b.registry.register(false, "c1", "S")

	task := &Task{WorkerTopic: "T", ResponseTopic: "R"}
	b.cascadeTimeout(task)

	assert.NotContains(t, b.registry.topics, "R")
	assert.Contains(t, b.registry.clients, "c1")
	assert.Equal(t, []string{"S"}, b.registry.clients["c1"].topics)
}
