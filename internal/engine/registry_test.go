package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryRegisterCreatesClientAndTopic(t *testing.T) {
	r := newRegistry()
	r.register(true, "worker-1", "T")

	require := assert.New(t)
	require.Contains(r.clients, "worker-1")
	require.True(r.clients["worker-1"].isWorker)
	require.Equal([]string{"T"}, r.clients["worker-1"].topics)
	require.Contains(r.topics, "T")
	require.Equal([]string{"worker-1"}, r.topics["T"].workers)
}

func TestRegistryDuplicateRegistrationAccumulates(t *testing.T) {
	r := newRegistry()
	r.register(true, "worker-1", "T")
	r.register(true, "worker-1", "T")

	assert.Equal(t, []string{"T", "T"}, r.clients["worker-1"].topics)
	assert.Equal(t, []string{"worker-1", "worker-1"}, r.topics["T"].workers)
}

func TestRegistryRemoveWorkerUnlinksAllDuplicates(t *testing.T) {
	r := newRegistry()
	r.register(true, "worker-1", "T")
	r.register(true, "worker-1", "T")

	r.removeWorker("worker-1")

	assert.NotContains(t, r.clients, "worker-1")
	// Both duplicate entries are unlinked, and the topic is gone since it
	// has neither workers nor clients left.
	assert.NotContains(t, r.topics, "T")
}

func TestRegistryRemoveClientSubscription(t *testing.T) {
	r := newRegistry()
	r.register(false, "client-1", "R")
	r.register(false, "client-1", "S")

	emptied := r.removeClientSubscription("client-1", "R")
	assert.False(t, emptied)
	assert.Equal(t, []string{"S"}, r.clients["client-1"].topics)

	emptied = r.removeClientSubscription("client-1", "S")
	assert.True(t, emptied)
}

func TestRegistryDeleteTopicIfEmptyRequiresBothSidesEmpty(t *testing.T) {
	r := newRegistry()
	r.register(true, "worker-1", "T")
	r.register(false, "client-1", "T")

	r.topics["T"].workers = removeFirst(r.topics["T"].workers, "worker-1")
	r.deleteTopicIfEmpty("T")
	assert.Contains(t, r.topics, "T", "topic survives while it still has a client")

	r.topics["T"].clients = removeFirst(r.topics["T"].clients, "client-1")
	r.deleteTopicIfEmpty("T")
	assert.NotContains(t, r.topics, "T")
}

func TestTopicSelectWorkerRoundRobin(t *testing.T) {
	tp := &topic{workers: []string{"w1", "w2", "w3"}}

	var picks []string
	for i := 0; i < 4; i++ {
		w, ok := tp.selectWorker()
		assert.True(t, ok)
		picks = append(picks, w)
	}

	assert.Equal(t, []string{"w1", "w2", "w3", "w1"}, picks)
}

func TestTopicSelectWorkerEmpty(t *testing.T) {
	tp := &topic{}
	_, ok := tp.selectWorker()
	assert.False(t, ok)
}
