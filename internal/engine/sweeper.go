package engine

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// sweepTimeouts walks the in-flight table and drops every task whose
// elapsed time since last dispatch has reached the configured deadline,
// cascading cleanup of its response-topic and any clients left orphaned
// by its removal. Runs at the end of every non-ping loop iteration.
func (b *Broker) sweepTimeouts() {
	now := time.Now()
	kept := b.tasks.inflight[:0]
	for _, task := range b.tasks.inflight {
		if now.Sub(task.DispatchedAt) < b.timeout {
			kept = append(kept, task)
			continue
		}
		log.WithFields(log.Fields{"task": task.ID, "topic": task.ResponseTopic}).
			Debug("dropping expired task")
		b.cascadeTimeout(task)
	}
	b.tasks.inflight = kept
}

// cascadeTimeout unconditionally removes the task's response-topic row
// and unsubscribes every client that was waiting on it, deleting any
// client whose subscription list becomes empty as a result.
func (b *Broker) cascadeTimeout(task *Task) {
	topicName := task.ResponseTopic
	t, ok := b.registry.topics[topicName]
	if !ok {
		return
	}

	recipients := append([]string(nil), t.clients...)
	delete(b.registry.topics, topicName)

	for _, identity := range recipients {
		if b.registry.removeClientSubscription(identity, topicName) {
			delete(b.registry.clients, identity)
		}
	}
}
