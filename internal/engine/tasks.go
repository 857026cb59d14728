package engine

import (
	"time"

	"github.com/google/uuid"
)

// Task is an in-flight unit of work. ID exists purely for log correlation
// across dispatch/retry/timeout — it is never placed on the wire.
type Task struct {
	ID             string
	WorkerTopic    string
	AssignedWorker string
	ResponseTopic  string
	Retry          int
	Payload        string
	DispatchedAt   time.Time
	Delivered      bool
}

// newTask creates a task fresh off a client submission. DispatchedAt is
// left zero-valued until the dispatcher actually attempts a send — a task
// that never leaves the retry queue has no dispatch timestamp to speak of.
func newTask(workerTopic, responseTopic, payload string) *Task {
	return &Task{
		ID:            uuid.NewString(),
		WorkerTopic:   workerTopic,
		ResponseTopic: responseTopic,
		Payload:       payload,
	}
}

// taskTable holds the in-flight tasks awaiting a reply and the retry queue
// of tasks stranded without a worker at submission time.
type taskTable struct {
	inflight []*Task
	retry    []*Task
}

func newTaskTable() *taskTable {
	return &taskTable{}
}

// drainRetry removes and returns every queued task, resetting the queue.
func (t *taskTable) drainRetry() []*Task {
	pending := t.retry
	t.retry = nil
	return pending
}

// purgeByResponseTopic removes every in-flight task whose response-topic
// matches, used by the responder once a reply has fanned out to everyone
// waiting on that topic.
func (t *taskTable) purgeByResponseTopic(responseTopic string) {
	kept := t.inflight[:0]
	for _, task := range t.inflight {
		if task.ResponseTopic != responseTopic {
			kept = append(kept, task)
		}
	}
	t.inflight = kept
}
