package engine

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// dispatch finds a worker on task.WorkerTopic, stamps and sends the task,
// and either lands it in the in-flight table or — on worker exhaustion —
// the retry queue. On a transport failure it evicts the selected worker
// and retries against the same task until a send succeeds or no worker
// remains.
func (b *Broker) dispatch(task *Task) {
	for {
		t, ok := b.registry.topics[task.WorkerTopic]
		var worker string
		var found bool
		if ok {
			worker, found = t.selectWorker()
		}
		if !found {
			b.tasks.retry = append(b.tasks.retry, task)
			log.WithFields(log.Fields{"topic": task.WorkerTopic}).
				Infof("Can't find a worker at the moment, storing task %s", task.WorkerTopic)
			return
		}

		task.DispatchedAt = time.Now()
		task.Retry++
		task.AssignedWorker = worker

		delivered := b.transport.SendTo(worker, task.Payload)
		task.Delivered = delivered

		if delivered {
			b.tasks.inflight = append(b.tasks.inflight, task)
			return
		}

		log.WithFields(log.Fields{"worker": worker, "topic": task.WorkerTopic}).
			Warn("worker unreachable, evicting and retrying dispatch")
		b.registry.removeWorker(worker)
	}
}
