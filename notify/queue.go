package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/util"
)

// Queue runs dispatches on a background worker so the caller of Enqueue is
// never blocked by expansion or the mail relay.
type Queue struct {
	dispatcher *Dispatcher
	worker     *util.Worker
	results    chan<- Result
}

func NewQueue(dispatcher *Dispatcher, wg *sync.WaitGroup, capacity int) *Queue {
	q := &Queue{dispatcher: dispatcher}
	q.worker = util.NewWorker("notify", wg, q.handle, capacity)
	return q
}

// WithResults publishes every finished dispatch on ch. Sends are skipped when
// ch is full.
func (q *Queue) WithResults(ch chan<- Result) *Queue {
	q.results = ch
	return q
}

func (q *Queue) Start() {
	q.worker.Start()
}

// Enqueue returns false when the queue is full and the request was dropped.
func (q *Queue) Enqueue(req model.TransitionRequest) bool {
	return q.worker.Submit(req)
}

func (q *Queue) Stop() error {
	q.worker.Stop()
	return nil
}

func (q *Queue) handle(task util.Task) error {
	req, ok := task.(model.TransitionRequest)
	if !ok {
		return fmt.Errorf("unexpected notify task %T", task)
	}
	res := q.dispatcher.Dispatch(context.Background(), req)
	if q.results != nil {
		select {
		case q.results <- res:
		default:
		}
	}
	return nil
}
