package focus

// Scheduler defers work to later on the same logical thread.
//
// Implementations must run each task exactly once, after the call to
// Schedule returns, and never while a build or layout phase is in progress.
type Scheduler interface {
	Schedule(task func())
}

// SchedulerFunc adapts a plain function to the Scheduler interface.
type SchedulerFunc func(task func())

// Schedule calls f(task).
func (f SchedulerFunc) Schedule(task func()) { f(task) }

// QueueScheduler collects tasks until Flush is called.
// Frame loops call Flush once per frame; tests call it to run the deferred
// resolution pass at a precise point.
type QueueScheduler struct {
	tasks []func()
}

// NewQueueScheduler creates an empty queue.
func NewQueueScheduler() *QueueScheduler {
	return &QueueScheduler{tasks: make([]func(), 0, 4)}
}

// Schedule appends task to the queue.
func (q *QueueScheduler) Schedule(task func()) {
	q.tasks = append(q.tasks, task)
}

// Pending returns the number of queued tasks.
func (q *QueueScheduler) Pending() int {
	return len(q.tasks)
}

// Flush runs the tasks that were queued when it was called, in FIFO order.
// Tasks scheduled while flushing wait for the next Flush, the way work
// posted during a frame runs on the following one. Returns the number run.
func (q *QueueScheduler) Flush() int {
	batch := q.tasks
	q.tasks = make([]func(), 0, cap(batch))
	for _, task := range batch {
		task()
	}
	return len(batch)
}
