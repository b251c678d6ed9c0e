// Implements the queue of unassigned tasks. Tasks are enqueued on activation
// (case arrival or successor creation) and leave on commit.

package sim

// taskQueue holds unassigned tasks in activation order. Planners receive its
// contents in that order, which is the documented tie-break for strategies
// that pick "the first" task.
type taskQueue struct {
	queue []*Task
	byID  map[TaskID]*Task
}

func newTaskQueue() *taskQueue {
	return &taskQueue{byID: make(map[TaskID]*Task)}
}

// enqueue adds a task to the back of the queue.
func (tq *taskQueue) enqueue(t *Task) {
	tq.queue = append(tq.queue, t)
	tq.byID[t.id] = t
}

// get returns the queued task with the given id, if present.
func (tq *taskQueue) get(id TaskID) (*Task, bool) {
	t, ok := tq.byID[id]
	return t, ok
}

// remove deletes the task with the given id, preserving the order of the
// rest. Reports whether the task was present.
func (tq *taskQueue) remove(id TaskID) bool {
	if _, ok := tq.byID[id]; !ok {
		return false
	}
	delete(tq.byID, id)
	for i, t := range tq.queue {
		if t.id == id {
			tq.queue = append(tq.queue[:i], tq.queue[i+1:]...)
			return true
		}
	}
	panic("taskQueue: byID and queue out of sync")
}

// items returns a copy of the queue contents in activation order.
func (tq *taskQueue) items() []*Task {
	out := make([]*Task, len(tq.queue))
	copy(out, tq.queue)
	return out
}

// len returns the number of queued tasks.
func (tq *taskQueue) len() int {
	return len(tq.queue)
}
