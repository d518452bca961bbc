package master

import (
	"container/heap"
	"time"

	"github.com/open-dnp3/godnp3/pkg/app"
)

// TaskPriority orders competing tasks on an association's queue: a lower
// value runs first. A user-issued command preempts both the periodic
// polls and the startup/recovery housekeeping tasks spec.md §4.5
// describes.
type TaskPriority int

const (
	PriorityCommand TaskPriority = iota
	PriorityUserPoll
	PriorityAutoTask
	PriorityBackgroundScan
)

// TaskResult is handed to a Task's OnComplete callback once a response
// satisfied it, its response timer expired, or the association failed
// before it could run.
type TaskResult struct {
	Response *app.Fragment
	Err      error
}

// Task is one unit of master-initiated work against an association:
// building a request fragment and reacting to whatever reply follows,
// per spec.md §4.5's "Request lifecycle".
type Task struct {
	Name     string
	Priority TaskPriority

	// Build encodes this task's request fragment using the sequence
	// number the association assigns it.
	Build func(seq uint8) ([]byte, error)

	// OnResponse is invoked with every fragment received in reply,
	// including a non-final fragment of a multi-fragment response
	// (FIN=0). It reports whether the task is now complete.
	OnResponse func(frag *app.Fragment) (done bool)

	// OnComplete is invoked exactly once with the final outcome.
	OnComplete func(TaskResult)

	enqueuedAt time.Time
	index      int
}

type taskHeap []*Task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}
	return h[i].enqueuedAt.Before(h[j].enqueuedAt)
}
func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *taskHeap) Push(x any) {
	t := x.(*Task)
	t.index = len(*h)
	*h = append(*h, t)
}
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// TaskQueue is a priority queue of pending tasks: lowest TaskPriority
// first, FIFO within a tier. No scheduling/priority-queue library
// appears anywhere in the example pack, so this is built directly on
// container/heap — the standard library's own worked example for this
// exact shape of problem.
type TaskQueue struct {
	h taskHeap
}

// NewTaskQueue builds an empty queue.
func NewTaskQueue() *TaskQueue {
	tq := &TaskQueue{}
	heap.Init(&tq.h)
	return tq
}

// Push enqueues a task, stamping its arrival time for FIFO tie-breaking.
func (tq *TaskQueue) Push(t *Task) {
	t.enqueuedAt = time.Now()
	heap.Push(&tq.h, t)
}

// Pop removes and returns the highest-priority task, or nil if empty.
func (tq *TaskQueue) Pop() *Task {
	if tq.h.Len() == 0 {
		return nil
	}
	return heap.Pop(&tq.h).(*Task)
}

// Len reports the number of pending tasks.
func (tq *TaskQueue) Len() int { return tq.h.Len() }
