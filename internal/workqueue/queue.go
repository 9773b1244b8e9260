// Package workqueue holds the pending file tasks consumed by the worker
// pool.
//
// The queue is populated once before any worker starts and is pull-only
// afterwards: TryPop hands each task to exactly one caller, and an empty
// result is the pool's sole termination signal. The critical section is
// just the pop itself.
package workqueue

import "sync"

// Task is one file awaiting classification. Immutable once created; owned
// by the queue until popped, then by the popping worker.
type Task struct {
	// Path is the absolute source path discovered by the scan.
	Path string
}

// Queue is a mutex-guarded FIFO of pending tasks.
type Queue struct {
	mu    sync.Mutex
	tasks []Task
}

// New builds a queue over the given source paths.
func New(paths []string) *Queue {
	tasks := make([]Task, len(paths))
	for i, p := range paths {
		tasks[i] = Task{Path: p}
	}
	return &Queue{tasks: tasks}
}

// TryPop removes and returns the next task. ok is false once the queue is
// drained.
func (q *Queue) TryPop() (task Task, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return Task{}, false
	}
	task = q.tasks[0]
	q.tasks = q.tasks[1:]
	return task, true
}

// Len reports the number of tasks not yet popped.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
